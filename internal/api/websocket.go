package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/chronoplan/core/compare"
	"github.com/FocuswithJustin/chronoplan/internal/logging"
)

// Stream message types.
const (
	MessageDifference = "difference"
	MessageComplete   = "complete"
)

// writeWait bounds each frame write.
const writeWait = 10 * time.Second

// StreamMessage is one frame of a streamed comparison. A stream is zero or
// more "difference" frames followed by exactly one "complete" frame.
type StreamMessage struct {
	Type       string              `json:"type"`
	SessionID  string              `json:"sessionId"`
	Index      int                 `json:"index,omitempty"` // 1-based position of Difference
	Difference *compare.Difference `json:"difference,omitempty"`
	Summary    *compare.Summary    `json:"summary,omitempty"`
	Message    string              `json:"message,omitempty"`
	Timestamp  string              `json:"timestamp"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || s.cors.Allows(origin) {
				return true
			}
			logging.SecurityEvent(r.Context(), "websocket_origin_rejected", "api", "origin", origin)
			return false
		},
	}
}

// handleCompareStream resolves both plans before upgrading, so bad providers
// get an ordinary JSON error response, then streams the comparison.
func (s *Server) handleCompareStream(w http.ResponseWriter, r *http.Request) {
	c, err := s.comparison(r.Context(), r.URL.Query().Get("a"), r.URL.Query().Get("b"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	ctx := r.Context()
	logging.WebSocketEvent(ctx, "stream_started", sessionID,
		"provider_a", string(c.ProviderA),
		"provider_b", string(c.ProviderB),
		"differences", c.TotalDifferences)

	send := func(msg StreamMessage) error {
		msg.SessionID = sessionID
		msg.Timestamp = timestamp()
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}

	for i := range c.Differences {
		if err := send(StreamMessage{Type: MessageDifference, Index: i + 1, Difference: &c.Differences[i]}); err != nil {
			logging.WebSocketEvent(ctx, "stream_aborted", sessionID, "error", err, "sent", i)
			return
		}
	}

	summary := compare.Summarize(c)
	if err := send(StreamMessage{Type: MessageComplete, Summary: &summary}); err != nil {
		logging.WebSocketEvent(ctx, "stream_aborted", sessionID, "error", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "comparison complete"))
	logging.WebSocketEvent(ctx, "stream_completed", sessionID)
}
