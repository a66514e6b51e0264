package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/chronoplan/core/compare"
	"github.com/FocuswithJustin/chronoplan/core/plan"
)

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestCompareStream(t *testing.T) {
	s, st := newTestServer(t, Config{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/compare?a=esv&b=logos"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	want := compare.Compare(storedPlan(t, st, plan.ProviderESV), storedPlan(t, st, plan.ProviderLogos))

	var got []compare.Difference
	var sessionID string
	var summary *compare.Summary
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for summary == nil {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON after %d differences: %v", len(got), err)
		}
		if msg.SessionID == "" {
			t.Fatal("message without session id")
		}
		if sessionID == "" {
			sessionID = msg.SessionID
		} else if msg.SessionID != sessionID {
			t.Errorf("session id changed from %s to %s", sessionID, msg.SessionID)
		}

		switch msg.Type {
		case MessageDifference:
			if msg.Index != len(got)+1 {
				t.Errorf("index = %d, want %d", msg.Index, len(got)+1)
			}
			got = append(got, *msg.Difference)
		case MessageComplete:
			summary = msg.Summary
		default:
			t.Fatalf("unexpected message type %q", msg.Type)
		}
	}

	if diff := cmp.Diff(want.Differences, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("streamed differences (-want +got):\n%s", diff)
	}
	if summary.Total != want.TotalDifferences {
		t.Errorf("summary total = %d, want %d", summary.Total, want.TotalDifferences)
	}

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("after complete: %v, want normal closure", err)
	}
}

func TestCompareStreamRejectsBadProvider(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/compare?a=esv&b=nope"), nil)
	if err == nil {
		t.Fatal("Dial succeeded for unknown provider")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %v, want 400", resp)
	}
}

func TestCompareStreamChecksOrigin(t *testing.T) {
	s, _ := newTestServer(t, Config{AllowedOrigins: []string{"https://plans.example"}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/compare?a=esv&b=logos"), header)
	if err == nil {
		t.Fatal("Dial succeeded from unlisted origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}

	header.Set("Origin", "https://plans.example")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/compare?a=esv&b=logos"), header)
	if err != nil {
		t.Fatalf("Dial from listed origin: %v", err)
	}
	conn.Close()
}
