// Package archive exports and imports plan bundles: xz-compressed tar files
// holding a manifest.json and one JSON file per plan.
package archive

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/chronoplan/core/plan"
)

// ManifestName is the manifest entry name inside a bundle.
const ManifestName = "manifest.json"

// ManifestVersion is the bundle layout version written by Export.
const ManifestVersion = 1

// Manifest lists the plans in a bundle.
type Manifest struct {
	Version   int     `json:"version"`
	CreatedAt string  `json:"created_at,omitempty"`
	Plans     []Entry `json:"plans"`
}

// Entry describes one plan file in a bundle.
type Entry struct {
	Provider plan.Provider `json:"provider"`
	File     string        `json:"file"`
	BLAKE3   string        `json:"blake3"`
	Days     int           `json:"days"`
}

// Lookup returns the entry for a provider.
func (m *Manifest) Lookup(provider plan.Provider) (Entry, bool) {
	for _, e := range m.Plans {
		if e.Provider == provider {
			return e, true
		}
	}
	return Entry{}, false
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
