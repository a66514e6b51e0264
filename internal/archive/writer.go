package archive

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/internal/formats"
	"github.com/FocuswithJustin/chronoplan/internal/validation"
)

// PlanDir is the directory holding plan files inside a bundle.
const PlanDir = "plans"

type bundleFile struct {
	name string
	data []byte
}

// Export writes plans to w as a tar.xz bundle. The manifest is the first
// entry so readers can stream the rest.
func Export(w io.Writer, plans []*plan.ReadingPlan) (*Manifest, error) {
	now := time.Now().UTC().Truncate(time.Second)
	manifest := &Manifest{Version: ManifestVersion, CreatedAt: now.Format(time.RFC3339)}

	files := make([]bundleFile, 0, len(plans))
	seen := make(map[plan.Provider]bool, len(plans))
	for _, p := range plans {
		if p == nil {
			return nil, errors.NewValidation("plan", "", "plan is nil")
		}
		if seen[p.Provider] {
			return nil, errors.NewValidation("provider", string(p.Provider), "duplicate provider in bundle")
		}
		seen[p.Provider] = true

		base, err := validation.SanitizeFilename(string(p.Provider))
		if err != nil {
			return nil, errors.NewValidation("provider", string(p.Provider), err.Error())
		}
		var buf bytes.Buffer
		if err := (formats.JSON{}).Encode(&buf, p); err != nil {
			return nil, err
		}
		name := PlanDir + "/" + base + ".json"
		files = append(files, bundleFile{name: name, data: buf.Bytes()})
		manifest.Plans = append(manifest.Plans, Entry{
			Provider: p.Provider,
			File:     name,
			BLAKE3:   Digest(buf.Bytes()),
			Days:     p.Len(),
		})
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	for _, f := range append([]bundleFile{{name: ManifestName, data: manifestData}}, files...) {
		header := &tar.Header{
			Name:     f.name,
			Mode:     0o644,
			Size:     int64(len(f.data)),
			ModTime:  now,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("write header %s: %w", f.name, err)
		}
		if _, err := tw.Write(f.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return nil, fmt.Errorf("close xz: %w", err)
	}
	return manifest, nil
}

// ExportFile writes a bundle to dstPath. If createParentDir is true, parent
// directories of dstPath are created.
func ExportFile(dstPath string, plans []*plan.ReadingPlan, createParentDir bool) (*Manifest, error) {
	if createParentDir {
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return nil, errors.NewIO("create directory", filepath.Dir(dstPath), err)
		}
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return nil, errors.NewIO("create bundle", dstPath, err)
	}
	manifest, err := Export(out, plans)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errors.NewIO("close bundle", dstPath, cerr)
	}
	if err != nil {
		os.Remove(dstPath)
		return nil, err
	}
	return manifest, nil
}
