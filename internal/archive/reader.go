package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/chronoplan/core/errors"
	"github.com/FocuswithJustin/chronoplan/core/plan"
	"github.com/FocuswithJustin/chronoplan/internal/formats"
	"github.com/FocuswithJustin/chronoplan/internal/validation"
)

// Reader wraps a tar.Reader with decompression.
type Reader struct {
	*tar.Reader
	closers []io.Closer
}

// NewReader reads an xz-compressed tar stream.
func NewReader(r io.Reader) (*Reader, error) {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return nil, errors.NewParse("bundle", "", "xz: "+err.Error())
	}
	return &Reader{Reader: tar.NewReader(xzr)}, nil
}

// OpenFile opens a bundle file. Both .tar.xz and .tar.gz are accepted.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open bundle", path, err)
	}

	if _, err := validation.ValidateFileType(f, path); err != nil {
		f.Close()
		return nil, errors.NewParse("bundle", path, err.Error())
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, errors.NewIO("open bundle", path, err)
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewParse("bundle", path, "gzip: "+err.Error())
		}
		return &Reader{Reader: tar.NewReader(gzr), closers: []io.Closer{gzr, f}}, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		r, err := NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.closers = []io.Closer{f}
		return r, nil
	default:
		f.Close()
		return nil, errors.NewUnsupported("bundle format", path)
	}
}

// Close closes the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Visitor is called for each entry. Return true to stop iteration.
type Visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// Iterate walks the entries, calling visitor for each.
func (r *Reader) Iterate(visitor Visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewParse("bundle", "", "read header: "+err.Error())
		}

		stop, err := visitor(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// Import reads a bundle, verifies every plan against its manifest digest and
// returns the plans in manifest order.
func Import(r io.Reader) ([]*plan.ReadingPlan, *Manifest, error) {
	br, err := NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return br.importAll()
}

// ImportFile is Import for a bundle on disk.
func ImportFile(path string) ([]*plan.ReadingPlan, *Manifest, error) {
	br, err := OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer br.Close()
	plans, manifest, err := br.importAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "import %s", path)
	}
	return plans, manifest, nil
}

func (r *Reader) importAll() ([]*plan.ReadingPlan, *Manifest, error) {
	var manifest *Manifest
	contents := make(map[string][]byte)

	err := r.Iterate(func(header *tar.Header, content io.Reader) (bool, error) {
		if header.Typeflag == tar.TypeDir {
			return false, nil
		}
		if header.Typeflag != tar.TypeReg {
			return false, errors.NewParse("bundle", "", fmt.Sprintf("%s: unsupported entry type", header.Name))
		}
		name, err := validation.SanitizePath(".", header.Name)
		if err != nil {
			return false, errors.NewParse("bundle", "", fmt.Sprintf("%s: %v", header.Name, err))
		}
		name = strings.ReplaceAll(name, "\\", "/")
		if header.Size > validation.MaxFileSize {
			return false, errors.NewParse("bundle", "", fmt.Sprintf("%s: entry too large", name))
		}
		data, err := io.ReadAll(io.LimitReader(content, validation.MaxFileSize+1))
		if err != nil {
			return false, errors.NewParse("bundle", "", fmt.Sprintf("%s: %v", name, err))
		}
		if _, dup := contents[name]; dup {
			return false, errors.NewParse("bundle", "", fmt.Sprintf("%s: duplicate entry", name))
		}
		if name == ManifestName {
			manifest = &Manifest{}
			if err := json.Unmarshal(data, manifest); err != nil {
				return false, errors.NewParse("manifest", "", err.Error())
			}
		}
		contents[name] = data
		return false, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if manifest == nil {
		return nil, nil, errors.NewParse("bundle", "", "missing "+ManifestName)
	}
	if manifest.Version != ManifestVersion {
		return nil, nil, errors.NewUnsupported("bundle version", fmt.Sprintf("%d", manifest.Version))
	}

	listed := map[string]bool{ManifestName: true}
	plans := make([]*plan.ReadingPlan, 0, len(manifest.Plans))
	for _, e := range manifest.Plans {
		data, ok := contents[e.File]
		if !ok {
			return nil, nil, errors.NewParse("bundle", "", fmt.Sprintf("%s: listed in manifest but missing", e.File))
		}
		listed[e.File] = true
		if got := Digest(data); got != e.BLAKE3 {
			return nil, nil, errors.NewParse("bundle", "", fmt.Sprintf("%s: digest mismatch (manifest %s, content %s)", e.File, e.BLAKE3, got))
		}
		p, err := (formats.JSON{}).Decode(bytes.NewReader(data))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "bundle entry %s", e.File)
		}
		if p.Provider != e.Provider {
			return nil, nil, errors.NewParse("bundle", "", fmt.Sprintf("%s: provider %q, manifest says %q", e.File, p.Provider, e.Provider))
		}
		plans = append(plans, p)
	}
	for name := range contents {
		if !listed[name] {
			return nil, nil, errors.NewParse("bundle", "", fmt.Sprintf("%s: not listed in manifest", name))
		}
	}
	return plans, manifest, nil
}
