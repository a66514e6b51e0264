package validation

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	baseDir := "/tmp/test"

	tests := []struct {
		name      string
		userPath  string
		want      string
		wantError error
	}{
		{"simple valid path", "esv.json", "esv.json", nil},
		{"nested valid path", "plans/esv.json", filepath.Join("plans", "esv.json"), nil},
		{"redundant separators", "plans//esv.json", filepath.Join("plans", "esv.json"), nil},
		{"dot component", "./manifest.json", "manifest.json", nil},
		{"traversal with dotdot", "../etc/passwd", "", ErrPathTraversal},
		{"traversal in middle", "plans/../../etc/passwd", "", ErrPathTraversal},
		{"absolute path", "/etc/passwd", "", ErrPathTraversal},
		{"empty path", "", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), "", ErrPathTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(baseDir, tt.userPath)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("SanitizePath() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"valid", "esv.json", false},
		{"valid with spaces", "my plan.xml", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"slash", "plans/esv.json", true},
		{"backslash", "plans\\esv.json", true},
		{"null byte", "esv\x00.json", true},
		{"control character", "esv\n.json", true},
		{"leading hyphen", "-rf", true},
		{"too long", strings.Repeat("a", MaxFilenameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"valid", "/var/lib/chronoplan/plans.db", nil},
		{"relative", "plans/esv.json", nil},
		{"empty", "", ErrEmptyPath},
		{"null byte", "plans\x00.db", ErrInvalidCharacter},
		{"control character", "plans\t.db", ErrInvalidCharacter},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"esv", "esv", false},
		{"  logos  ", "logos", false},
		{"a/b\\c", "a_b_c", false},
		{"--flag", "flag", false},
		{"tab\there", "tabhere", false},
		{"", "", true},
		{"---", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateParam(t *testing.T) {
	if err := ValidateParam("book", "1 Kings"); err != nil {
		t.Errorf("ValidateParam(1 Kings) error = %v", err)
	}
	if err := ValidateParam("book", ""); err != nil {
		t.Errorf("ValidateParam(empty) error = %v", err)
	}
	if err := ValidateParam("book", strings.Repeat("x", MaxParamLength+1)); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("ValidateParam(long) error = %v, want ErrInvalidParam", err)
	}
	if err := ValidateParam("date", "586\x07BC"); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("ValidateParam(control) error = %v, want ErrInvalidParam", err)
	}
}

func TestValidateFileType(t *testing.T) {
	xzMagic := []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}
	tests := []struct {
		name     string
		filename string
		content  []byte
		want     FileType
		wantErr  bool
	}{
		{"bundle", "plans.tar.xz", xzMagic, FileTypeTarXZ, false},
		{"gzip bundle", "plans.tgz", []byte{0x1f, 0x8b, 0x08}, FileTypeTarGZ, false},
		{"sqlite", "plans.db", []byte("SQLite format 3\x00"), FileTypeSQLite, false},
		{"json plan", "esv.json", []byte(`{"provider":"esv"}`), FileTypeJSON, false},
		{"xml plan", "esv.xml", []byte(`<plan provider="esv"/>`), FileTypeXML, false},
		{"json with xz content", "esv.json", xzMagic, FileTypeUnknown, true},
		{"json with binary content", "esv.json", []byte{0x00, 0x01, 0x02}, FileTypeUnknown, true},
		{"unknown extension", "esv.plan", []byte("hello"), FileTypeUnknown, false},
		{"unknown extension xz content", "esv.plan", xzMagic, FileTypeXZ, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFileType(bytes.NewReader(tt.content), tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFileType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateFileType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsLikelyText(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"empty", nil, false},
		{"ascii", []byte("Genesis 1-3\n"), true},
		{"null byte", []byte("abc\x00"), false},
		{"mostly control", []byte{0x01, 0x02, 0x03, 'a'}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLikelyText(tt.buf); got != tt.want {
				t.Errorf("isLikelyText(%q) = %v, want %v", tt.buf, got, tt.want)
			}
		})
	}
}
