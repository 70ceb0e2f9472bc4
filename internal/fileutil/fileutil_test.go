package fileutil_test

// Notes:
// - WriteFileAtomic write/close/chmod error branches are not tested because
//   triggering disk failures is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-mdmanual/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Temp file + rename
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "manual.pdf")

	if err := fileutil.WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temp files left behind: %v", names)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %v, want 0644", info.Mode().Perm())
		}
	}
}

func TestWriteFileAtomic_Errors(t *testing.T) {
	t.Parallel()

	if err := fileutil.WriteFileAtomic("", nil, 0o644); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("empty path: error = %v, want ErrEmptyPath", err)
	}

	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "out.pdf")
	err := fileutil.WriteFileAtomic(missing, []byte("x"), 0o644)
	if err == nil || !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("missing dir: error = %v, want creating temp file error", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - Regular file detection
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.txt")
	if err := os.WriteFile(testFile, []byte("content"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file returns true", testFile, true},
		{"directory returns false", testDir, false},
		{"nonexistent path returns false", filepath.Join(tempDir, "nonexistent"), false},
		{"empty path returns false", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"docs", false},
		{"docs.yaml", false},
		{"./docs.yaml", true},
		{"../shared/docs.toml", true},
		{"/absolute/docs.yaml", true},
		{`C:\config\docs.yaml`, true},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestStem / TestHasExtension - Source file naming
// ---------------------------------------------------------------------------

func TestStem(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Home.md":               "Home",
		"docs/Quick-Start.md":   "Quick-Start",
		"i2b2-Upgrade.readme":   "i2b2-Upgrade",
		"archive.tar.gz":        "archive.tar",
		"NoExtension":           "NoExtension",
		"dir/with.dot/Guide.MD": "Guide",
	}

	for in, want := range tests {
		if got := fileutil.Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	exts := []string{".md", ".readme"}
	tests := []struct {
		path string
		want bool
	}{
		{"Home.md", true},
		{"Home.MD", true},
		{"Notes.Readme", true},
		{"image.png", false},
		{"README", false},
		{"md", false},
	}

	for _, tt := range tests {
		if got := fileutil.HasExtension(tt.path, exts); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFileURL - Local path to file:// URL
// ---------------------------------------------------------------------------

func TestFileURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := fileutil.FileURL(filepath.Join(dir, "My Page.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(got, "file:///") {
		t.Errorf("FileURL = %q, want file:/// prefix", got)
	}
	if !strings.HasSuffix(got, "/My%20Page.html") {
		t.Errorf("FileURL = %q, want escaped file name", got)
	}

	if _, err := fileutil.FileURL(""); !errors.Is(err, fileutil.ErrEmptyPath) {
		t.Errorf("empty path: error = %v, want ErrEmptyPath", err)
	}
}
