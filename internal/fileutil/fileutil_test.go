package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.html")

	if err := WriteFileAtomic(path, []byte("<p>first</p>"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() unexpected error: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("<p>second</p>"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "<p>second</p>" {
		t.Errorf("content = %q, want %q", got, "<p>second</p>")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp file left behind)", len(entries))
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.html")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Error("WriteFileAtomic() expected error for missing directory")
	}
}

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		ext     string
		want    string
		wantErr error
	}{
		{"md to html", "docs/lesson.md", ".html", "docs/lesson.html", nil},
		{"without dot", "lesson.md", "json", "lesson.json", nil},
		{"no extension", "lesson", ".md", "lesson.md", nil},
		{"empty extension", "lesson.md", "", "", ErrExtensionEmpty},
		{"dot only", "lesson.md", ".", "", ErrExtensionEmpty},
		{"separator", "lesson.md", "a/b", "", ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ReplaceExtension(tt.path, tt.ext)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ReplaceExtension() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReplaceExtension() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ReplaceExtension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"minimal", false},
		{"my-style", false},
		{"./course.css", true},
		{"/abs/course.css", true},
		{`C:\styles\course.css`, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	if !HasExtension("Lesson.MD", ".md", ".markdown") {
		t.Error("HasExtension(Lesson.MD) = false, want true")
	}
	if HasExtension("lesson.pdf", ".md") {
		t.Error("HasExtension(lesson.pdf) = true, want false")
	}
}

func TestIsCSS(t *testing.T) {
	t.Parallel()

	if !IsCSS("body { color: red; }") {
		t.Error("IsCSS(rule) = false, want true")
	}
	if IsCSS("minimal") {
		t.Error("IsCSS(name) = true, want false")
	}
}
