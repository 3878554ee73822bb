package main

// Notes:
// - runMain: end-to-end runs against temp directories with the real
//   converter, one per mode, plus exit codes for usage and I/O failures.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const courseLesson = `## מבוא
פסקה.

>>> QUIZ_JSON:
{"questions": [{"id": "q1", "questionText": "?", "options": [{"id": "a", "text": "כן"}], "correctAnswerId": "a"}]}
<<< QUIZ_JSON_END
סוף`

// ---------------------------------------------------------------------------
// TestRunMain_Modes - One file per mode
// ---------------------------------------------------------------------------

func TestRunMain_Article(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "article.md", "# כותרת\n\n>>> TIP: טיפ")

	env := newTestEnv(nil, "")
	if code := runMain([]string{in}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d; stderr: %s", code, ExitSuccess, env.stderr)
	}

	got := readFile(t, filepath.Join(dir, "article.html"))
	for _, want := range []string{"<h2>כותרת</h2>", "alert-tip"} {
		if !strings.Contains(got, want) {
			t.Errorf("article.html missing %q", want)
		}
	}
	if !strings.Contains(env.stdout.String(), "Created") {
		t.Errorf("stdout = %q, want Created line", env.stdout)
	}
}

func TestRunMain_CourseWritesJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "lesson.md", courseLesson)

	env := newTestEnv(nil, "")
	if code := runMain([]string{"--mode", "course", in}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}

	var items []struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal([]byte(readFile(t, filepath.Join(dir, "lesson.json"))), &items); err != nil {
		t.Fatalf("lesson.json is not valid JSON: %v", err)
	}

	var types []string
	for _, item := range items {
		types = append(types, item.Type)
	}
	if got := strings.Join(types, ","); got != "html,quiz,html" {
		t.Errorf("item types = %s, want html,quiz,html", got)
	}
	if !strings.Contains(string(items[0].Content), "<h3>מבוא</h3>") {
		t.Errorf("first item = %s, want unescaped heading HTML", items[0].Content)
	}
}

func TestRunMain_CourseStandalone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "lesson.md", courseLesson)
	out := filepath.Join(dir, "out")

	env := newTestEnv(nil, "")
	args := []string{"--mode", "course", "--standalone", "--title", "שיעור", "-o", out, in}
	if code := runMain(args, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}

	got := readFile(t, filepath.Join(out, "lesson.html"))
	for _, want := range []string{"<!DOCTYPE html>", "<title>שיעור</title>", "<style>", `class="quiz-section"`} {
		if !strings.Contains(got, want) {
			t.Errorf("lesson.html missing %q", want)
		}
	}
}

func TestRunMain_PreparseKeepsSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "draft.md", ">>> NOTE: הערה")

	env := newTestEnv(nil, "")
	if code := runMain([]string{"--mode=preparse", in}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}

	if got := readFile(t, in); got != ">>> NOTE: הערה" {
		t.Errorf("source modified: %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "draft.editor.md")); !strings.Contains(got, `data-alert-type="note"`) {
		t.Errorf("draft.editor.md = %q, want alert div", got)
	}
}

func TestRunMain_PostserializeDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.html", `<div data-alert-block data-alert-type="tip"><p>one</p></div>`)
	writeFile(t, dir, "nested/b.html", `<p>two</p>`)
	writeFile(t, dir, "ignored.md", "not html")

	env := newTestEnv(nil, "")
	if code := runMain([]string{"--mode", "postserialize", "-q", dir}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}

	if got := readFile(t, filepath.Join(dir, "a.md")); !strings.Contains(got, ">>> TIP: one") {
		t.Errorf("a.md = %q, want alert marker", got)
	}
	if got := readFile(t, filepath.Join(dir, "nested", "b.md")); !strings.Contains(got, "two") {
		t.Errorf("nested/b.md = %q", got)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet run wrote stdout: %q", env.stdout)
	}
}

func TestRunMain_Stdin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, "שורה אחת")
	if code := runMain([]string{"-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}
	if got := env.stdout.String(); got != "<p>שורה אחת</p>\n" {
		t.Errorf("stdout = %q, want %q", got, "<p>שורה אחת</p>\n")
	}
}

func TestRunMain_EnvMode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(map[string]string{"COURSEMARK_MODE": "preparse"}, ">>> INFO: x")
	if code := runMain([]string{"-"}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}
	if !strings.Contains(env.stdout.String(), `data-alert-type="info"`) {
		t.Errorf("stdout = %q, want preparse output", env.stdout)
	}
}

func TestRunMain_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "coursemark.yaml", `
output:
  mode: course
tables:
  markers: ["Table"]
`)
	in := writeFile(t, dir, "lesson.md", "טקסט")

	env := newTestEnv(nil, "")
	if code := runMain([]string{"-c", cfgPath, in}, env.Environment); code != ExitSuccess {
		t.Fatalf("runMain() = %d; stderr: %s", code, env.stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "lesson.json")); err != nil {
		t.Errorf("config mode not applied: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_ExitCodes - Failure mapping
// ---------------------------------------------------------------------------

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	md := writeFile(t, dir, "a.md", "x")
	pdf := writeFile(t, dir, "a.pdf", "x")

	tests := []struct {
		name string
		args []string
		vars map[string]string
		want int
	}{
		{"help", []string{"--help"}, nil, ExitSuccess},
		{"version", []string{"--version"}, nil, ExitSuccess},
		{"unknown flag", []string{"--nope"}, nil, ExitUsage},
		{"quiet and verbose", []string{"-q", "-v", md}, nil, ExitUsage},
		{"invalid mode", []string{"--mode", "pdf", md}, nil, ExitUsage},
		{"invalid timeout", []string{"-t", "soon", md}, nil, ExitUsage},
		{"too many workers", []string{"-w", "1000", md}, nil, ExitUsage},
		{"unknown style", []string{"--style", "nope", md}, nil, ExitUsage},
		{"wrong extension", []string{pdf}, nil, ExitUsage},
		{"missing config", []string{"-c", filepath.Join(dir, "none.yaml"), md}, nil, ExitUsage},
		{"bad env workers", []string{md}, map[string]string{"COURSEMARK_WORKERS": "many"}, ExitUsage},
		{"no input", nil, nil, ExitIO},
		{"missing file", []string{filepath.Join(dir, "missing.md")}, nil, ExitIO},
		{"empty directory", []string{t.TempDir()}, nil, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.vars, "")
			if got := runMain(tt.args, env.Environment); got != tt.want {
				t.Errorf("runMain(%v) = %d, want %d; stderr: %s", tt.args, got, tt.want, env.stderr)
			}
		})
	}
}

func TestRunMain_VersionOutput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, "")
	runMain([]string{"--version"}, env.Environment)
	if !strings.Contains(env.stdout.String(), "coursemark "+Version) {
		t.Errorf("stdout = %q, want version", env.stdout)
	}
}

func TestRunMain_WarnsUnknownEnvVar(t *testing.T) {
	t.Parallel()

	env := newTestEnv(map[string]string{"COURSEMARK_STYEL": "minimal"}, "x")
	runMain([]string{"-"}, env.Environment)
	if !strings.Contains(env.stderr.String(), "COURSEMARK_STYEL") {
		t.Errorf("stderr = %q, want typo warning", env.stderr)
	}
}

func TestRunMain_ListStyles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(nil, "")
	if code := runMain([]string{"--list-styles"}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, ExitSuccess, env.stderr)
	}
	for _, want := range []string{"default", "minimal"} {
		if !strings.Contains(env.stdout.String(), want+"\n") {
			t.Errorf("stdout = %q, want %q listed", env.stdout, want)
		}
	}
}
