package main

// Notes:
// - Test infrastructure shared by the CLI tests: an in-memory Environment
//   and a static converter mock. Not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	coursemark "github.com/alnah/go-coursemark"
)

// ---------------------------------------------------------------------------
// Test Environment
// ---------------------------------------------------------------------------

type testEnvironment struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newTestEnv returns an Environment with captured output and the given
// environment variables.
func newTestEnv(vars map[string]string, stdin string) *testEnvironment {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnvironment{
		Environment: &Environment{
			Context: context.Background(),
			Stdin:   strings.NewReader(stdin),
			Stdout:  stdout,
			Stderr:  stderr,
			LookupEnv: func(name string) (string, bool) {
				v, ok := vars[name]
				return v, ok
			},
			Environ: func() []string {
				out := make([]string, 0, len(vars))
				for k, v := range vars {
					out = append(out, k+"="+v)
				}
				return out
			},
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// staticMockConverter returns a fixed result or error.
type staticMockConverter struct {
	result *coursemark.Result
	err    error
}

func (m *staticMockConverter) Convert(_ context.Context, in coursemark.Input) (*coursemark.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
