package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	coursemark "github.com/alnah/go-coursemark"
	"github.com/alnah/go-coursemark/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("unsupported input file extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// MaxWorkers caps the worker pool.
const MaxWorkers = 64

// Input extensions per mode. Postserialize reads editor HTML.
var (
	markupExtensions = []string{".md", ".markdown", ".txt"}
	htmlExtensions   = []string{".html", ".htm"}
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// inputExtensions returns the file extensions a mode reads.
func inputExtensions(mode coursemark.Mode) []string {
	if mode == coursemark.ModePostserialize {
		return htmlExtensions
	}
	return markupExtensions
}

// outputExtension returns the extension a mode writes. Preparse output gets
// its own suffix so it never overwrites the source file.
func outputExtension(mode coursemark.Mode, standalone bool) string {
	switch mode {
	case coursemark.ModeCourse:
		if standalone {
			return ".html"
		}
		return ".json"
	case coursemark.ModePreparse:
		return ".editor.md"
	case coursemark.ModePostserialize:
		return ".md"
	default:
		return ".html"
	}
}

// discoverFiles finds all files to convert under inputPath.
func discoverFiles(inputPath, outputDir string, mode coursemark.Mode, outExt string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	exts := inputExtensions(mode)

	if !info.IsDir() {
		if !fileutil.HasExtension(inputPath, exts...) {
			return nil, fmt.Errorf("%w: %q (mode %s reads %s)", ErrInvalidExtension, filepath.Ext(inputPath), mode, strings.Join(exts, ", "))
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", outExt)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !fileutil.HasExtension(path, exts...) || isGeneratedOutput(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, outExt)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// isGeneratedOutput reports whether path looks like an earlier preparse result.
func isGeneratedOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".editor.md")
}

// resolveOutputPath determines the output path for an input file.
// An outputDir ending in outExt names the output file directly.
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+outExt)
	}

	if baseInputDir == "" && strings.HasSuffix(outputDir, outExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+outExt)
		}
	}

	return filepath.Join(outputDir, base+outExt)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}
