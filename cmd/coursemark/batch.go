package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	coursemark "github.com/alnah/go-coursemark"
	"github.com/alnah/go-coursemark/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input coursemark.Input) (*coursemark.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*coursemark.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	mode       coursemark.Mode
	standalone bool
	title      string // empty = file name
	timeout    time.Duration
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// resolveWorkers determines the worker count.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
func resolveWorkers(n int) int {
	if n > 0 {
		return n
	}
	n = runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// convertBatch processes files concurrently with a fixed number of workers.
// The converter is shared: it holds no per-call state.
func convertBatch(ctx context.Context, conv CLIConverter, files []FileToConvert, params *conversionParams, workers int, logger zerolog.Logger) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
				logger.Debug().
					Str("input", results[idx].InputPath).
					Dur("took", results[idx].Duration).
					Msg("converted")
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	title := params.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(f.InputPath), filepath.Ext(f.InputPath))
	}

	payload, err := convertContent(ctx, conv, string(content), title, params)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, payload, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// convertContent runs one conversion with the per-file timeout and encodes
// the output for writing.
func convertContent(ctx context.Context, conv CLIConverter, content, title string, params *conversionParams) ([]byte, error) {
	if params.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.timeout)
		defer cancel()
	}

	res, err := conv.Convert(ctx, coursemark.Input{
		Content:    content,
		Mode:       params.mode,
		Title:      title,
		Standalone: params.standalone,
	})
	if err != nil {
		return nil, err
	}
	return encodeResult(res, params.standalone)
}

// encodeResult encodes the primary output of a result. Course items are
// written as JSON unless the output is a standalone document.
func encodeResult(res *coursemark.Result, standalone bool) ([]byte, error) {
	switch {
	case res.Mode == coursemark.ModeCourse && !standalone:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Items); err != nil {
			return nil, fmt.Errorf("encoding course items: %w", err)
		}
		return buf.Bytes(), nil
	case res.Mode.ProducesHTML():
		return []byte(res.HTML + "\n"), nil
	default:
		return []byte(res.Markdown + "\n"), nil
	}
}

// convertStream converts stdin to stdout.
func convertStream(ctx context.Context, conv CLIConverter, r io.Reader, w io.Writer, params *conversionParams) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
	}
	payload, err := convertContent(ctx, conv, string(content), params.title, params)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("%w: stdout: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports conversion results. Failures go to the logger;
// created files go to stdout unless quiet.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment, logger zerolog.Logger) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			logger.Error().Str("input", r.InputPath).Err(r.Err).Msg("conversion failed")
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
