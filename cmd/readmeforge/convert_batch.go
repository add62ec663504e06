package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no markdown files found")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrBatchFailed  = errors.New("some conversions failed")
)

// ConversionResult holds the outcome of a single file conversion.
type ConversionResult struct {
	InputPath string
	Outputs   []string
	Err       error
	Duration  time.Duration
}

// convertBatch converts files concurrently, one worker per pool slot.
func convertBatch(ctx context.Context, pool *readmeforge.ConverterPool, files []FileToConvert, formats []readmeforge.Format) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// Converter creation failed, mark the jobs this worker drains
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], formats)
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

// convertFile converts one file and writes every requested format.
func convertFile(ctx context.Context, conv *readmeforge.Converter, f FileToConvert, formats []readmeforge.Format) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	res, err := conv.Convert(ctx, readmeforge.Input{
		Markdown:   string(content),
		SourceName: filepath.Base(f.InputPath),
		Formats:    formats,
	})
	if res == nil {
		return done(err)
	}

	// Formats that rendered are written even when others failed.
	for _, format := range formats {
		if !res.OK(format) {
			continue
		}
		outPath := f.Outputs[format]
		if werr := os.MkdirAll(filepath.Dir(outPath), dirPermissions); werr != nil {
			return done(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, werr))
		}
		// #nosec G306 -- reports are meant to be readable
		if werr := os.WriteFile(outPath, res.Bytes(format), filePermissions); werr != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteOutput, werr))
		}
		result.Outputs = append(result.Outputs, outPath)
	}

	return done(err)
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

// printResults writes per-file results and returns the number of failures.
func printResults(results []ConversionResult, flags commonFlags, stdout, stderr io.Writer) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
		}

		if flags.quiet {
			continue
		}

		for _, out := range r.Outputs {
			if flags.verbose {
				fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.InputPath, out, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(stdout, "Created %s\n", out)
			}
		}
	}

	if !flags.quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
