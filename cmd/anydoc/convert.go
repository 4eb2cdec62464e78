package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	anydoc "github.com/avasse/go-anydoc"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput     = errors.New("no input files specified")
	ErrNoTarget    = errors.New("no target format specified (use --to)")
	ErrReadInput   = errors.New("failed to read input file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Converter is the interface for the conversion library.
type Converter interface {
	Convert(ctx context.Context, req anydoc.ConversionRequest) (*anydoc.Artifact, error)
}

// Compile-time interface implementation check.
var _ Converter = (*anydoc.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Converter, error)
	Release(Converter)
	Size() int
}

// conversionResult holds the outcome of a single conversion.
type conversionResult struct {
	inputPath  string
	outputPath string
	err        error
	duration   time.Duration
}

// runConvert converts every input file to the target format, fanning work
// out across the pool.
func runConvert(ctx context.Context, inputs []string, flags *cliFlags, cfg *Config, pool Pool) error {
	if len(inputs) == 0 {
		return ErrNoInput
	}
	target := anydoc.NormalizeFormat(flags.to)
	if target == "" {
		return ErrNoTarget
	}

	results := make([]conversionResult, len(inputs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, pool.Size())

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = convertFile(ctx, input, target, cfg, pool)
		}(i, input)
	}
	wg.Wait()

	var failed int
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", res.inputPath, res.err)
			continue
		}
		if flags.verbose {
			fmt.Fprintf(os.Stderr, "%s -> %s (%s)\n", res.inputPath, res.outputPath, res.duration.Round(time.Millisecond))
		} else {
			fmt.Printf("Created %s\n", res.outputPath)
		}
	}

	if failed > 0 {
		// Surface the first failure so the exit code reflects its class.
		for _, res := range results {
			if res.err != nil {
				return res.err
			}
		}
	}
	return nil
}

// convertFile runs a single conversion using a pooled converter.
func convertFile(ctx context.Context, inputPath, target string, cfg *Config, pool Pool) conversionResult {
	start := time.Now()
	res := conversionResult{inputPath: inputPath}

	data, err := os.ReadFile(inputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		res.err = fmt.Errorf("%w: %v", ErrReadInput, err)
		return res
	}

	conv, err := pool.Acquire()
	if err != nil {
		res.err = err
		return res
	}
	defer pool.Release(conv)

	artifact, err := conv.Convert(ctx, anydoc.ConversionRequest{
		Source: anydoc.Artifact{
			Name:   filepath.Base(inputPath),
			Format: anydoc.NormalizeFormat(filepath.Ext(inputPath)),
			Data:   data,
		},
		TargetFormat: target,
	})
	if err != nil {
		res.err = err
		return res
	}

	outputPath, err := writeArtifact(artifact, inputPath, cfg.Output.DefaultDir)
	if err != nil {
		res.err = err
		return res
	}

	res.outputPath = outputPath
	res.duration = time.Since(start)
	return res
}

// writeArtifact writes the output artifact next to the input, or into the
// configured output directory.
func writeArtifact(artifact *anydoc.Artifact, inputPath, outDir string) (string, error) {
	dir := filepath.Dir(inputPath)
	if outDir != "" {
		dir = outDir
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	outputPath := filepath.Join(dir, outputName(inputPath, artifact.Format))
	if err := os.WriteFile(outputPath, artifact.Data, filePermissions); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return outputPath, nil
}

// outputName swaps the input file's extension for the artifact format.
func outputName(inputPath, format string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + format
}
