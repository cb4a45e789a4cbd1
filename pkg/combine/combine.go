// Package combine bundles source files into a single XML document:
// collect paths, read each file into a record, serialize the records.
package combine

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Run collects, reads and writes in sequence. Fatal errors are returned
// before the output file is touched, except ErrOutputWrite itself. When no
// file is collected nothing is written and the zero Result is returned.
func Run(fs afero.Fs, opts Options, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.InputDir == "" && len(opts.Files) == 0 {
		return Result{}, ErrNoInput
	}
	if opts.Output == "" {
		return Result{}, fmt.Errorf("%w: no output path given", ErrOutputWrite)
	}

	startTime := time.Now()
	logger.Info("Starting combination process",
		zap.String("directory", opts.InputDir),
		zap.Int("explicitFiles", len(opts.Files)),
		zap.String("output", opts.Output))

	collector := NewCollector(fs, opts.Extensions, opts.Ignore, logger)
	paths, err := collector.Collect(opts.InputDir, opts.Files)
	if err != nil {
		return Result{}, err
	}
	if len(paths) == 0 {
		logger.Warn("No files to process")
		return Result{}, nil
	}

	logger.Info("Creating XML structure")
	doc, skipped, err := NewBuilder(fs, opts.ReadPolicy, logger).Build(paths)
	if err != nil {
		return Result{}, err
	}

	logger.Info("Writing to output file", zap.String("file", opts.Output))
	if err := WriteDocument(fs, opts.Output, doc, logger); err != nil {
		return Result{}, err
	}

	logger.Info("Combination process completed",
		zap.Int("files", doc.Len()),
		zap.Int("skipped", len(skipped)),
		zap.Duration("elapsed", time.Since(startTime)))
	return Result{Output: opts.Output, Files: doc.Len(), Skipped: skipped}, nil
}
