// Package report exports the top of a ranked gauntlet table, either as a CSV
// file or as a text table on standard output.
package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/types"
	"github.com/okian/gauntlet/pkg/logger"
)

// Default reporter configuration constants.
const (
	DefaultTopN = 50
)

// Option applies a configuration option to the Reporter.
type Option func(*Reporter)

// WithPath writes CSV to path. An empty path renders to the stdout writer.
func WithPath(path string) Option {
	return func(r *Reporter) {
		r.path = path
	}
}

// WithTopN caps the number of reported rows; n <= 0 reports only the header.
func WithTopN(n int) Option {
	return func(r *Reporter) {
		r.topN = n
	}
}

// WithStdout replaces os.Stdout as the destination when no path is set.
func WithStdout(w io.Writer) Option {
	return func(r *Reporter) {
		if w != nil {
			r.stdout = w
		}
	}
}

// WithLogger sets a custom logger for the reporter.
func WithLogger(l logger.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.logger = l
		}
	}
}

// Reporter writes the head of a ranked table.
type Reporter struct {
	path   string
	topN   int
	stdout io.Writer
	logger logger.Logger
}

// New creates a Reporter with configuration options.
func New(opts ...Option) *Reporter {
	r := &Reporter{
		topN:   DefaultTopN,
		stdout: os.Stdout,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Report writes the selected rows of tbl and returns how many were written.
func (r *Reporter) Report(ctx context.Context, tbl *model.Table) (int, error) {
	header := Columns(tbl)
	entries := Select(tbl, r.topN)

	if r.path == "" {
		if err := RenderTable(r.stdout, header, entries); err != nil {
			return 0, err
		}
		r.logger.Debug(ctx, "report rendered to stdout", logger.Int("rows", len(entries)))
		return len(entries), nil
	}

	if err := r.writeFile(header, entries); err != nil {
		return 0, err
	}
	r.logger.Info(ctx, "report written",
		logger.String("path", r.path),
		logger.Int("rows", len(entries)),
	)
	return len(entries), nil
}

func (r *Reporter) writeFile(header []string, entries []types.Entry) (err error) {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWrite, cerr)
		}
	}()
	return WriteCSV(f, header, entries)
}
