// Package batch runs discovery over whole record files. Input is one JSON
// business record per line, output is one JSON discovery result per line, in
// input order regardless of completion order.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitefinder/internal/discovery"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
)

// Options holds the batch runner tunables.
type Options struct {
	// Concurrency bounds how many records are discovered at once.
	Concurrency int
	// Mode is the discovery mode applied to every record in the batch.
	Mode domain.Mode
}

// withDefaults fills zero fields with usable values.
func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.Mode == "" {
		o.Mode = domain.ModeDeep
	}

	return o
}

// Runner drives a Discoverer over record streams.
type Runner struct {
	discoverer discovery.Discoverer
	opts       Options
}

// New constructs a Runner.
func New(discoverer discovery.Discoverer, opts Options) *Runner {
	return &Runner{discoverer: discoverer, opts: opts.withDefaults()}
}

// Line pairs one input record with its discovery result.
type Line struct {
	Record domain.BusinessRecord  `json:"record"`
	Result domain.DiscoveryResult `json:"result"`
}

// Run reads JSONL records from in, discovers each under the configured bound,
// and writes JSONL result lines to out in input order. Malformed input lines
// abort the batch; a failed discovery of one record does not, its ERROR
// result is written like any other.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	records, err := readRecords(in)
	if err != nil {
		return err
	}
	logger.Info(ctx, "batch started",
		zap.Int("records", len(records)),
		zap.String("mode", string(r.opts.Mode)),
		zap.Int("concurrency", r.opts.Concurrency))

	results := make([]domain.DiscoveryResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err() //nolint: wrapcheck
			}
			results[i] = r.discoverer.Discover(gctx, record, r.opts.Mode)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("batch aborted: %w", err)
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(Line{Record: records[i], Result: results[i]}); err != nil {
			return fmt.Errorf("could not write result line: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	logger.Info(ctx, "batch finished", zap.Int("records", len(records)))

	return nil
}

// readRecords parses JSONL input. Blank lines are skipped.
func readRecords(in io.Reader) ([]domain.BusinessRecord, error) {
	var records []domain.BusinessRecord

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record domain.BusinessRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("could not parse record on line %d: %w", lineNo, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read input: %w", err)
	}

	return records, nil
}
