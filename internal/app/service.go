// Package service wires the gauntlet pipeline: fetch, flatten, combine,
// rank, normalize, score and report.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gauntlet/internal/adapters/datacore"
	"github.com/okian/gauntlet/internal/adapters/report"
	"github.com/okian/gauntlet/internal/config"
	"github.com/okian/gauntlet/internal/domain/model"
	"github.com/okian/gauntlet/internal/domain/scoring"
	"github.com/okian/gauntlet/internal/domain/skill"
	"github.com/okian/gauntlet/pkg/logger"
	"github.com/okian/gauntlet/pkg/metrics"
)

// ErrNoCrew is returned when the source yields no crew records.
var ErrNoCrew = errors.New("no crew records to rank")

// Stage names used in logs and metrics.
const (
	StageFetch     = "fetch"
	StageFlatten   = "flatten"
	StageCombine   = "combine"
	StageRank      = "rank"
	StageNormalize = "normalize"
	StageScore     = "score"
	StageReport    = "report"
)

// Reporter exports a ranked table and reports how many rows it wrote.
type Reporter interface {
	Report(ctx context.Context, tbl *model.Table) (int, error)
}

// Pipeline runs one gauntlet ranking end to end.
type Pipeline struct {
	sourceURL   string
	metricsPath string

	fetcher  datacore.Fetcher
	scorer   *scoring.Scorer
	reporter Reporter
	metrics  *metrics.Manager
	logger   logger.Logger

	now func() time.Time
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithSourceURL sets the crew endpoint.
func WithSourceURL(url string) Option {
	return func(p *Pipeline) {
		if url != "" {
			p.sourceURL = url
		}
	}
}

// WithFetcher replaces the HTTP fetcher.
func WithFetcher(f datacore.Fetcher) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.fetcher = f
		}
	}
}

// WithScorer replaces the default scorer.
func WithScorer(s *scoring.Scorer) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithReporter replaces the default reporter.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithMetricsPath writes a Prometheus textfile after every run.
func WithMetricsPath(path string) Option {
	return func(p *Pipeline) {
		p.metricsPath = path
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New constructs a Pipeline with default collaborators.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		sourceURL: config.DefaultSourceURL,
		metrics:   metrics.Global(),
		logger:    logger.Nop(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.fetcher == nil {
		p.fetcher = datacore.NewClient(
			datacore.WithLogger(p.logger.Named("datacore")),
			datacore.WithObserver(p.metrics.ObserveFetch, p.metrics.RecordFetchError),
		)
	}
	if p.scorer == nil {
		p.scorer = scoring.NewScorer(scoring.WithZeroMaxHook(p.metrics.RecordZeroMaxColumn))
	}
	if p.reporter == nil {
		p.reporter = report.New(report.WithLogger(p.logger))
	}

	return p
}

// NewFromConfig builds a Pipeline from loaded configuration. Its metrics
// live in a dedicated registry named by cfg.MetricsNamespace and labelled
// with the source host.
func NewFromConfig(cfg *config.Config, l logger.Logger) *Pipeline {
	m := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithConstLabels(map[string]string{"source": sourceHost(cfg.SourceURL)}),
	)
	if l == nil {
		l = logger.Nop()
	}
	return New(
		WithLogger(l),
		WithMetrics(m),
		WithSourceURL(cfg.SourceURL),
		WithMetricsPath(cfg.MetricsPath),
		WithFetcher(datacore.NewClient(
			datacore.WithTimeout(cfg.HTTPTimeout()),
			datacore.WithUserAgent(cfg.UserAgent),
			datacore.WithLogger(l.Named("datacore")),
			datacore.WithObserver(m.ObserveFetch, m.RecordFetchError),
		)),
		WithScorer(scoring.NewScorer(
			scoring.WithTopPairs(cfg.TopPairs),
			scoring.WithZeroMaxHook(m.RecordZeroMaxColumn),
		)),
		WithReporter(report.New(
			report.WithPath(cfg.OutputPath),
			report.WithTopN(cfg.TopN),
			report.WithLogger(l),
		)),
	)
}

// Run executes every stage in order and returns the full table sorted by
// gauntlet rank. A failed fetch aborts the run.
func (p *Pipeline) Run(ctx context.Context) (tbl *model.Table, err error) {
	log := p.logger.With(logger.String("run_id", uuid.NewString()))
	start := p.now()

	defer func() {
		p.metrics.MarkRun(p.now(), err == nil)
		p.writeMetrics(ctx, log)
	}()

	log.Info(ctx, "gauntlet run started",
		logger.String("source", p.sourceURL),
		logger.Int("top_pairs", p.scorer.TopPairs()),
	)

	var crew []model.Crew
	if err := p.stage(ctx, log, StageFetch, func() error {
		var ferr error
		crew, ferr = p.fetcher.FetchCrew(ctx, p.sourceURL)
		return ferr
	}); err != nil {
		return nil, err
	}
	p.metrics.SetCrewFetched(len(crew))
	if len(crew) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCrew, p.sourceURL)
	}

	var rows []model.Row
	p.step(ctx, log, StageFlatten, func() {
		rows = scoring.Flatten(crew)
	})
	p.step(ctx, log, StageCombine, func() {
		scoring.Combine(rows)
	})
	p.step(ctx, log, StageRank, func() {
		p.scorer.RankPairs(rows)
	})
	p.step(ctx, log, StageNormalize, func() {
		p.scorer.NormalizePairs(rows)
	})
	p.step(ctx, log, StageScore, func() {
		p.scorer.Score(rows)
		scoring.SortByRank(rows)
	})
	tbl = &model.Table{Pairs: skill.Pairs(), Rows: rows}

	var exported int
	if err := p.stage(ctx, log, StageReport, func() error {
		var rerr error
		exported, rerr = p.reporter.Report(ctx, tbl)
		return rerr
	}); err != nil {
		return nil, err
	}
	p.metrics.SetRowsExported(exported)

	log.Info(ctx, "gauntlet run finished",
		logger.Int("crew", len(rows)),
		logger.Int("exported", exported),
		logger.Duration("elapsed", p.now().Sub(start)),
	)
	return tbl, nil
}

// stage times fn, records it and wraps its error with the stage name.
func (p *Pipeline) stage(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	begin := p.now()
	err := fn()
	elapsed := p.now().Sub(begin)
	p.metrics.ObserveStage(name, elapsed)

	if err != nil {
		log.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug(ctx, "stage finished", logger.String("stage", name), logger.Duration("elapsed", elapsed))
	return nil
}

// step times a stage that cannot fail.
func (p *Pipeline) step(ctx context.Context, log logger.Logger, name string, fn func()) {
	begin := p.now()
	fn()
	elapsed := p.now().Sub(begin)
	p.metrics.ObserveStage(name, elapsed)
	log.Debug(ctx, "stage finished", logger.String("stage", name), logger.Duration("elapsed", elapsed))
}

// sourceHost returns the host of raw, or raw itself when it does not parse.
func sourceHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func (p *Pipeline) writeMetrics(ctx context.Context, log logger.Logger) {
	if p.metricsPath == "" {
		return
	}
	if err := p.metrics.WriteTextfile(p.metricsPath); err != nil {
		log.Warn(ctx, "failed to write metrics textfile", logger.String("path", p.metricsPath), logger.Error(err))
	}
}
