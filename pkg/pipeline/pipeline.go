// Package pipeline orchestrates one inventory reconciliation run: list
// source files, transform each one in isolation, merge the batch with the
// rolling history, compute quality metrics and hand the consolidated base
// to the output collaborators.
//
// The cloud boundary (file listing, table reading, history storage,
// publishing) is injected through the collaborator interfaces below;
// business logic never constructs a transport client on its own.
package pipeline

import (
	"context"
	"time"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
	"github.com/bvpisos-datascience/inventariobvp/pkg/logging"
	"github.com/bvpisos-datascience/inventariobvp/pkg/reconcile"
	"github.com/bvpisos-datascience/inventariobvp/pkg/tables"
)

// SourceFile identifies one file in the input container.
type SourceFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	MIME string `json:"mime,omitempty"`
}

// Lister enumerates the input container. An empty container yields an
// empty slice, not an error.
type Lister interface {
	List(ctx context.Context) ([]SourceFile, error)
}

// Reader reads one source file into a raw table. Failures are reported
// as *errors.ReadError; the orchestrator skips the file and continues.
type Reader interface {
	Read(ctx context.Context, file SourceFile) (*tables.Table, error)
}

// History loads and persists the rolling historical base. A missing
// prior history is not an error; Load returns an empty baseline.
type History interface {
	Load(ctx context.Context) ([]inventory.Record, error)
	Save(ctx context.Context, records []inventory.Record) error
}

// Publisher pushes the consolidated base to one output destination by
// clearing it fully and rewriting fresh values.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, records []inventory.Record) error
}

// SkippedFile records a per-file failure in the run summary.
type SkippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Summary is the structured result of a run, exposed to any caller
// (dashboard, CLI). FilesProcessed == 0 is the sentinel for "no valid
// files" and is distinct from a successful run with zero rows.
type Summary struct {
	FilesFound     int                `json:"files_found"`
	FilesProcessed int                `json:"files_processed"`
	FinalRows      int                `json:"final_row_count"`
	MinDate        *time.Time         `json:"min_date,omitempty"`
	MaxDate        *time.Time         `json:"max_date,omitempty"`
	Skipped        []SkippedFile      `json:"skipped,omitempty"`
	Merge          reconcile.Stats    `json:"merge"`
	Sample         []inventory.Record `json:"sample,omitempty"`
	ExecutedAt     time.Time          `json:"executed_at"`
	Duration       time.Duration      `json:"duration"`
}

// NoValidFiles reports whether the run ended in the terminal
// zero-files-processed state.
func (s *Summary) NoValidFiles() bool {
	return s.FilesProcessed == 0
}

// Pipeline sequences one batch run. Single-threaded and synchronous: a
// run either completes or is retried from scratch by re-invocation, and
// at most one concurrent run per destination is assumed (enforced by the
// caller, not here).
type Pipeline struct {
	lister      Lister
	reader      Reader
	history     History
	publishers  []Publisher
	transformer *inventory.Transformer
	merger      *reconcile.Merger
	dateFormat  inventory.DateFormat
	maxFiles    int
	sampleSize  int
	now         func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublishers sets the output destinations.
func WithPublishers(publishers ...Publisher) Option {
	return func(p *Pipeline) { p.publishers = publishers }
}

// WithTransformer overrides the row transformer.
func WithTransformer(t *inventory.Transformer) Option {
	return func(p *Pipeline) { p.transformer = t }
}

// WithMerger overrides the merge engine.
func WithMerger(m *reconcile.Merger) Option {
	return func(p *Pipeline) { p.merger = m }
}

// WithDateFormat selects the file-name date convention.
func WithDateFormat(f inventory.DateFormat) Option {
	return func(p *Pipeline) { p.dateFormat = f }
}

// WithMaxFiles caps how many listed files one run processes.
func WithMaxFiles(n int) Option {
	return func(p *Pipeline) { p.maxFiles = n }
}

// WithSampleSize sets how many final records the summary carries.
func WithSampleSize(n int) Option {
	return func(p *Pipeline) { p.sampleSize = n }
}

// WithClock overrides the run clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// DefaultMaxFiles caps one run's file intake.
const DefaultMaxFiles = 450

// DefaultSampleSize is how many rows of the final base the summary keeps.
const DefaultSampleSize = 5

// New creates a Pipeline over the given collaborators.
func New(lister Lister, reader Reader, history History, opts ...Option) *Pipeline {
	p := &Pipeline{
		lister:      lister,
		reader:      reader,
		history:     history,
		transformer: inventory.NewTransformer(),
		merger:      reconcile.New(),
		dateFormat:  inventory.DateFormatISO,
		maxFiles:    DefaultMaxFiles,
		sampleSize:  DefaultSampleSize,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one batch run. Per-file failures never abort the run;
// they are logged and surfaced in the summary. Zero surviving files is
// the terminal sentinel summary, not an error. Merge, metrics and output
// failures are fatal since there is no partial result to salvage.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	log := logging.Ctx(ctx)
	start := p.now()
	summary := &Summary{ExecutedAt: start}

	files, err := p.lister.List(ctx)
	if err != nil {
		return nil, errors.WrapIO("list", "input container", err)
	}
	if len(files) > p.maxFiles {
		log.Warn().Int("found", len(files)).Int("max", p.maxFiles).Msg("Capping file intake")
		files = files[:p.maxFiles]
	}
	summary.FilesFound = len(files)
	log.Info().Int("files", len(files)).Msg("Input container listed")

	var batch []inventory.Record
	for _, file := range files {
		records, err := p.processFile(ctx, file)
		if err != nil {
			if !errors.IsRecoverable(err) {
				return nil, err
			}
			log.Error().Err(err).Str("file", file.Name).Msg("Skipping source file")
			summary.Skipped = append(summary.Skipped, SkippedFile{Name: file.Name, Reason: err.Error()})
			continue
		}
		summary.FilesProcessed++
		batch = append(batch, records...)
		log.Info().Str("file", file.Name).Int("rows", len(records)).Msg("Source file transformed")
	}

	if summary.FilesProcessed == 0 {
		// Terminal, not fatal: the caller decides how to present it.
		log.Warn().Int("found", summary.FilesFound).Msg("No valid files processed")
		summary.Duration = p.now().Sub(start)
		return summary, nil
	}

	history, err := p.history.Load(ctx)
	if err != nil {
		return nil, errors.WrapIO("load", "history", err)
	}
	log.Info().Int("rows", len(history)).Msg("History loaded")

	final, stats, err := p.merger.Merge(batch, history)
	if err != nil {
		return nil, err
	}
	summary.Merge = stats
	log.Info().
		Int("final", stats.Final).
		Int("superseded", stats.HistorySuperseded).
		Int("duplicates", stats.DuplicatesDropped).
		Int("outside_window", stats.OutsideWindow).
		Msg("Batch merged with history")

	final = inventory.ComputeMetrics(final)

	if err := p.history.Save(ctx, final); err != nil {
		return nil, errors.WrapIO("save", "history", err)
	}
	for _, pub := range p.publishers {
		if err := pub.Publish(ctx, final); err != nil {
			return nil, errors.NewPublishError(pub.Name(), err)
		}
		log.Info().Str("destination", pub.Name()).Int("rows", len(final)).Msg("Published consolidated base")
	}

	p.summarize(summary, final)
	summary.Duration = p.now().Sub(start)
	log.Info().
		Int("files_found", summary.FilesFound).
		Int("files_processed", summary.FilesProcessed).
		Int("final_rows", summary.FinalRows).
		Dur("duration", summary.Duration).
		Msg("Run completed")
	return summary, nil
}

func (p *Pipeline) processFile(ctx context.Context, file SourceFile) ([]inventory.Record, error) {
	countDate := inventory.FileDate(file.Name, p.dateFormat, p.now)
	storeID := inventory.FileStore(file.Name)

	table, err := p.reader.Read(ctx, file)
	if err != nil {
		if errors.IsRead(err) {
			return nil, err
		}
		return nil, errors.WrapRead(file.Name, err)
	}

	records, report, err := p.transformer.Transform(table, file.Name, countDate, storeID)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Debug().
		Str("file", file.Name).
		Int("rows_in", report.RowsIn).
		Int("rows_out", report.RowsOut).
		Int("date_overrides", report.DateOverrides).
		Int("inconsistent", report.Inconsistent).
		Msg("Transform audit")
	return records, nil
}

func (p *Pipeline) summarize(summary *Summary, final []inventory.Record) {
	summary.FinalRows = len(final)
	if len(final) == 0 {
		return
	}

	minDate, maxDate := final[0].CountDate, final[0].CountDate
	for _, rec := range final[1:] {
		if rec.CountDate.Before(minDate) {
			minDate = rec.CountDate
		}
		if rec.CountDate.After(maxDate) {
			maxDate = rec.CountDate
		}
	}
	summary.MinDate = &minDate
	summary.MaxDate = &maxDate

	n := p.sampleSize
	if n > len(final) {
		n = len(final)
	}
	summary.Sample = append([]inventory.Record(nil), final[:n]...)
}
