package fixture

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/logger"
	"github.com/kbukum/seedkit/observability"
	"github.com/kbukum/seedkit/validation"
)

// LoadOptions controls one load run.
type LoadOptions struct {
	// Tags restricts the run to records sharing at least one tag.
	Tags []string
	// Purge empties every backend the run writes to before loading.
	Purge bool
	// Truncate purges with bulk truncation where supported.
	Truncate bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs sets the filesystem fixture files are read from.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithLocator overrides the locator built from Config.
func WithLocator(locator Locator) Option {
	return func(l *Loader) { l.locator = locator }
}

// WithParser overrides the YAML parser.
func WithParser(p Parser) Option {
	return func(l *Loader) { l.parser = p }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithMetrics records run metrics.
func WithMetrics(m *observability.FixtureMetrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// Loader drives fixture runs. Runs on one Loader are serialized.
type Loader struct {
	cfg       Config
	dir       *Directory
	fs        afero.Fs
	locator   Locator
	parser    Parser
	collector *Collector
	resolver  *ModelResolver
	purger    *Purger
	log       *logger.Logger
	metrics   *observability.FixtureMetrics

	mu sync.Mutex
}

// NewLoader creates a Loader for cfg over the backends in dir.
func NewLoader(cfg Config, dir *Directory, opts ...Option) (*Loader, error) {
	cfg.ApplyDefaults()
	l := &Loader{cfg: cfg, dir: dir}
	for _, opt := range opts {
		opt(l)
	}

	if l.fs == nil {
		l.fs = afero.NewOsFs()
	}
	if l.locator == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		l.locator = cfg.NewLocator(l.fs)
	} else if err := validation.ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	if l.parser == nil {
		l.parser = NewYAMLParser(l.fs)
	}

	l.log = logger.OrGlobal(l.log).WithComponent("loader")
	l.collector = NewCollector(l.fs, l.locator, cfg.FixturesDir, cfg.Extensions)
	l.resolver = cfg.NewModelResolver()
	l.purger = NewPurger(dir, l.log, l.metrics)
	return l, nil
}

// Load runs every fixture whose tags match tags.
func (l *Loader) Load(ctx context.Context, tags ...string) (*Report, error) {
	return l.Run(ctx, LoadOptions{Tags: tags})
}

// Run collects, parses, orders and executes fixtures. Configuration errors
// abort before anything is written. A record that fails to load aborts the
// run; the returned report lists what was loaded before it.
func (l *Loader) Run(ctx context.Context, opts LoadOptions) (report *Report, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	runID := uuid.NewString()
	ctx, op := observability.StartOperation(ctx, observability.SpanLoad, runID, l.metrics,
		attribute.StringSlice(observability.AttrTags, opts.Tags),
	)
	defer func() { op.End(ctx, err) }()

	log := l.log.WithFields(map[string]interface{}{logger.FieldRunID: runID})
	report = &Report{RunID: runID}

	records, skipped, err := l.build(ctx, log, opts.Tags)
	report.Skipped = skipped
	if err != nil {
		return report, err
	}
	op.Span().SetAttributes(attribute.Int(observability.AttrCount, len(records)))
	log.Info("Loading fixtures", map[string]interface{}{
		logger.FieldCount: len(records),
		"skipped":         len(skipped),
		"tags":            opts.Tags,
	})

	if opts.Purge {
		for _, backend := range backendsOf(records) {
			purged, err := l.purger.purge(ctx, runID, PurgeOptions{Backend: backend, Truncate: opts.Truncate})
			report.Purged = append(report.Purged, purged...)
			if err != nil {
				return report, err
			}
		}
	}

	refs := NewReferences()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := l.execute(ctx, runID, log, rec, refs); err != nil {
			return report, err
		}
		report.Loaded = append(report.Loaded, LoadedRecord{
			File:    rec.File,
			Model:   rec.Model,
			Backend: rec.Backend,
			Manager: rec.ManagerName(),
			Key:     rec.Key.String(),
		})
	}

	report.Entities = refs.Len()
	report.Duration = op.Duration()
	log.Info("Fixtures loaded", map[string]interface{}{
		logger.FieldCount:    len(report.Loaded),
		"entities":           report.Entities,
		logger.FieldDuration: report.Duration.Milliseconds(),
	})
	return report, nil
}

// Plan returns the records a Load with tags would execute, in order,
// without touching any store.
func (l *Loader) Plan(ctx context.Context, tags ...string) ([]*Record, []SkippedFile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.build(ctx, l.log, tags)
}

// Purge empties backend stores; see Purger.Purge.
func (l *Loader) Purge(ctx context.Context, opts PurgeOptions) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.purger.Purge(ctx, opts)
}

func (l *Loader) build(ctx context.Context, log *logger.Logger, tags []string) ([]*Record, []SkippedFile, error) {
	files, err := l.collector.Collect(l.cfg.Modules)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []*Record
		skipped []SkippedFile
	)
	skip := func(file string, err error) {
		l.metrics.RecordSkipped(ctx)
		log.Warn("Skipping fixture file", map[string]interface{}{
			logger.FieldFile:  file,
			logger.FieldError: err.Error(),
		})
		skipped = append(skipped, SkippedFile{File: file, Reason: err.Error()})
	}

	for _, f := range files {
		doc, err := l.parser.Parse(f.Path)
		if err != nil {
			skip(f.Path, err)
			continue
		}
		data, ok := doc.Data()
		if !ok {
			log.Debug("Fixture file has no data", map[string]interface{}{logger.FieldFile: f.Path})
			continue
		}

		rec, err := l.newRecord(f, doc.Model, data)
		if err != nil {
			if errors.IsConfiguration(err) {
				return nil, skipped, err
			}
			skip(f.Path, err)
			continue
		}
		if !rec.matchesTags(tags) {
			log.Debug("Fixture filtered by tags", map[string]interface{}{
				logger.FieldFile: f.Path,
				"tags":           rec.Tags,
			})
			continue
		}
		records = append(records, rec)
	}

	AssignOrder(records)
	SortRecords(records)
	return records, skipped, nil
}

func (l *Loader) newRecord(f File, declared string, data *Map) (*Record, error) {
	model := l.resolver.Resolve(declared)
	rec := &Record{Model: model, File: f.Path, Data: data.Clone()}
	rec.Data.Set(KeyModel, model)

	order, err := parseOrder(nilIfMissing(rec.Data, KeyOrder))
	if err != nil {
		return nil, errors.Parse(f.Path, err.Error()).WithDetail(errors.DetailModel, model)
	}
	rec.Order = order

	if rec.Tags, err = parseTags(nilIfMissing(rec.Data, KeyTags)); err != nil {
		return nil, errors.Parse(f.Path, err.Error()).WithDetail(errors.DetailModel, model)
	}

	backend := l.cfg.DefaultBackend
	if v := nilIfMissing(rec.Data, KeyPersistence); v != nil {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, errors.Parse(f.Path, fmt.Sprintf("%s must be a backend name", KeyPersistence)).
				WithDetail(errors.DetailModel, model)
		}
		backend = s
	}

	canonical, err := l.dir.Canonical(backend)
	if err != nil {
		return nil, withFileContext(err, f.Path, model, backend)
	}
	rec.Backend = canonical
	binding, err := l.dir.Binding(canonical)
	if err != nil {
		return nil, withFileContext(err, f.Path, model, canonical)
	}

	if name := rec.String(KeyManager, ""); name != "" {
		rec.Manager, err = binding.Managers.Manager(name)
	} else {
		rec.Manager, err = binding.Managers.ManagerForModel(model)
	}
	if err != nil {
		return nil, errors.Configuration("no %s manager for %s", canonical, model).
			WithDetails(map[string]any{errors.DetailFile: f.Path, errors.DetailModel: model, errors.DetailBackend: canonical}).
			WithCause(err)
	}

	if rec.Fixture, err = binding.Strategy(rec); err != nil {
		return nil, errors.Parse(f.Path, "invalid fixture body").
			WithDetails(map[string]any{errors.DetailModel: model, errors.DetailBackend: canonical}).
			WithCause(err)
	}
	return rec, nil
}

func (l *Loader) execute(ctx context.Context, runID string, log *logger.Logger, rec *Record, refs *References) (err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanExecute, runID, nil,
		attribute.String(observability.AttrFile, rec.File),
		attribute.String(observability.AttrModel, rec.Model),
		attribute.String(observability.AttrBackend, rec.Backend),
		attribute.String(observability.AttrManager, rec.ManagerName()),
	)
	defer func() { op.End(ctx, err) }()

	fields := map[string]interface{}{
		logger.FieldFile:    rec.File,
		logger.FieldModel:   rec.Model,
		logger.FieldBackend: rec.Backend,
		logger.FieldManager: rec.ManagerName(),
		logger.FieldOrder:   rec.Key.String(),
	}
	if err := rec.Fixture.Load(ctx, rec.Manager, refs); err != nil {
		log.Error("Fixture load failed", logger.MergeWithError(fields, err))
		return errors.Load(rec.File, rec.Model, rec.Backend, err).WithDetail(errors.DetailManager, rec.ManagerName())
	}
	l.metrics.RecordLoaded(ctx, rec.Backend, rec.Model)
	log.Debug("Fixture loaded", fields)
	return nil
}

// backendsOf returns the distinct backends of records in first-use order.
func backendsOf(records []*Record) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.Backend] {
			seen[r.Backend] = true
			out = append(out, r.Backend)
		}
	}
	return out
}

func nilIfMissing(m *Map, key string) any {
	v, _ := m.Get(key)
	return v
}

func parseTags(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{t}, nil
	case []any:
		tags := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be strings, got %T", KeyTags, e)
			}
			tags = append(tags, s)
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("%s must be a string or a list, got %T", KeyTags, v)
	}
}

func withFileContext(err error, file, model, backend string) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return err
	}
	return appErr.WithDetails(map[string]any{
		errors.DetailFile:    file,
		errors.DetailModel:   model,
		errors.DetailBackend: backend,
	})
}
