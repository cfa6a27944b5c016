package fixture

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/kbukum/seedkit/errors"
	"github.com/kbukum/seedkit/logger"
	"github.com/kbukum/seedkit/observability"
)

// PurgeOptions selects what a purge empties.
type PurgeOptions struct {
	// Backend is the backend identifier.
	Backend string
	// Manager limits the purge to one named manager; empty means all.
	Manager string
	// Truncate asks for bulk truncation where the backend supports it.
	Truncate bool
}

// Purger empties backend stores with integrity checks suspended.
type Purger struct {
	dir     *Directory
	log     *logger.Logger
	metrics *observability.FixtureMetrics
}

// NewPurger creates a Purger. metrics may be nil.
func NewPurger(dir *Directory, log *logger.Logger, metrics *observability.FixtureMetrics) *Purger {
	return &Purger{
		dir:     dir,
		log:     logger.OrGlobal(log).WithComponent("purger"),
		metrics: metrics,
	}
}

// Purge empties the managers selected by opts and returns the names of the
// managers that were purged. Integrity checks are disabled on every manager
// before any purge starts and re-enabled on each of them afterwards, even
// when a purge fails. Failures are combined, one PURGE_FAILED per step and
// manager.
func (p *Purger) Purge(ctx context.Context, opts PurgeOptions) ([]string, error) {
	return p.purge(ctx, uuid.NewString(), opts)
}

func (p *Purger) purge(ctx context.Context, runID string, opts PurgeOptions) (purged []string, err error) {
	ctx, op := observability.StartOperation(ctx, observability.SpanPurge, runID, p.metrics,
		attribute.String(observability.AttrBackend, opts.Backend),
		attribute.String(observability.AttrManager, opts.Manager),
		attribute.Bool(observability.AttrTruncate, opts.Truncate),
	)
	defer func() { op.End(ctx, err) }()

	backend, err := p.dir.Canonical(opts.Backend)
	if err != nil {
		return nil, err
	}
	binding, err := p.dir.Binding(backend)
	if err != nil {
		return nil, err
	}

	managers, err := p.managers(binding.Managers, backend, opts.Manager)
	if err != nil {
		return nil, err
	}
	log := p.log.WithFields(map[string]interface{}{
		logger.FieldRunID:   runID,
		logger.FieldBackend: backend,
	})

	var errs error
	fail := func(m Manager, step string, cause error) {
		p.metrics.RecordPurgeError(ctx, backend, m.Name())
		log.Error("Purge step failed", map[string]interface{}{
			logger.FieldManager:   m.Name(),
			logger.FieldOperation: step,
			logger.FieldError:     cause.Error(),
		})
		errs = multierr.Append(errs, errors.Purge(backend, m.Name(), step, cause))
	}

	var disabled []Manager
	skip := make(map[string]bool)
	for _, m := range managers {
		toggler, ok := m.(IntegrityToggler)
		if !ok {
			continue
		}
		if err := toggler.SetIntegrityChecks(ctx, false); err != nil {
			fail(m, "disable integrity checks", err)
			skip[m.Name()] = true
			continue
		}
		disabled = append(disabled, m)
	}

	for _, m := range managers {
		if skip[m.Name()] {
			continue
		}
		mode := PurgeDelete
		if opts.Truncate {
			if binding.Purge.SupportsTruncate(m) {
				mode = PurgeTruncate
			} else {
				log.Info("Truncate not supported, deleting instead", map[string]interface{}{
					logger.FieldManager: m.Name(),
				})
			}
		}
		if err := p.purgeManager(ctx, binding.Purge, m, mode); err != nil {
			fail(m, "execute", err)
			continue
		}
		log.Info("Manager purged", map[string]interface{}{
			logger.FieldManager: m.Name(),
			"mode":              mode.String(),
		})
		purged = append(purged, m.Name())
	}

	restoreCtx := context.WithoutCancel(ctx)
	for _, m := range disabled {
		if err := m.(IntegrityToggler).SetIntegrityChecks(restoreCtx, true); err != nil {
			fail(m, "enable integrity checks", err)
		}
	}

	return purged, errs
}

func (p *Purger) managers(provider ManagerProvider, backend, name string) ([]Manager, error) {
	if name == "" {
		return provider.Managers(), nil
	}
	m, err := provider.Manager(name)
	if err != nil {
		return nil, errors.Configuration("unknown %s manager %q", backend, name).
			WithDetails(map[string]any{errors.DetailBackend: backend, errors.DetailManager: name}).
			WithCause(err)
	}
	return []Manager{m}, nil
}

func (p *Purger) purgeManager(ctx context.Context, tools PurgeTools, m Manager, mode PurgeMode) error {
	purger, err := tools.NewPurger(m, mode)
	if err != nil {
		return err
	}
	executor, err := tools.NewExecutor(m)
	if err != nil {
		return err
	}
	return executor.Execute(ctx, purger)
}
