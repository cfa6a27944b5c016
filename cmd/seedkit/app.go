package main

import (
	"context"
	"io"
	"maps"
	"slices"

	"github.com/kbukum/seedkit/bootstrap"
	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/fixture/document"
	"github.com/kbukum/seedkit/fixture/orm"
	"github.com/kbukum/seedkit/observability"
	"github.com/kbukum/seedkit/redis"
)

// stores holds the connection components registered for one run.
type stores struct {
	databases []*database.Component
	redis     []*redis.Component
}

// runWithLoader loads config, starts every configured store, builds a Loader
// over them and runs task. Stores are stopped when task returns.
func runWithLoader(ctx context.Context, opts *rootOptions, summary io.Writer, task func(ctx context.Context, l *fixture.Loader) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.quiet {
		summary = io.Discard
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithOutput(summary))
	if err != nil {
		return err
	}

	s, err := registerStores(app)
	if err != nil {
		return err
	}

	var shutdown observability.ShutdownFunc
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdown, err = observability.Setup(ctx, cfg.Observability, app.Name, app.Version)
		return err
	})
	app.OnStop(func(ctx context.Context) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(ctx)
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		loader, err := newLoader(app, s)
		if err != nil {
			return err
		}
		return task(ctx, loader)
	})
}

// registerStores adds one component per configured connection, databases
// first, each group in name order.
func registerStores(app *bootstrap.App[*Config]) (*stores, error) {
	s := &stores{}
	for _, name := range slices.Sorted(maps.Keys(app.Cfg.Databases)) {
		c := database.NewComponent(app.Cfg.Databases[name], app.Logger)
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
		s.databases = append(s.databases, c)
	}
	for _, name := range slices.Sorted(maps.Keys(app.Cfg.Redis)) {
		c := redis.NewComponent(app.Cfg.Redis[name], app.Logger)
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
		s.redis = append(s.redis, c)
	}
	return s, nil
}

// newDirectory binds "orm" when databases are configured and
// "document-store" (alias "mongodb") when redis connections are.
func newDirectory(cfg *Config, s *stores) (*fixture.Directory, error) {
	dir := fixture.NewDirectory()

	if len(s.databases) > 0 {
		dbs := make([]*database.DB, len(s.databases))
		for i, c := range s.databases {
			dbs[i] = c.DB()
		}
		provider, err := orm.NewProvider(cfg.ORM.Default, cfg.ORM.Routes, dbs...)
		if err != nil {
			return nil, err
		}
		if err := dir.Register(fixture.BackendORM, orm.NewBinding(provider, cfg.ORM.Exclude...)); err != nil {
			return nil, err
		}
	}

	if len(s.redis) > 0 {
		clients := make([]*redis.Client, len(s.redis))
		for i, c := range s.redis {
			clients[i] = c.Client()
		}
		provider, err := document.NewProvider(cfg.Document.Default, cfg.Document.Routes, clients...)
		if err != nil {
			return nil, err
		}
		if err := dir.Register(fixture.BackendDocument, document.NewBinding(provider)); err != nil {
			return nil, err
		}
		if err := dir.Alias(fixture.BackendMongoDB, fixture.BackendDocument); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

func newLoader(app *bootstrap.App[*Config], s *stores) (*fixture.Loader, error) {
	dir, err := newDirectory(app.Cfg, s)
	if err != nil {
		return nil, err
	}
	metrics, err := observability.NewFixtureMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}
	return fixture.NewLoader(app.Cfg.Fixtures, dir,
		fixture.WithLogger(app.Logger),
		fixture.WithMetrics(metrics),
	)
}
