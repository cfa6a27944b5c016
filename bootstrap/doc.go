// Package bootstrap runs a one-shot seedkit task with a uniform lifecycle.
//
// NewApp applies defaults to the typed config, validates it and initializes
// the global logger. RunTask starts every registered component, runs the
// OnStart hooks, requires all components to be healthy, runs the task with
// a context canceled on SIGINT or SIGTERM, then runs the OnStop hooks and
// stops the components in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(database.NewComponent(dbCfg, app.Logger))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return loadFixtures(ctx)
//	})
package bootstrap
