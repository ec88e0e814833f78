// Package bootstrap runs a finite task inside the service lifecycle: the
// typed config is defaulted and validated, registered components are
// started, the task runs, then stop hooks and component shutdown follow.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(client)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return send(ctx, client.Client())
//	})
package bootstrap
