// Package app wires the fxclean HTTP service together.
//
// New builds every component from a config.Config: OpenTelemetry providers,
// pipeline metrics, the Cleaner, the services and the chi router. Run
// serves until the context is cancelled or SIGINT/SIGTERM arrives and then
// shuts the server and the telemetry providers down within
// Server.ShutdownTimeout.
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// The package never calls os.Exit; main decides the exit code.
package app
