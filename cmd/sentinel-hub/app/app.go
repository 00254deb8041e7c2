package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/sentinel/cmd/sentinel-hub/app/options"
	"github.com/autopeer-io/sentinel/pkg/app"
)

const (
	commandName = "sentinel-hub"
	commandDesc = `The Sentinel hub ingests drone telemetry pings over HTTP and MQTT.
Every ping is written to the live state store; pings carrying a field report
are classified by a language model and confirmed threats are escalated to the
configured alert sink.`
)

func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		commandName,
		"Launch a Sentinel telemetry hub",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithWatchConfig(),
		app.WithRunFunc(run(opts)),
		app.WithLoggerContextExtractor(map[string]func(context.Context) string{
			"traceID": traceID,
		}),
	)
	return application
}

func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		server, err := cfg.NewSentinelServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create sentinel server: %w", err)
		}

		return server.Run(ctx)
	}
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
