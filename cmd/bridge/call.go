package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/codec"
	"github.com/kbukum/bridge/component"
	"github.com/kbukum/bridge/config"
	"github.com/kbukum/bridge/errors"
	"github.com/kbukum/bridge/interceptor"
	"github.com/kbukum/bridge/logger"
	"github.com/kbukum/bridge/observability"
	"github.com/kbukum/bridge/version"
)

type callFlags struct {
	params []string
	tag    string
	name   string
}

func newCallCmd(method string, global *globalFlags) *cobra.Command {
	flags := &callFlags{}
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " ROUTE [ARG...]",
		Short: fmt.Sprintf("Send a %s request", method),
		Long: fmt.Sprintf(`Send a %s request to ROUTE.

Each '#' in ROUTE is replaced by the next ARG. Parameters given with
--param go to the query string for GET and DELETE and to a JSON body for
POST and PUT. Values that parse as JSON keep their type.`, method),
		Example: fmt.Sprintf("  bridge %s users/#/posts 7 --param page=2", strings.ToLower(method)),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, method, args, global, flags)
		},
	}
	cmd.Flags().StringArrayVarP(&flags.params, "param", "p", nil, "Request parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "Tag recorded on the call")
	cmd.Flags().StringVar(&flags.name, "name", "", "Endpoint name used in logs")
	return cmd
}

func runCall(cmd *cobra.Command, method string, args []string, global *globalFlags, flags *callFlags) error {
	params, err := parseParams(flags.params)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(&cfg.Client.Log, cfg.Client.Name)

	opts := []bridge.Option{
		bridge.WithLogger(log),
		bridge.WithRequestInterceptors(interceptor.RequestID(), interceptor.UserAgent(version.UserAgent())),
		bridge.WithResponseInterceptors(interceptor.Logging(log), interceptor.ErrorEnvelope()),
	}
	if cfg.Auth.Enabled() {
		opts = append(opts, bridge.WithRequestInterceptors(interceptor.Auth(authFor(cfg.Auth))))
	}
	if cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.Tracing.TracerConfig, log)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer func() { _ = tp.Shutdown(context.WithoutCancel(ctx)) }()
		opts = append(opts,
			bridge.WithRequestInterceptors(observability.Propagation(nil)),
			bridge.WithResponseInterceptors(observability.Annotate()),
		)
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, method+" "+args[0])
		defer span.End()
	}

	comp := bridge.NewComponent(cfg.Client, opts...)
	registry := component.NewRegistry(log)
	if err := registry.Register(comp); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() { _ = registry.StopAll(context.WithoutCancel(ctx)) }()

	endpointOpts := []bridge.EndpointOption{}
	if flags.name != "" {
		endpointOpts = append(endpointOpts, bridge.Named(flags.name))
	}
	ep := bridge.NewEndpoint[any](comp.Client(), method, args[0], bridge.ParseJSON[any], endpointOpts...)

	value, err := execute(ctx, ep, args[1:], params, flags.tag)
	if err != nil {
		writeJSON(cmd.ErrOrStderr(), errors.ResponseFor(err))
		return err
	}
	return writeJSON(cmd.OutOrStdout(), value)
}

type outcome struct {
	value any
	err   error
}

func execute(ctx context.Context, ep *bridge.Endpoint[any], args []string, params codec.Params, tag string) (any, error) {
	done := make(chan outcome, 1)
	routeArgs := make([]any, len(args))
	for i, a := range args {
		routeArgs[i] = a
	}
	ep.Execute(ctx,
		func(v any) { done <- outcome{value: v} },
		bridge.Args(routeArgs...),
		bridge.WithParams(params),
		bridge.Tag(tag),
		bridge.OnFailure(func(err error, _ []byte, _ *http.Request, _ *http.Response) {
			done <- outcome{err: err}
		}),
	)
	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return nil, errors.Cancelled(ctx.Err())
	}
}

func loadConfig(global *globalFlags, stderr io.Writer) (*config.Config, error) {
	var opts []config.LoaderOption
	if global.configFile != "" {
		opts = append(opts, config.WithConfigFile(global.configFile))
	}
	if global.envFile != "" {
		opts = append(opts, config.WithEnvFile(global.envFile))
	}

	var cfg config.Config
	if err := config.Load("bridge", &cfg, opts...); err != nil {
		return nil, err
	}

	if global.baseURL != "" {
		cfg.Client.BaseURL = global.baseURL
	}
	if global.timeout > 0 {
		cfg.Client.Transport.Timeout = global.timeout
	}
	if global.debug {
		cfg.Client.Debug = true
		cfg.Client.Log.Level = "debug"
	}
	if global.logFormat != "" {
		cfg.Client.Log.Format = global.logFormat
	}
	cfg.Client.Log.Writer = stderr

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func authFor(a config.AuthConfig) *interceptor.AuthConfig {
	if a.Token != "" {
		return interceptor.BearerAuth(a.Token)
	}
	auth := interceptor.APIKeyAuth(a.APIKey)
	auth.Name = a.APIKeyHeader
	return auth
}

// parseParams turns key=value pairs into params. Values that are valid
// JSON keep their decoded type; anything else stays a string.
func parseParams(pairs []string) (codec.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(codec.Params, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		var v any
		if err := gojson.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		params[key] = v
	}
	return params, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
