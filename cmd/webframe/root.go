package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kbukum/webframe/httpclient"
	"github.com/kbukum/webframe/logger"
	"github.com/kbukum/webframe/observability"
	"github.com/kbukum/webframe/version"
)

// requestFlags are the per-invocation overrides shared by every verb.
type requestFlags struct {
	configPath   string
	base         string
	data         string
	params       []string
	headers      []string
	basic        string
	apiKey       string
	apiKeyHeader string
	csrf         string
	contentType  string
	timeout      time.Duration
	otlpEndpoint string
	verbose      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &requestFlags{}

	root := &cobra.Command{
		Use:           "webframe",
		Short:         "Send HTTP requests with auth, content type and base URI handling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default: ./webframe.yml and standard locations)")
	pf.StringVar(&f.base, "base", "", "base URI requests are resolved against")
	pf.StringArrayVarP(&f.params, "param", "p", nil, "query parameter key=value (repeatable)")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, "request header key=value (repeatable)")
	pf.StringVar(&f.basic, "basic", "", "basic auth credentials user:pass")
	pf.StringVar(&f.apiKey, "api-key", "", "API key")
	pf.StringVar(&f.apiKeyHeader, "api-key-header", "", "header the API key is sent under (default X-API-Key)")
	pf.StringVar(&f.csrf, "csrf", "", "CSRF token sent as X-CSRF-Token")
	pf.StringVar(&f.contentType, "content-type", "", "json, text, xml or urlencoded")
	pf.DurationVar(&f.timeout, "timeout", 0, "request timeout, e.g. 10s (0 means none)")
	pf.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector host:port for traces and metrics")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "print request and response headers, credentials masked")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		root.AddCommand(newVerbCmd(method, f))
	}
	root.AddCommand(newVersionCmd())
	return root
}

func newVerbCmd(method string, f *requestFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " TARGET",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], f)
		},
	}
	if method != http.MethodGet {
		cmd.Flags().StringVarP(&f.data, "data", "d", "", "request body as a JSON object")
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "webframe "+version.Get().String())
		},
	}
}

func runRequest(cmd *cobra.Command, method, target string, f *requestFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return report(cmd, err)
	}
	if err := f.applyTo(cmd, cfg); err != nil {
		return report(cmd, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return report(cmd, err)
	}

	logger.Init(cfg.Logging)
	log := logger.WithComponent("httpclient")

	providers, err := observability.Init(ctx, cfg.Telemetry)
	if err != nil {
		return report(cmd, err)
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			log.Warn("telemetry shutdown failed", logger.MergeWithError(nil, err))
		}
	}()

	client, err := httpclient.NewFromConfig(cfg.Client, httpclient.WithLogger(log))
	if err != nil {
		return report(cmd, err)
	}

	opts, err := f.requestOptions()
	if err != nil {
		return report(cmd, err)
	}
	body, err := f.body()
	if err != nil {
		return report(cmd, err)
	}

	resp, err := client.Do(ctx, method, target, body, opts...)
	if err != nil {
		// error responses are still kept on the client
		if last := client.Response(); last != nil {
			printResponse(cmd, method, last, f.verbosity(cfg))
		}
		return report(cmd, err)
	}
	printResponse(cmd, method, resp, f.verbosity(cfg))
	return nil
}

// applyTo overlays explicitly set flags on the loaded config.
func (f *requestFlags) applyTo(cmd *cobra.Command, cfg *CLIConfig) error {
	flags := cmd.Flags()
	if flags.Changed("base") {
		cfg.Client.BaseURI = f.base
	}
	if flags.Changed("content-type") {
		cfg.Client.ContentType = f.contentType
	}
	if flags.Changed("timeout") {
		cfg.Client.Timeout = f.timeout
	}
	if flags.Changed("basic") {
		user, pass, ok := strings.Cut(f.basic, ":")
		if !ok {
			return errors.New("--basic must be user:pass")
		}
		cfg.Client.Auth.Username, cfg.Client.Auth.Password = user, pass
	}
	if flags.Changed("api-key") {
		cfg.Client.Auth.APIKey = f.apiKey
	}
	if flags.Changed("api-key-header") {
		cfg.Client.Auth.APIKeyHeader = f.apiKeyHeader
	}
	if flags.Changed("csrf") {
		cfg.Client.Auth.CSRFToken = f.csrf
	}
	if flags.Changed("otlp-endpoint") {
		cfg.Telemetry.Endpoint = f.otlpEndpoint
		cfg.Telemetry.Insecure = true
	}
	return nil
}

func (f *requestFlags) requestOptions() ([]httpclient.RequestOption, error) {
	params, err := parsePairs("--param", f.params)
	if err != nil {
		return nil, err
	}
	headers, err := parsePairs("--header", f.headers)
	if err != nil {
		return nil, err
	}
	return []httpclient.RequestOption{
		httpclient.WithParams(params),
		httpclient.WithHeaders(headers),
	}, nil
}

// body decodes --data into a map so the client's body policy decides
// between JSON and form encoding.
func (f *requestFlags) body() (any, error) {
	if f.data == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(f.data), &obj); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return obj, nil
}

func parsePairs(flag string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%s %q: expected key=value", flag, p)
		}
		out[k] = v
	}
	return out, nil
}

// verbosity returns the header names to mask, or nil when not verbose.
func (f *requestFlags) verbosity(cfg *CLIConfig) map[string]bool {
	if !f.verbose {
		return nil
	}
	secrets := map[string]bool{"Authorization": true}
	secrets[http.CanonicalHeaderKey(httpclient.CSRFTokenHeader)] = true
	secrets[http.CanonicalHeaderKey(cfg.Client.Auth.APIKeyHeader)] = true
	return secrets
}

func printResponse(cmd *cobra.Command, method string, resp *httpclient.Response, secrets map[string]bool) {
	errOut := cmd.ErrOrStderr()
	if secrets != nil && resp.Raw() != nil && resp.Raw().Request != nil {
		printHeaders(errOut, ">", resp.Raw().Request.Header, secrets)
	}
	status := statusColor(resp.StatusCode).Sprint(resp.Status)
	fmt.Fprintf(errOut, "%s %s %s (%s)\n", status, method, resp.URL, resp.Duration.Round(time.Millisecond))
	if secrets != nil {
		printHeaders(errOut, "<", resp.Headers, nil)
	}
	if len(resp.Body) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), resp.String())
	}
}

func printHeaders(w io.Writer, dir string, h http.Header, secrets map[string]bool) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	label := color.New(color.FgHiBlack)
	for _, k := range keys {
		for _, v := range h[k] {
			if secrets[k] {
				v = maskSecret(v, 6)
			}
			fmt.Fprintf(w, "%s %s %s\n", dir, label.Sprint(k+":"), v)
		}
	}
}

// maskSecret keeps the first visible bytes of s.
func maskSecret(s string, visible int) string {
	if len(s) <= visible {
		return "***"
	}
	return s[:visible] + "***"
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 500:
		return color.New(color.FgRed, color.Bold)
	case code >= 400:
		return color.New(color.FgRed)
	case code >= 300:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), color.New(color.FgRed).Sprint("error: ")+err.Error())
	return err
}
