package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biztositok/biztositok-go/api"
	"github.com/biztositok/biztositok-go/internal/config"
	"github.com/biztositok/biztositok-go/internal/logger"
	"github.com/biztositok/biztositok-go/internal/output"
)

// app is everything a command needs once configuration is resolved.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	client    *api.Client
	formatter output.FormatProvider
	out       io.Writer
}

// loadConfig resolves the configuration for cmd from its flags.
func loadConfig(cmd *cobra.Command, g *globalOptions) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		File:    g.configFile,
		EnvFile: g.envFile,
		Flags:   cmd.Flags(),
	})
}

// newApp loads configuration and builds the logger, client and formatter.
func newApp(cmd *cobra.Command, g *globalOptions) (*app, error) {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireEndpoint(); err != nil {
		return nil, err
	}

	log, err := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	transport, err := newTransport(cfg.Transport, log)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.ClientConfig(),
		api.WithTransport(transport),
		api.WithLogger(log),
		api.WithTransportOptions(cfg.TransportOptions()),
		api.WithFollowRedirects(cfg.FollowRedirects),
		api.WithMaxRedirects(cfg.MaxRedirects),
	)
	if err != nil {
		return nil, err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	noColor := g.noColor || !output.ColorEnabled(out)

	return &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		formatter: output.GetFormatter(format, g.verbose, noColor),
		out:       out,
	}, nil
}

func newTransport(name string, log *zap.Logger) (api.Transport, error) {
	switch strings.ToLower(name) {
	case "", "http":
		return api.NewHTTPTransport(), nil
	case "resty":
		return api.NewRestyTransport(log), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", name)
	}
}

// preview builds the request a call would send, with the password masked.
func (a *app) preview(path string, params api.Params, opts ...api.CallOption) (*api.Request, error) {
	creds := api.Credentials{Username: a.cfg.Username}
	if a.cfg.Password != "" {
		creds.Password = "********"
	}
	var build api.BuildOptions
	for _, opt := range opts {
		opt(&build)
	}
	return api.BuildRequest(a.cfg.APIEndpoint, path, params, creds, build)
}

func (a *app) close() {
	_ = a.log.Sync()
}
