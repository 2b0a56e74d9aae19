// Package command provides the scriptlab command-line interface.
//
// Every invocation binds one snippet manager to the host and storage chosen
// by the global flags, runs a single command against it and exits.
package command

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/roguepikachu/scriptlab/internal/config"
	"github.com/roguepikachu/scriptlab/internal/data"
	"github.com/roguepikachu/scriptlab/internal/domain"
	"github.com/roguepikachu/scriptlab/internal/playlist"
	"github.com/roguepikachu/scriptlab/internal/prompt"
	"github.com/roguepikachu/scriptlab/internal/repository"
	"github.com/roguepikachu/scriptlab/internal/service"
	"github.com/roguepikachu/scriptlab/pkg/logger"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const (
	metaManager = "manager"
	metaBackend = "backend"
)

// Option configures the App.
type Option func(*options)

type options struct {
	opener  repository.Opener
	fetcher service.PlaylistFetcher
}

// WithOpener makes every run use opener instead of the configured backend.
func WithOpener(o repository.Opener) Option { return func(op *options) { op.opener = o } }

// WithPlaylistFetcher overrides the HTTP gallery source.
func WithPlaylistFetcher(f service.PlaylistFetcher) Option {
	return func(op *options) { op.fetcher = f }
}

// App creates the CLI application.
func App(opts ...Option) *cli.App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &cli.App{
		Name:     "scriptlab",
		Usage:    "Manage locally stored code snippets",
		Version:  fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			ListCommand(),
			NewCommand(),
			ShowCommand(),
			RenameCommand(),
			DuplicateCommand(),
			DeleteCommand(),
			DeleteAllCommand(),
			PlaylistCommand(),
		},
		Before: func(c *cli.Context) error { return setup(c, o) },
		After: func(c *cli.Context) error {
			if b, ok := c.App.Metadata[metaBackend].(*data.Backend); ok {
				b.Close()
			}
			return nil
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "Execution host: web, excel, word, powerpoint, project",
			EnvVars: []string{"SCRIPTLAB_HOST"},
			Value:   "web",
		},
		&cli.StringFlag{
			Name:    "storage",
			Usage:   "Snippet storage: memory, redis, postgres",
			EnvVars: []string{"SCRIPTLAB_STORAGE"},
			Value:   config.StorageMemory,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

func setup(c *cli.Context, o options) error {
	ctx := c.Context
	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	if err := logger.SetLevel(level); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Host = c.String("host")
	cfg.Storage = c.String("storage")

	opener := o.opener
	if opener == nil {
		b, err := data.OpenBackend(ctx, cfg)
		if err != nil {
			return err
		}
		c.App.Metadata[metaBackend] = b
		opener = b.Opener
	}
	fetcher := o.fetcher
	if fetcher == nil {
		fetcher = playlist.NewHTTPFetcher(cfg.PlaylistBaseURL,
			playlist.WithHTTPClient(&http.Client{Timeout: cfg.PlaylistTimeout()}))
	}

	m, err := service.Initialize(ctx, opener, domain.LookupHost(cfg.Host),
		service.WithPrompt(prompt.NewTerminal(c.App.Reader, c.App.Writer)),
		service.WithPlaylistFetcher(fetcher),
	)
	if err != nil {
		return err
	}
	c.App.Metadata[metaManager] = m
	return nil
}

// manager retrieves the snippet manager bound in Before.
func manager(c *cli.Context) (*service.Manager, context.Context) {
	m, _ := c.App.Metadata[metaManager].(*service.Manager)
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return m, ctx
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
