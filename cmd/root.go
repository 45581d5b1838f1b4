package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/showrunner/internal/config"
	"github.com/lepinkainen/showrunner/internal/service"
)

// CLI represents the complete command structure for the showrunner application
type CLI struct {
	// Global flags
	Verbose bool   `short:"v" help:"Enable debug logging"`
	Format  string `help:"Output format" enum:"table,yaml,json" default:"table"`

	HistoryDB string `help:"Path to history SQLite database file (overrides history.dbfile)"`
	OMDbKey   string `name:"omdb-key" help:"OMDb API key (overrides omdb.api_key)"`

	Search    SearchCmd    `cmd:"" help:"Search IMDb titles"`
	Show      ShowCmd      `cmd:"" help:"Resolve metadata for a show by IMDb id"`
	Seasons   SeasonsCmd   `cmd:"" help:"List season summaries of a show"`
	Episodes  EpisodesCmd  `cmd:"" help:"List the episodes of one season with merged ratings"`
	Streams   StreamsCmd   `cmd:"" help:"List playable streams for a movie or an episode"`
	Providers ProvidersCmd `cmd:"" help:"List configured providers"`
	Trending  TrendingCmd  `cmd:"" help:"List a Cinemeta catalog"`
	Poster    PosterCmd    `cmd:"" help:"Download and decode a poster image"`
	History   HistoryCmd   `cmd:"" help:"Manage the watch history"`
}

// App is bound into every command's Run method.
type App struct {
	Ctx context.Context
	Svc *service.Service
	Out *Printer
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("showrunner"),
		kong.Description("Aggregate show metadata, season ratings and streams from several providers."),
		kong.UsageOnError(),
	)
	if cli.Verbose {
		initLogging(slog.LevelDebug)
	}
	updateGlobalConfig(&cli)

	if err := run(kctx, &cli, os.Stdout); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context, cli *CLI, w io.Writer) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	svc, err := service.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Warn("Failed to close service", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return kctx.Run(&App{Ctx: ctx, Svc: svc, Out: NewPrinter(w, cli.Format)})
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("omdb.api_key", "OMDB_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}
}

func updateGlobalConfig(cli *CLI) {
	if cli.HistoryDB != "" {
		viper.Set("history.dbfile", cli.HistoryDB)
	}
	if cli.OMDbKey != "" {
		viper.Set("omdb.api_key", cli.OMDbKey)
	}
}

func initLogging(level slog.Level) {
	// Logs go to stderr so command output stays machine readable.
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
