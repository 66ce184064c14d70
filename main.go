package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"pvision/internal/analysis"
	"pvision/internal/config"
	"pvision/internal/export"
	"pvision/internal/gamify"
	"pvision/internal/store"
	"pvision/internal/tui"
)

func main() {
	cmd := &cli.Command{
		Name:  "pvision",
		Usage: "gamified progress tracking from your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to the config file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the database file",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "write debug logs to pvision.log",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "export entries without starting the UI",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Value: "json",
						Usage: "csv or json",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "output file path",
					},
				},
				Action: runExport,
			},
			{
				Name:  "init",
				Usage: "write a starter config file",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.String("config")
					if path == "" {
						p, err := config.DefaultPath()
						if err != nil {
							return err
						}
						path = p
					}
					if err := config.CreateFile(path); err != nil {
						return err
					}
					fmt.Println("wrote", path)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by the flag, falling back to the
// default path and then to built-in defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return config.Default(), nil
	}
	return config.Load(path)
}

func openStore(cmd *cli.Command, cfg *config.Config, logger *log.Logger) (*store.Store, error) {
	dbPath := cmd.String("db")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}

	kv, err := store.OpenKV(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store.New(kv, logger)
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Logs cannot share the terminal with the UI.
	logger := log.New(io.Discard)
	if cmd.Bool("debug") {
		f, err := os.OpenFile("pvision.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = log.New(f)
		logger.SetLevel(log.DebugLevel)
	}

	s, err := openStore(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	cacheDir := cfg.Media.CacheDir
	if cacheDir == "" {
		home, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		cacheDir = filepath.Join(home, "pvision", "media")
	}
	media := store.NewMediaCache(cacheDir)

	var gwOpts []analysis.Option
	if cfg.Analysis.RateLimit > 0 {
		gwOpts = append(gwOpts, analysis.WithRateLimit(cfg.Analysis.RateLimit))
	}
	gw := analysis.NewGateway(cfg.Analysis.BaseURL, cfg.Analysis.APIKey, logger, gwOpts...)
	engine := gamify.NewEngine()

	app := tui.NewApp(s, gw, engine, media, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr)
	s, err := openStore(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	format := cmd.String("format")
	out := cmd.String("out")
	if out == "" {
		out = fmt.Sprintf("pvision-export-%s.%s", time.Now().Format("2006-01-02"), format)
	}

	switch format {
	case "csv":
		if err := export.ToCSV(s.Entries(), out); err != nil {
			return err
		}
	case "json":
		profile := s.Profile()
		if err := export.ToJSON(s.Entries(), s.Goals(), &profile, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}

	fmt.Println("exported to", out)
	return nil
}
