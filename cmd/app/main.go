package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/modcatalog/internal"
	pkgconfig "github.com/starford/modcatalog/pkg/config"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if out := cmd.String("out"); out != "" {
		opts = append(opts, internal.WithOutputFile(out))
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func render(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Render(ctx, cmd.String("out"), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "modcatalog",
		Usage:  "Browsable catalog of community Mindustry mods",
		Action: serve,
		Flags:  []cli.Flag{configFlag()},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Load the catalog and serve the rendered page",
				Action: serve,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Also write every render to this HTML file",
					},
				},
			},
			{
				Name:   "render",
				Usage:  "Load the catalog once and write the rendered page to a file",
				Action: render,
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output HTML file",
						Value:   "index.html",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
