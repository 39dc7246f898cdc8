package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.yaml"

func main() {
	app := &cli.Command{
		Name:  "lyricsync-gateway",
		Usage: "Synced lyrics lookup with provider fallback and request deduplication",
		Commands: []*cli.Command{
			serveCommand(),
			resolveCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("gateway exited with error: %v", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file (defaults apply when missing)",
		Value:   defaultConfigPath,
	}
}
