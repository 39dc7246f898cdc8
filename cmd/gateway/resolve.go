package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"lyricsync-gateway/internal/lyrics"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Look up synced lyrics once and print the document as JSON",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "title",
				Aliases:  []string{"t"},
				Usage:    "Song title",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Song artist",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album name",
			},
			&cli.FloatFlag{
				Name:  "duration",
				Usage: "Track length in seconds",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Provider to try first (lyricsplus or lrclib)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: resolve,
	}
}

func resolve(ctx context.Context, cmd *cli.Command) error {
	g, err := buildGateway(ctx, cmd.String("config"))
	if err != nil {
		return err
	}
	defer g.Close()

	settings := g.defaultSettings()
	switch p := lyrics.ProviderName(cmd.String("provider")); p {
	case "":
	case lyrics.ProviderLyricsPlus, lyrics.ProviderLRCLib:
		settings.PreferredProvider = p
	default:
		return fmt.Errorf("unknown provider %q", p)
	}

	song := lyrics.SongIdentity{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		Album:    cmd.String("album"),
		Duration: cmd.Float("duration"),
	}

	doc, err := g.cache.Request(ctx, song, settings)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if cmd.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
