package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/amorgun/skype-to-tg/importer"
)

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Upload a converted chat archive into a Telegram chat history",
		ArgsUsage: "<archive.zip> <config.json> <peer-phone>",
		Description: `Needs Telegram API credentials (api_id, api_hash from my.telegram.org)
in a JSON config file. The first run authenticates interactively and
stores the session next to the binary.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 3 {
				return fmt.Errorf("expected <archive.zip> <config.json> <peer-phone>")
			}
			cfg, err := importer.LoadConfig(args.Get(1))
			if err != nil {
				return err
			}
			return importer.New(cfg).ImportChat(ctx, args.Get(0), args.Get(2))
		},
	}
}
