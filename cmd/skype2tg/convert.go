package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/amorgun/skype-to-tg/export"
	"github.com/amorgun/skype-to-tg/skype"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a single chat into a Telegram-importable archive",
		ArgsUsage: "<export.tar> <chat-index> <out.zip>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "login",
				Aliases: []string{"e"},
				Usage:   `Display name override as "login:name", repeatable. Overrides always win over names found in the history.`,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 3 {
				return fmt.Errorf("expected <export.tar> <chat-index> <out.zip>")
			}
			chatIndex, err := strconv.Atoi(args.Get(1))
			if err != nil {
				return fmt.Errorf("chat index %q is not a number", args.Get(1))
			}
			overrides, err := parseOverrides(cmd.StringSlice("login"))
			if err != nil {
				return err
			}

			a, err := skype.Open(args.Get(0))
			if err != nil {
				return err
			}
			return export.Chat(a, chatIndex, args.Get(2), overrides)
		},
	}
}

func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]string, len(pairs))
	for _, p := range pairs {
		login, name, ok := strings.Cut(p, ":")
		if !ok || login == "" || name == "" {
			return nil, fmt.Errorf(`expected "login:name" pair, got %q`, p)
		}
		overrides[login] = name
	}
	return overrides, nil
}
