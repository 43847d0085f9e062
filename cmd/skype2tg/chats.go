package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/urfave/cli/v3"

	"github.com/amorgun/skype-to-tg/core"
	"github.com/amorgun/skype-to-tg/export"
	"github.com/amorgun/skype-to-tg/skype"
)

const defaultWidth = 100

func chatsCmd() *cli.Command {
	return &cli.Command{
		Name:      "chats",
		Usage:     "List importable chats found in a Skype export archive",
		ArgsUsage: "<export.tar>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one argument: path to the export archive")
			}

			a, err := skype.Open(cmd.Args().First())
			if err != nil {
				return err
			}

			chats := export.ListChats(a)
			if len(chats) == 0 {
				fmt.Println("No chats found")
				return nil
			}
			printChats(os.Stdout, chats, termWidth())
			return nil
		},
	}
}

func printChats(w io.Writer, chats []core.ChatSummary, width int) {
	const metaWidth = 5 + 2 + 16 + 2 + 8 + 2
	nameWidth := width - metaWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	fmt.Fprintln(w, styleHeader.Render(
		fmt.Sprintf("%5s  %-16s  %8s  %s", "Index", "Last message", "Messages", "Chat name")))
	for _, c := range chats {
		meta := fmt.Sprintf("%5d  %-16s  %8d  ", c.Index, lastMessageColumn(c.LastMessageTime), c.NumMessages)
		fmt.Fprintln(w, styleMeta.Render(meta)+styleName.Render(truncate(c.DisplayName, nameWidth)))
	}
}

// lastMessageColumn trims a last-received timestamp to minute precision for
// the listing, with an explicit marker when the chat never recorded one.
func lastMessageColumn(ts string) string {
	if ts == "" {
		return "unknown"
	}
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return defaultWidth
}
