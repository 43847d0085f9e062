package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"golang.org/x/term"
)

// terminalAuth prompts on the terminal for the interactive parts of the
// Telegram login flow.
type terminalAuth struct {
	in      *bufio.Reader
	out     io.Writer
	stdinFD int
}

var _ auth.UserAuthenticator = (*terminalAuth)(nil)

func newTerminalAuth() *terminalAuth {
	return &terminalAuth{
		in:      bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		stdinFD: int(os.Stdin.Fd()),
	}
}

func (t *terminalAuth) Phone(_ context.Context) (string, error) {
	return t.prompt("Enter your phone number: ")
}

func (t *terminalAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return t.prompt("Enter the code Telegram sent you: ")
}

func (t *terminalAuth) Password(_ context.Context) (string, error) {
	fmt.Fprint(t.out, "Enter 2FA password: ")
	pwd, err := term.ReadPassword(t.stdinFD)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(t.out)
	return string(pwd), nil
}

func (t *terminalAuth) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func (t *terminalAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("signup is not supported, register the account first")
}

func (t *terminalAuth) prompt(msg string) (string, error) {
	fmt.Fprint(t.out, msg)
	line, err := t.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
