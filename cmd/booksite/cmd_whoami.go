package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/booksite/internal/app"
	"github.com/five82/booksite/internal/logging"
	"github.com/five82/booksite/internal/state"
)

var whoamiFlags struct {
	username string
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Log in, print the user's groups and log out again",
	Long: "whoami checks a set of credentials against the backend. The password is\n" +
		"read from the terminal without echo, or from the first line of stdin.",
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func init() {
	whoamiCmd.Flags().StringVarP(&whoamiFlags.username, "user", "u", "", "username (required)")
	_ = whoamiCmd.MarkFlagRequired("user")
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig(appOptions())
	if err != nil {
		return err
	}
	logger, err := logging.Console(cmd.ErrOrStderr(), "warn")
	if err != nil {
		return err
	}
	books, err := app.NewState(cfg, logger)
	if err != nil {
		return err
	}

	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	ctx := cmd.Context()
	books.Session.ChangeLoginFormField(state.FieldUsername, whoamiFlags.username)
	books.Session.ChangeLoginFormField(state.FieldPassword, password)
	if err := books.Session.AttemptLogin(ctx); err != nil {
		return fmt.Errorf("login as %s: %s", whoamiFlags.username, books.Session.LoginForm().Message)
	}

	user := books.Session.CurrentUser()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Username: %s\n", user.Username)
	fmt.Fprintf(out, "Name:     %s %s\n", user.FirstName, user.LastName)
	fmt.Fprintf(out, "Groups:   %s\n", strings.Join(user.AccessGroups, ", "))
	fmt.Fprintf(out, "Admin:    %t\n", books.Session.AdminLoggedIn())

	<-books.Logout(ctx)
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
