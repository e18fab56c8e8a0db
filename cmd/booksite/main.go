package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/booksite/internal/app"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	prefsPath  string
	backendURL string
	page       string
}

var rootCmd = &cobra.Command{
	Use:   "booksite",
	Short: "Terminal front end for the book catalog",
	Long: "booksite browses the book catalog of a booksite backend.\n" +
		"Logged-in admins can edit, add and delete books.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.configPath, "config", "", "config file (default ~/.config/booksite/config.toml)")
	f.StringVar(&rootFlags.backendURL, "backend", "", "backend URL, overrides config and BOOKSITE_BACKEND_URL")

	rootCmd.Flags().StringVar(&rootFlags.prefsPath, "prefs", "", "preferences file (default ~/.config/booksite/prefs.toml)")
	rootCmd.Flags().StringVar(&rootFlags.page, "page", "/", "page to open: /, /login, /logout or /logs")

	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(fakeServerCmd)
	rootCmd.Version = version
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "booksite: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	return app.Run(cmd.Context(), appOptions())
}

func appOptions() app.Options {
	return app.Options{
		ConfigPath: rootFlags.configPath,
		PrefsPath:  rootFlags.prefsPath,
		BackendURL: rootFlags.backendURL,
		StartPath:  rootFlags.page,
	}
}
