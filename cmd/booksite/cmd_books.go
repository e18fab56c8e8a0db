package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/booksite/internal/app"
	"github.com/five82/booksite/internal/logging"
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Print the catalog",
	Args:  cobra.NoArgs,
	RunE:  runBooks,
}

func runBooks(cmd *cobra.Command, _ []string) error {
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
	if err := books.Books.Load(cmd.Context()); err != nil {
		return err
	}

	list := books.Books.List()
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No books")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLANGUAGE\tPAGES")
	for _, b := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", b.ID, b.Title, b.LanguageText, b.NumberOfPages)
	}
	return w.Flush()
}
