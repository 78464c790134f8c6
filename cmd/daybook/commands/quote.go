package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/daybook/internal/cache"
	"github.com/sakif/daybook/internal/model"
	"github.com/sakif/daybook/internal/quoteapi"
	"github.com/sakif/daybook/internal/service"
)

var quoteRefresh bool

// NewQuoteCmd creates the quote command.
func NewQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print the quote of the day",
		Long: `Print today's quote. Served from the local cache when it is fresh;
otherwise fetched from the quote provider and cached, falling back to the
rolling 7-day window when the network is unavailable.

Examples:
  daybook quote
  daybook quote --refresh`,
		RunE: runQuote,
	}

	cmd.Flags().BoolVar(&quoteRefresh, "refresh", false, "force a fresh fetch, ignoring cache freshness")

	return cmd
}

func runQuote(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	quoteStore, err := cache.NewQuoteStore(ctx, db, logger)
	if err != nil {
		return fmt.Errorf("initializing quote cache: %w", err)
	}

	client := quoteapi.NewClient(os.Getenv("QUOTE_API_URL"), logger)
	quotes := service.NewQuoteService(quoteStore, client, logger)

	var q *model.Quote
	if quoteRefresh {
		q, err = quotes.Refresh(ctx)
	} else {
		q, err = quotes.QuoteOfTheDay(ctx)
	}
	if err != nil {
		return err
	}

	marker := ""
	if q.IsFavorite {
		marker = " ★"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%q\n    — %s%s\n", q.Text, q.Author, marker)

	return nil
}
