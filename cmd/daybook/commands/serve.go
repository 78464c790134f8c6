package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sakif/daybook/internal/server"
)

var (
	servePort     int
	serveJWT      string
	serveQuoteURL string
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the daybook HTTP API and block until interrupted.

Configuration falls back to environment variables: PORT, JWT_SECRET,
QUOTE_API_URL. Without a JWT secret the server still starts, but
authentication is disabled and entry routes are unprotected.`,
		RunE: runServe,
	}

	cmd.Flags().IntVar(&servePort, "port", 0, "listen port (default $PORT or 8080)")
	cmd.Flags().StringVar(&serveJWT, "jwt-secret", "", "secret for session tokens (default $JWT_SECRET)")
	cmd.Flags().StringVar(&serveQuoteURL, "quote-url", "", "quote provider endpoint (default $QUOTE_API_URL or the production endpoint)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	port := servePort
	if port == 0 {
		port = 8080
		if raw := os.Getenv("PORT"); raw != "" {
			p, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid PORT value %q", raw)
			}
			port = p
		}
	}

	secret := serveJWT
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	quoteURL := serveQuoteURL
	if quoteURL == "" {
		quoteURL = os.Getenv("QUOTE_API_URL")
	}

	path, err := resolveDBPath()
	if err != nil {
		return fmt.Errorf("resolving database path: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:        port,
		DBPath:      path,
		JWTSecret:   secret,
		QuoteAPIURL: quoteURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	return srv.Start()
}
