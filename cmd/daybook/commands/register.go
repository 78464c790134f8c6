package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/daybook/internal/service"
)

var (
	registerEmail    string
	registerPassword string
	registerName     string
)

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a local account",
		Long: `Create a local account for the HTTP API. The email is normalized
(trimmed, lower-cased) and must be unused; the password is stored only as a
one-way digest.`,
		RunE: runRegister,
	}

	cmd.Flags().StringVar(&registerEmail, "email", "", "account email (required)")
	cmd.Flags().StringVar(&registerPassword, "password", "", "account password, at least 6 characters (required)")
	cmd.Flags().StringVar(&registerName, "name", "", "display name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	authSvc := service.NewAuthService(db, nil, logger)

	user, err := authSvc.Register(cmd.Context(), registerEmail, registerPassword, registerName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Email, user.ID)

	return nil
}
