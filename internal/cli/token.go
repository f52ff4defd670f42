package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/middleware"
	"github.com/2beens/irontracker/pkg"
)

func newTokenCmd() *cobra.Command {
	var (
		length int
		cost   int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate a write token and its bcrypt hash",
		Long: `token prints a fresh random token for the ` + middleware.TokenHeader + ` header and the
bcrypt hash to give the service through IRON_TOKEN_HASH.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := pkg.GenerateRandomString(length)
			if err != nil {
				return err
			}
			hash, err := pkg.HashToken(token, cost)
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}

			out := cmd.OutOrStdout()
			scheme.Label.Fprint(out, "token: ")
			fmt.Fprintln(out, token)
			scheme.Label.Fprint(out, "hash:  ")
			fmt.Fprintln(out, hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&length, "length", 32, "token length")
	cmd.Flags().IntVar(&cost, "cost", pkg.TokenHashCost, "bcrypt cost")
	return cmd
}
