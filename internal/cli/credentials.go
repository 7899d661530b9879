package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gomag-tools/importer/internal/config"
)

// credentialsCmd represents the credentials command
var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage the stored Gomag password",
	Long: `Stores the shop admin password in the OS keyring so it never has to
live in shell history or an .env file. The GOMAG_PASSWORD environment
variable always takes precedence over the keyring.`,
}

var credentialsSetCmd = &cobra.Command{
	Use:     "set <username>",
	Short:   "Store the password for a shop account",
	Example: `  $ importer credentials set admin@shop.example`,
	Args:    cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stderr, "Password for %s: ", args[0])
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimSpace(string(raw))
		if password == "" {
			return fmt.Errorf("empty password")
		}
		return config.StorePassword(args[0], password)
	},
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Remove the stored password for a shop account",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return config.DeletePassword(args[0])
	},
}

func init() {
	rootCmd.AddCommand(credentialsCmd)
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
}
