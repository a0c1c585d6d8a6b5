package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/spf13/cobra"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Long: `hash-password prints the bcrypt hash of the given password. Without an
argument the password is read from the first line of standard input.`,
	Args: cobra.MaximumNArgs(1),
	// no configuration needed
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		password := ""
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		if password == "" {
			return errors.New("password must not be empty")
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
