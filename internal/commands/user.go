package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"expensetracker/internal/auth"
	"expensetracker/internal/config"
	"expensetracker/internal/db"
	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/repository"
	"expensetracker/internal/service"
	"expensetracker/internal/validation"
)

func newUserCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserAddCommand(cfg))
	return cmd
}

func newUserAddCommand(cfg *config.Config) *cobra.Command {
	var input validation.RegistrationInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if input.Password == "" {
				fmt.Fprint(out, "Password: ")
				password, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				fmt.Fprintln(out)
				input.Password = password
			}

			if err := validation.New().Validate(&input); err != nil {
				return describe(err)
			}

			gdb, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			repo := repository.NewAccountRepository(gdb, cfg.DBAcquireTimeout)
			svc := service.NewAccountService(repo, auth.NewBcryptHasher(auth.DefaultCost))
			account, err := svc.Register(cmd.Context(), input.Username, input.Password, input.AccountRole())
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(out, "User %s created successfully with ID %d (role %s)\n", account.Username, account.ID, account.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "account username (required)")
	_ = cmd.MarkFlagRequired("username")
	cmd.Flags().StringVar(&input.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&input.Role, "role", "", "USER or ADMIN (default USER)")

	return cmd
}

// describe turns domain errors into operator-readable messages.
func describe(err error) error {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		msgs := make([]string, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			msgs = append(msgs, v.Message)
		}
		return fmt.Errorf("invalid account: %s", strings.Join(msgs, "; "))
	case errors.Is(err, apperrors.ErrConflict):
		return errors.New("username already exists")
	default:
		return err
	}
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
