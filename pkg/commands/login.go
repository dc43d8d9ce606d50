package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tableflip.dev/sphere/pkg/identity"
)

func addLogin(topLevel *cobra.Command) {
	name := ""
	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "sign in and save a local session",
		Example: `
sphere login you@example.com
sphere login you@example.com --name "Your Name"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(context.Background())
			if err != nil {
				return err
			}
			email := strings.ToLower(strings.TrimSpace(args[0]))
			if email == "" || !strings.Contains(email, "@") {
				return errors.New("an email address is required")
			}

			fmt.Print("Password: ")
			pw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println("")
			if err != nil {
				return err
			}
			if len(pw) == 0 {
				return errors.New("a password is required")
			}

			s := identity.Session{
				// Stable per email so the same account maps to the same
				// user across machines.
				UserID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
				Email:       email,
				DisplayName: name,
			}
			if err := identity.SaveSession(env.cfg.SessionPath(), s); err != nil {
				return err
			}
			fmt.Printf("signed in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name for your profile.")

	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "clear the saved session",
		Example: `
sphere logout
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(context.Background())
			if err != nil {
				return err
			}
			if err := identity.ClearSession(env.cfg.SessionPath()); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
