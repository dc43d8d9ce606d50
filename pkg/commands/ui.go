package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/identity"
	"tableflip.dev/sphere/pkg/tui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
sphere ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(context.Background())
			if err != nil {
				return err
			}
			provider := identity.NewStaticProvider()
			if env.signedIn {
				provider.Resolve(env.session)
			} else {
				provider.Resolve(identity.Session{})
			}
			return tui.Run(tui.Deps{
				Store:    env.store,
				Blobs:    env.blobs,
				Identity: provider,
				Service:  env.service(),
				Prefs:    env.prefs,
			})
		},
	}

	topLevel.AddCommand(cmd)
}
