package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(sphere completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(sphere completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// registerSphereCompletions wires sphere id completion onto every command
// carrying the -s flag.
func registerSphereCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		registerSphereCompletions(cmd)
		if cmd.Flags().Lookup("sphere") == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc("sphere",
			func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
				return sphereCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			})
	}
}

func sphereCompletions(toComplete string) []string {
	ctx := context.Background()
	env, err := loadEnvironment(ctx)
	if err != nil {
		return nil
	}
	s, err := env.requireSession()
	if err != nil {
		return nil
	}
	spheres, err := env.service().Spheres(ctx, s.UserID)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(spheres))
	for _, sph := range spheres {
		if strings.HasPrefix(sph.ID, toComplete) {
			out = append(out, sph.ID)
		}
	}
	return out
}
