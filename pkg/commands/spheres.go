package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
)

func addSpheres(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "spheres",
		Short: "list the spheres you belong to",
		Example: `
sphere spheres
sphere spheres --show-id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			s, err := env.requireSession()
			if err != nil {
				return oo.HandleError(err)
			}
			spheres, err := env.service().Spheres(ctx, s.UserID)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(spheres); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Spheres", len(spheres))
			pp.Spheres(spheres...)
			return nil
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	cmd.AddCommand(newSphereCreate())
	cmd.AddCommand(newSphereUse())
	cmd.AddCommand(newSphereMembers())

	topLevel.AddCommand(cmd)
}

func newSphereCreate() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "create a sphere",
		Example: `
sphere spheres create "Family"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			s, err := env.requireSession()
			if err != nil {
				return err
			}
			sph, err := env.service().CreateSphere(ctx, s.UserID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			_ = env.prefs.SetLastSphere(s.UserID, sph.ID)
			pp := printers.PrettyPrint{ShowID: true}
			pp.Spheres(sph)
			return nil
		},
	}
}

func newSphereUse() *cobra.Command {
	return &cobra.Command{
		Use:   "use <sphere-id>",
		Short: "make a sphere the default for later commands",
		Example: `
sphere spheres use 171dff69
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			s, err := env.requireSession()
			if err != nil {
				return err
			}
			// Confirm membership before remembering the choice.
			spheres, err := env.service().Spheres(ctx, s.UserID)
			if err != nil {
				return err
			}
			for _, sph := range spheres {
				if sph.ID == args[0] {
					return env.prefs.SetLastSphere(s.UserID, sph.ID)
				}
			}
			return fmt.Errorf("you are not a member of sphere %s", args[0])
		},
	}
}

func newSphereMembers() *cobra.Command {
	so := &options.SphereOptions{}
	cmd := &cobra.Command{
		Use:   "members",
		Short: "list a sphere's members",
		Example: `
sphere spheres members --sphere 171dff69
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return err
			}
			sphereID, err := env.resolveSphere(so.Sphere)
			if err != nil {
				return err
			}
			members, err := env.service().Members(ctx, sphereID)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.TitleWithCount("Members", len(members))
			pp.Members(members...)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	return cmd
}
