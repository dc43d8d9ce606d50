package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
	"tableflip.dev/sphere/pkg/project"
)

func addProjects(topLevel *cobra.Command) {
	so := &options.SphereOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "list a sphere's slideshows and albums",
		Example: `
sphere projects
sphere projects --sphere 171dff69 --show-id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return oo.HandleError(err)
			}
			sphereID, err := env.resolveSphere(so.Sphere)
			if err != nil {
				return oo.HandleError(err)
			}
			projects, err := env.service().Projects(ctx, sphereID)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(projects); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Projects", len(projects))
			pp.Projects(projects...)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	cmd.AddCommand(newProjectCreate())
	cmd.AddCommand(newProjectAdd())
	cmd.AddCommand(newProjectRemove())
	cmd.AddCommand(newProjectReorder())
	cmd.AddCommand(newProjectPlay())

	topLevel.AddCommand(cmd)
}

func newProjectCreate() *cobra.Command {
	so := &options.SphereOptions{}
	kind := string(project.KindSlideshow)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "create a slideshow or album",
		Example: `
sphere projects create "Summer 2026"
sphere projects create "Best of" --kind album
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
			sphereID, err := env.resolveSphere(so.Sphere)
			if err != nil {
				return err
			}
			p, err := env.service().CreateProject(ctx, sphereID, s.UserID, strings.Join(args, " "), project.Kind(kind))
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Projects(p)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	cmd.Flags().StringVar(&kind, "kind", string(project.KindSlideshow),
		"Project kind. One of 'slideshow' or 'album'.")
	return cmd
}

func newProjectAdd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id> <image-id>",
		Short: "add an image to a project",
		Example: `
sphere projects add 171dff69 8fe2aa01
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return err
			}
			p, err := env.service().AddProjectItem(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Projects(p)
			return nil
		},
	}
}

func newProjectRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-id> <image-id>",
		Short: "remove an image from a project",
		Example: `
sphere projects remove 171dff69 8fe2aa01
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return err
			}
			p, err := env.service().RemoveProjectItem(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Projects(p)
			return nil
		},
	}
}

func newProjectReorder() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <project-id> <image-id>...",
		Short: "replace a project's item order",
		Example: `
sphere projects reorder 171dff69 8fe2aa01 3c41be77
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return err
			}
			p, err := env.service().ReorderProject(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Projects(p)
			return nil
		},
	}
}

func newProjectPlay() *cobra.Command {
	return &cobra.Command{
		Use:   "play <project-id>",
		Short: "list a project's images in play order",
		Example: `
sphere projects play 171dff69
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := loadEnvironment(ctx)
			if err != nil {
				return err
			}
			if _, err := env.requireSession(); err != nil {
				return err
			}
			images, err := env.service().PlayOrder(ctx, args[0])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.TitleWithCount("Play order", len(images))
			pp.Images(images...)
			return nil
		},
	}
}
