package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
)

func addFeed(topLevel *cobra.Command) {
	so := &options.SphereOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	mo := &options.MonthOptions{}
	calendar := false

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "show a sphere's feed",
		Example: `
sphere feed
sphere feed --sphere 171dff69 --show-id
sphere feed --calendar --month 2026-08
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
			posts, err := env.service().Posts(ctx, sphereID)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(posts); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			if calendar {
				on, err := mo.GetMonth()
				if err != nil {
					return err
				}
				pp.Calendar(on, posts...)
				return nil
			}
			pp.TitleWithCount("Feed", len(posts))
			pp.Posts(posts...)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	options.AddMonthArgs(cmd, mo)
	cmd.Flags().BoolVar(&calendar, "calendar", false,
		"Render the month as a day grid instead of a list.")

	cmd.AddCommand(newFeedComments())

	topLevel.AddCommand(cmd)
}

func newFeedComments() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <post-id>",
		Short: "list a post's comments",
		Example: `
sphere feed comments 171dff69
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
			comments, err := env.service().Comments(ctx, args[0])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.TitleWithCount("Comments", len(comments))
			pp.Comments(comments...)
			return nil
		},
	}
}
