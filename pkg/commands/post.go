package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
)

func addPost(topLevel *cobra.Command) {
	so := &options.SphereOptions{}
	mo := &options.MediaOptions{}

	cmd := &cobra.Command{
		Use:   "post <message>",
		Short: "post to a sphere's feed",
		Example: `
sphere post "First day of the trip"
sphere post "Look at this" --file photo.jpg
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
			media, contentType, err := mo.Read()
			if err != nil {
				return err
			}
			p, err := env.service().CreatePost(ctx, sphereID, s.UserID, strings.Join(args, " "), media, contentType)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Posts(p)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	options.AddMediaArgs(cmd, mo)

	cmd.AddCommand(newPostEdit())
	cmd.AddCommand(newPostDelete())
	cmd.AddCommand(newPostComment())

	topLevel.AddCommand(cmd)
}

func newPostEdit() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <post-id> <message>",
		Short: "replace a post's message",
		Example: `
sphere post edit 171dff69 "Second day of the trip"
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
			p, err := env.service().EditPost(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Posts(p)
			return nil
		},
	}
}

func newPostDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "delete a post and its comments",
		Example: `
sphere post delete 171dff69
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
			return env.service().DeletePost(ctx, args[0])
		},
	}
}

func newPostComment() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <post-id> <message>",
		Short: "comment on a post",
		Example: `
sphere post comment 171dff69 "Wish I was there"
`,
		Args: cobra.MinimumNArgs(2),
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
			c, err := env.service().AddComment(ctx, args[0], s.UserID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.Comments(c)
			return nil
		},
	}
}
