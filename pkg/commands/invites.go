package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
)

func addInvites(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "invites",
		Short: "list invitations waiting on you",
		Example: `
sphere invites
sphere invites --show-id
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
			invites, err := env.service().Invites(ctx, s.Email)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(invites); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Invites", len(invites))
			pp.Invites(invites...)
			return nil
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	cmd.AddCommand(newInviteSend())
	cmd.AddCommand(newInviteAccept())

	topLevel.AddCommand(cmd)
}

func newInviteSend() *cobra.Command {
	so := &options.SphereOptions{}
	cmd := &cobra.Command{
		Use:   "send <email>",
		Short: "invite someone to a sphere",
		Example: `
sphere invites send them@example.com --sphere 171dff69
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
			sphereID, err := env.resolveSphere(so.Sphere)
			if err != nil {
				return err
			}
			inv, err := env.service().Invite(ctx, sphereID, s.UserID, args[0])
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{}
			pp.Invites(inv)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	return cmd
}

func newInviteAccept() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <invite-id>",
		Short: "accept an invitation",
		Example: `
sphere invites accept 171dff69
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
			m, err := env.service().AcceptInvite(ctx, args[0], s.UserID)
			if err != nil {
				return err
			}
			_ = env.prefs.SetLastSphere(s.UserID, m.SphereID)
			pp := printers.PrettyPrint{}
			pp.Members(m)
			return nil
		},
	}
}
