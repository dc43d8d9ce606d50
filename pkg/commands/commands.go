package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "sphere",
		Short: options.Wrap80("Share photos with the people who matter, from the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addLogin(topLevel)
	addLogout(topLevel)
	addSpheres(topLevel)
	addInvites(topLevel)
	addFeed(topLevel)
	addPost(topLevel)
	addImages(topLevel)
	addDiary(topLevel)
	addProjects(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	registerSphereCompletions(topLevel)
}
