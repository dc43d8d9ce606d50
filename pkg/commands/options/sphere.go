package options

import (
	"github.com/spf13/cobra"
)

// SphereOptions selects which sphere a command acts on. An empty value
// falls back to the user's last-used sphere preference.
type SphereOptions struct {
	Sphere string
}

func AddSphereArgs(cmd *cobra.Command, o *SphereOptions) {
	cmd.Flags().StringVarP(&o.Sphere, "sphere", "s", "",
		"Specify the sphere id. Defaults to the last sphere used.")
}
