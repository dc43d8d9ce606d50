package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/printers"
)

func addImages(topLevel *cobra.Command) {
	so := &options.SphereOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "images",
		Short: "list a sphere's image bank",
		Example: `
sphere images
sphere images --sphere 171dff69 --show-id
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
			images, err := env.service().Images(ctx, sphereID)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(images); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Image bank", len(images))
			pp.Images(images...)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	cmd.AddCommand(newImageUpload())
	cmd.AddCommand(newImageDelete())

	topLevel.AddCommand(cmd)
}

func newImageUpload() *cobra.Command {
	so := &options.SphereOptions{}
	mo := &options.MediaOptions{}
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "upload an image to the bank",
		Example: `
sphere images upload --file photo.jpg --caption "Sunset"
`,
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
			data, contentType, err := mo.Read()
			if err != nil {
				return err
			}
			if len(data) == 0 {
				return errors.New("an image file is required, pass --file")
			}
			img, err := env.service().UploadImage(ctx, sphereID, s.UserID, mo.Caption, data, contentType)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.Images(img)
			return nil
		},
	}
	options.AddSphereArgs(cmd, so)
	options.AddMediaArgs(cmd, mo)
	return cmd
}

func newImageDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <image-id>",
		Short: "delete an image from the bank",
		Example: `
sphere images delete 171dff69
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
			return env.service().DeleteImage(ctx, args[0])
		},
	}
}
