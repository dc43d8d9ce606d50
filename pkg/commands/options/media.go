package options

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// MediaOptions attaches a local file to a post or the image bank.
type MediaOptions struct {
	File    string
	Caption string
}

func AddMediaArgs(cmd *cobra.Command, o *MediaOptions) {
	cmd.Flags().StringVarP(&o.File, "file", "f", "",
		"Attach the image at this path.")
	cmd.Flags().StringVar(&o.Caption, "caption", "",
		"Caption for the attached image.")
}

// Read loads the attachment, returning nil content when no file was given.
func (o *MediaOptions) Read() ([]byte, string, error) {
	if o.File == "" {
		return nil, "", nil
	}
	data, err := os.ReadFile(o.File)
	if err != nil {
		return nil, "", fmt.Errorf("read media: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(o.File))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
