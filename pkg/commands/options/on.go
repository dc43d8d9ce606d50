package options

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	layoutISO      = "2006-01-02"
	layoutISOShort = "1/2"
)

// OnOptions selects the day a diary entry is about.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`The day the entry is about, example: --on="2026-08-30" or --on="8/30". Defaults to today.`)
}

// GetOn resolves the flag to a day. Short form dates land in the current
// year.
func (o *OnOptions) GetOn() (time.Time, error) {
	if o.OnString == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(layoutISO, o.OnString)
	if err != nil {
		t, err = time.Parse(layoutISOShort, o.OnString)
		if err != nil {
			return time.Time{}, err
		}
		t = t.AddDate(time.Now().Year(), 0, 0)
	}
	return t, nil
}
