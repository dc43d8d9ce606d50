package options

import (
	"time"

	"github.com/spf13/cobra"
)

const layoutMonth = "2006-01"

// MonthOptions selects a calendar month for timeline commands.
type MonthOptions struct {
	MonthString string
}

func AddMonthArgs(cmd *cobra.Command, o *MonthOptions) {
	cmd.Flags().StringVarP(&o.MonthString, "month", "m", "",
		`Specify a month, example: --month="2020-02". Defaults to the current month.`)
}

// GetMonth parses the flag, defaulting to the present month.
func (o *MonthOptions) GetMonth() (time.Time, error) {
	if o.MonthString == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(layoutMonth, o.MonthString)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
