package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/sphere/pkg/commands/options"
	"tableflip.dev/sphere/pkg/diary"
	"tableflip.dev/sphere/pkg/printers"
)

func addDiary(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "diary",
		Short: "show your private diary",
		Example: `
sphere diary
sphere diary --show-id
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
			entries, err := env.service().DiaryEntries(ctx, s.UserID)
			if err != nil {
				return oo.HandleError(err)
			}
			if printed, err := oo.PrintJSON(entries); err != nil || printed {
				return err
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Diary", len(entries))
			pp.DiaryEntries(entries...)
			return nil
		},
	}
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	cmd.AddCommand(newDiaryAdd())
	cmd.AddCommand(newDiaryEdit())
	cmd.AddCommand(newDiaryDelete())

	topLevel.AddCommand(cmd)
}

func newDiaryAdd() *cobra.Command {
	on := &options.OnOptions{}
	body := ""
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "add a diary entry",
		Example: `
sphere diary add "Long hike" --on 2026-08-30 --body "We made the summit."
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
			day, err := on.GetOn()
			if err != nil {
				return err
			}
			e, err := env.service().AddDiaryEntry(ctx, s.UserID, diary.FormatDate(day), strings.Join(args, " "), body)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.DiaryEntries(e)
			return nil
		},
	}
	options.AddOnArgs(cmd, on)
	cmd.Flags().StringVar(&body, "body", "", "Entry body text.")
	return cmd
}

func newDiaryEdit() *cobra.Command {
	body := ""
	cmd := &cobra.Command{
		Use:   "edit <entry-id> <title>",
		Short: "edit a diary entry",
		Example: `
sphere diary edit 171dff69 "Longer hike" --body "We made both summits."
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
			e, err := env.service().EditDiaryEntry(ctx, args[0], strings.Join(args[1:], " "), body)
			if err != nil {
				return err
			}
			pp := printers.PrettyPrint{ShowID: true}
			pp.DiaryEntries(e)
			return nil
		},
	}
	cmd.Flags().StringVar(&body, "body", "", "Entry body text.")
	return cmd
}

func newDiaryDelete() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "delete a diary entry",
		Example: `
sphere diary delete 171dff69
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
			return env.service().DeleteDiaryEntry(ctx, args[0])
		},
	}
}
