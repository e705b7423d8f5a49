package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newOrphansCommand(a *App) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "List uploads whose thought was never saved",
		Long: `Lists objects that were uploaded for a publish that then failed. They are
not referenced by any thought and can be removed from the bucket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repo, closeLedger, err := a.openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = closeLedger() }()

			uploads, err := repo.ListUnpublished(ctx, time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			if len(uploads) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no orphaned uploads")
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "UPLOADED\tBATCH\tBYTES\tKEY\tURL")
			for _, u := range uploads {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					u.CreatedAt.UTC().Format(time.RFC3339), u.BatchID, u.Bytes, u.ObjectKey, u.Image.URL)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "only list uploads older than this")
	return cmd
}
