package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCommand(a *App) *cobra.Command {
	var (
		page, pageSize int
		tag            string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List thoughts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.thoughtsClient(a.httpClient())
			if err != nil {
				return err
			}
			res, err := api.List(cmd.Context(), page, pageSize, tag)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tIMAGES\tTAGS\tCONTENT")
			for _, th := range res.Data {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", th.ID, th.CreatedAt.UTC().Format(time.RFC3339),
					len(th.Images), strings.Join(th.Tags, ","), excerpt(th.Content, 40))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			p := res.Pagination
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d total\n", p.Page, p.TotalPages, p.Total)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&page, "page", 1, "page number, starting at 1")
	f.IntVar(&pageSize, "page-size", 10, "thoughts per page")
	f.StringVar(&tag, "tag", "", "only thoughts with this tag")
	return cmd
}

func newShowCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show id",
		Short: "Print one thought as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.thoughtsClient(a.httpClient())
			if err != nil {
				return err
			}
			th, err := api.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), th)
		},
	}
}

func newDeleteCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete id",
		Short: "Delete a thought",
		Long:  "Deletes the thought on the backend. Its images stay in the bucket.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.thoughtsClient(a.httpClient())
			if err != nil {
				return err
			}
			if err := api.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.log.Info(cmd.Context(), "thought deleted", "id", args[0])
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// excerpt shortens s to its first line, cut to n runes.
func excerpt(s string, n int) string {
	s, _, _ = strings.Cut(strings.TrimSpace(s), "\n")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
