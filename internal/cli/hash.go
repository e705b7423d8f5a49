package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHashCommand(a *App) *cobra.Command {
	var x, y int

	cmd := &cobra.Command{
		Use:   "hash [flags] files...",
		Short: "Print the blurhash of each image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			enc := a.hasher()
			failed := 0

			for _, path := range args {
				img, err := a.decodeFile(path)
				if err == nil {
					var hash string
					if hash, err = enc.Encode(a.codec.Normalize(img), x, y); err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hash, path)
						continue
					}
				}
				a.log.Warn(ctx, "hash failed", "file", path, "error", err)
				failed++
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be hashed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&x, "x-components", "x", a.config.HashX, "horizontal components (1-9)")
	cmd.Flags().IntVarP(&y, "y-components", "y", a.config.HashY, "vertical components (1-9)")
	return cmd
}
