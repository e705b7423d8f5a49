package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/moments/internal/compressor"
)

var errNothingEncoded = errors.New("image could not be encoded")

func newCompressCommand(a *App) *cobra.Command {
	var maxWidth, maxBytes int

	cmd := &cobra.Command{
		Use:   "compress [flags] in out",
		Short: "Compress one image to JPEG within the size budget",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			img, err := a.decodeFile(args[0])
			if err != nil {
				return err
			}

			opts := a.config.CompressorOptions()
			opts.MaxWidth, opts.MaxBytes = maxWidth, maxBytes
			res := compressor.New(a.codec, opts, a.log).Compress(ctx, a.codec.Normalize(img))
			if err := ctx.Err(); err != nil {
				return err
			}
			if res.Empty() {
				return fmt.Errorf("%s: %w", args[0], errNothingEncoded)
			}

			if err := os.WriteFile(args[1], res.Data, 0o644); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d quality=%.1f bytes=%d\n",
				args[1], res.Width, res.Height, res.Quality, len(res.Data))
			return err
		},
	}

	cmd.Flags().IntVar(&maxWidth, "max-width", a.config.MaxWidth, "maximum output width in pixels")
	cmd.Flags().IntVar(&maxBytes, "max-bytes", a.config.MaxBytes, "target maximum output size in bytes")
	return cmd
}
