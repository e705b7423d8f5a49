package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/moments/internal/compose"
	"github.com/dmitrijs2005/moments/internal/ingest"
	"github.com/dmitrijs2005/moments/internal/models"
)

type publishOptions struct {
	content    string
	tags       []string
	visibility string
	thoughtID  string
	keep       []string
}

func newPublishCommand(a *App) *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish [flags] files...",
		Short: "Upload images and create or update a thought",
		Long: `Compresses and uploads every image file, computes its blurhash and then
creates a thought (or replaces thought --id) referencing the uploaded images.

Images kept from an earlier version of the thought are given with --keep as
url|WIDTHxHEIGHT[|blurhash]; they are listed before the new files and are not
uploaded again.

Usage examples:

	moments publish --content "Morning walk" --tag walk a.jpg b.png
	moments publish --id 42 --content "edited" --keep "https://cdn/x.jpg|1920x1080" c.jpg
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, a, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.content, "content", "", "thought text")
	f.StringArrayVar(&opts.tags, "tag", nil, "tag, may be repeated")
	f.StringVar(&opts.visibility, "visibility", "", "public, private or unlisted (default public)")
	f.StringVar(&opts.thoughtID, "id", "", "update this thought instead of creating one")
	f.StringArrayVar(&opts.keep, "keep", nil, "already uploaded image as url|WxH[|blurhash], may be repeated")
	f.IntVar(&a.config.Workers, "workers", a.config.Workers, "images processed concurrently")
	return cmd
}

func runPublish(cmd *cobra.Command, a *App, opts publishOptions, files []string) error {
	ctx := cmd.Context()

	visibility, err := models.ParseVisibility(opts.visibility)
	if err != nil {
		return err
	}

	selections := make([]ingest.Selection, 0, len(opts.keep)+len(files))
	for _, ref := range opts.keep {
		img, err := models.ParseImageRef(ref)
		if err != nil {
			return fmt.Errorf("--keep %q: %w", ref, err)
		}
		selections = append(selections, ingest.Existing(img))
	}

	images, failed := decodeFiles(ctx, a, a.log, files)
	if failed > 0 {
		a.log.Warn(ctx, "unreadable files skipped", "skipped", failed, "total", len(files))
	}
	for _, img := range images {
		selections = append(selections, ingest.FromImage(img))
	}

	draft := compose.Draft{
		ThoughtID:  opts.thoughtID,
		Content:    opts.content,
		Tags:       opts.tags,
		Visibility: visibility,
		Selections: selections,
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	pub, closeLedger, err := a.publisher(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLedger() }()

	th, err := pub.Publish(ctx, draft)
	if err != nil {
		return err
	}

	return printJSON(cmd.OutOrStdout(), th)
}
