package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/scene"
)

// sceneFlags are the flags shared by commands that read a scene.
type sceneFlags struct {
	sample int // items in the built-in sample scene, used without a file

	width              float64
	baseWidth          string
	gutter             string
	gutterX            string
	gutterY            string
	singleColumnGutter string
	direction          string
	noMinify           bool
	surrounding        bool
	wedge              bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.sample, "sample", defaultSampleItems, "number of items in the sample scene used when no file is given")
	fs.Float64Var(&f.width, "width", 0, "container width in pixels (overrides the scene)")
	fs.StringVar(&f.baseWidth, "base-width", "", "target column width, pixels or a CSS length")
	fs.StringVar(&f.gutter, "gutter", "", "gap between children, pixels or a CSS length")
	fs.StringVar(&f.gutterX, "gutter-x", "", "horizontal gap (overrides --gutter)")
	fs.StringVar(&f.gutterY, "gutter-y", "", "vertical gap (overrides --gutter)")
	fs.StringVar(&f.singleColumnGutter, "single-column-gutter", "", "vertical gap when only one column fits")
	fs.StringVar(&f.direction, "direction", "", "column order: ltr or rtl")
	fs.BoolVar(&f.noMinify, "no-minify", false, "place children round-robin instead of into the shortest column")
	fs.BoolVar(&f.surrounding, "surrounding-gutter", false, "add the gutter outside the first and last column")
	fs.BoolVar(&f.wedge, "wedge", false, "do not center when there are fewer children than columns")
}

// overrides returns the options set explicitly on the command line.
func (f *sceneFlags) overrides(cmd *cobra.Command) (masonry.Options, error) {
	var o masonry.Options
	changed := cmd.Flags().Changed

	lengths := []struct {
		flag  string
		value string
		dst   *masonry.Length
	}{
		{"base-width", f.baseWidth, &o.BaseWidth},
		{"gutter", f.gutter, &o.Gutter},
		{"gutter-x", f.gutterX, &o.GutterX},
		{"gutter-y", f.gutterY, &o.GutterY},
		{"single-column-gutter", f.singleColumnGutter, &o.SingleColumnGutter},
	}
	for _, l := range lengths {
		if !changed(l.flag) {
			continue
		}
		length, err := parseLengthFlag(l.value)
		if err != nil {
			return masonry.Options{}, fmt.Errorf("--%s: %w", l.flag, err)
		}
		*l.dst = length
	}

	if changed("direction") {
		if err := errors.ValidateDirection(f.direction); err != nil {
			return masonry.Options{}, err
		}
		o.Direction = masonry.Direction(f.direction)
	}
	if changed("no-minify") {
		o.Minify = masonry.Bool(!f.noMinify)
	}
	if changed("surrounding-gutter") {
		o.SurroundingGutter = masonry.Bool(f.surrounding)
	}
	if changed("wedge") {
		o.Wedge = masonry.Bool(f.wedge)
	}
	return o, nil
}

// parseLengthFlag reads a bare number as pixels and anything else as a CSS
// length resolved later against the scene's document.
func parseLengthFlag(s string) (masonry.Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return masonry.Length{}, errors.New(errors.ErrCodeInvalidLength, "length cannot be empty")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return masonry.Px(v), nil
	}
	return masonry.CSS(s), nil
}

// loadScene reads the scene file named by args, or builds the sample scene
// when args is empty.
func loadScene(ctx context.Context, args []string, sample int) (*scene.Scene, error) {
	if len(args) == 0 {
		if sample <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--sample must be positive without a scene file")
		}
		return scene.Sample(sample, 1100), nil
	}

	path := args[0]
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()
	s, err := scene.Load(path)
	items := 0
	if s != nil {
		items = len(s.Items)
	}
	hooks.OnLoadComplete(ctx, path, items, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded scene", "path", path, "items", items)
	return s, nil
}

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	scene   sceneFlags
	output  string
	formats string
	guides  bool
	cols    int
	noCache bool
	refresh bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout [scene]",
		Short: "Place a scene and render it as SVG, JSON or text",
		Long: `Place the children of a scene file (.toml, .yaml or .json) into columns
and render the result. Without a file, a sample scene is used.

With a single format and no --output, the rendering is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args, &opts)
		},
	}

	opts.scene.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, text (comma-separated)")
	cmd.Flags().BoolVar(&opts.guides, "guides", false, "draw column guides in SVG output")
	cmd.Flags().IntVar(&opts.cols, "cols", 0, "text output width in characters")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, args []string, opts *layoutOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	s, err := loadScene(ctx, args, opts.scene.sample)
	if err != nil {
		return err
	}
	overrides, err := opts.scene.overrides(cmd)
	if err != nil {
		return err
	}
	formats := parseFormats(opts.formats)
	if opts.output == "" && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "multiple formats require --output")
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		Scene:     s,
		Width:     opts.scene.width,
		Overrides: overrides,
		Formats:   formats,
		Guides:    opts.guides,
		Cols:      opts.cols,
		Refresh:   opts.refresh,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Placed %d items in %d columns", res.Stats.Items, res.Stats.Columns))

	if opts.output == "" {
		_, err := os.Stdout.Write(res.Artifacts[formats[0]])
		return err
	}

	printSuccess("Laid out %s", s.Name)
	for _, format := range formats {
		path := outputPath(opts.output, format, len(formats) > 1)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printLayoutStats(res)
	if len(args) > 0 {
		printNextStep("Preview it live", fmt.Sprintf("%s preview %s", appName, args[0]))
	}
	return nil
}

// outputPath returns the file for format. With several formats, output is a
// base path and each format gets its own extension.
func outputPath(output, format string, multi bool) string {
	if !multi {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + format
}
