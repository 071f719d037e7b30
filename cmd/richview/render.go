// ABOUTME: render subcommand converts an HTML fragment from a file or stdin
// ABOUTME: Prints Markdown, JSON, elements or an ANSI terminal preview

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"v2ex-richview/api/dto/mappers"
	"v2ex-richview/core/domain"
	"v2ex-richview/pkg/config"
	"v2ex-richview/pkg/terminal"
	"v2ex-richview/richview"
)

// Output formats
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatANSI     = "ansi"
	formatElements = "elements"
)

type renderOptions struct {
	format   string
	profile  string
	lenient  bool
	noImages bool
	fallback bool
	color    string
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an HTML fragment",
		Long: `Render a topic or reply body. The fragment is read from the named file,
or from stdin when no file or "-" is given.

Examples:
  richview render reply.html
  curl -s https://www.v2ex.com/api/topics/show.json?id=1 | jq -r '.[0].content_rendered' | richview render -f ansi
  richview render --profile compact --lenient -f json reply.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", formatMarkdown, "output format (markdown, json, ansi, elements)")
	f.StringVar(&opts.profile, "profile", "", "render profile (default, compact); the configured profile when empty")
	f.BoolVar(&opts.lenient, "lenient", false, "degrade unsupported tags to text instead of failing")
	f.BoolVar(&opts.noImages, "no-images", false, "skip images and element extraction")
	f.BoolVar(&opts.fallback, "fallback", false, "print stripped plain text when rendering fails")
	f.StringVar(&opts.color, "color", "auto", "ANSI colors for --format ansi (auto, always, never)")

	return cmd
}

func (a *app) runRender(cmd *cobra.Command, args []string, opts renderOptions) error {
	switch opts.format {
	case formatMarkdown, formatJSON, formatANSI, formatElements:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	client, err := a.newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	cfg, err := config.ApplyProfile(client.Configuration(), opts.profile)
	if err != nil {
		return err
	}
	if opts.lenient {
		cfg.TagPolicy = domain.TagPolicyLenient
	}
	if opts.noImages {
		cfg.EnableImages = false
	}
	if opts.format == formatElements {
		cfg.EnableImages = true
	}

	result, err := client.RenderWith(cmd.Context(), input, cfg)
	if err != nil {
		if !opts.fallback {
			return err
		}
		result = richview.FallbackResult(input, cfg.Stylesheet)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case formatMarkdown:
		fmt.Fprintln(out, result.Markdown)
	case formatANSI:
		printer := terminal.NewPrinter(out, colorProfile(opts.color, out))
		fmt.Fprintln(out, printer.Render(result.StyledText))
	case formatJSON:
		return writeJSON(out, mappers.ToRenderResponse(result))
	case formatElements:
		return writeJSON(out, mappers.ToElementsResponse(result))
	}
	return nil
}

func colorProfile(mode string, out io.Writer) termenv.Profile {
	switch mode {
	case "always":
		return termenv.ANSI256
	case "never":
		return termenv.Ascii
	}
	return terminal.DetectProfile(out)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
