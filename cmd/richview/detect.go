// ABOUTME: detect subcommand guesses the programming language of a snippet
// ABOUTME: Reads the snippet from a file or stdin

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"v2ex-richview/core/language"
)

func newDetectCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Guess the programming language of a code snippet",
		Long: `Guess the programming language of a code snippet read from the named
file or stdin. Detection is heuristic; ambiguous snippets such as C that
includes a header may be reported as a related language.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, tag := range language.Languages() {
					fmt.Fprintf(out, "%s\t%s\n", tag, language.DisplayName(tag))
				}
				return nil
			}

			code, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tag, ok := language.NewDetector().Detect(code)
			if !ok {
				fmt.Fprintln(out, "unknown")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", tag, language.DisplayName(tag))
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the languages the detector knows")
	return cmd
}
