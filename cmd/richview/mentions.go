// ABOUTME: mentions subcommand lists @username mentions in plain text
// ABOUTME: Text comes from the arguments or stdin

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"v2ex-richview/api/dto/mappers"
	"v2ex-richview/core/mention"
)

func newMentionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "mentions [text...]",
		Short: "List @username mentions in plain text",
		Long: `List @username mentions with their byte ranges. The text is the joined
arguments, or stdin when there are none.

Example:
  richview mentions "thanks @livid and @Kai"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				var err error
				if text, err = readInput(cmd, nil); err != nil {
					return err
				}
			}

			resp := mappers.ToMentionsResponse(mention.NewParser().FindMentions(text))
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			for _, m := range resp.Mentions {
				fmt.Fprintf(out, "%s\t%d-%d\n", m.Username, m.Range.Start, m.Range.End)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tab-separated lines")
	return cmd
}
