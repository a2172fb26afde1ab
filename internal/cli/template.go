package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/paperclip/internal/model"
	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Todo templates",
}

func init() {
	templateCmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List templates usable with 'add --template'",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range model.BuiltinTemplates() {
				var labels []string
				for _, tag := range t.Tags {
					labels = append(labels, "#"+tag)
				}
				for _, c := range t.Contexts {
					labels = append(labels, "@"+c)
				}
				line := fmt.Sprintf("%-14s %s", t.Name, strings.Join(labels, " "))
				if t.Priority > 0 {
					line += fmt.Sprintf(" !%d", t.Priority)
				}
				if t.Recurrence != nil {
					line += " ↻ " + strings.ToLower(t.Recurrence.String())
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	})
}
