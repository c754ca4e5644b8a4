package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sqlsentry/sqlsentry/internal/cli/output"
	"github.com/sqlsentry/sqlsentry/pkg/lint"
	_ "github.com/sqlsentry/sqlsentry/pkg/lint/rules" // register rules
)

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available lint rules",
		Long: `List every registered lint rule, or show the full documentation for
one rule by its ID, including rationale and examples.`,
		Example: `  # List all rules
  sqlsentry rules

  # Show the documentation for one rule
  sqlsentry rules E3

  # Machine-readable listing
  sqlsentry rules --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := output.FromContext(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if format != "" {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
			}
			if len(args) == 1 {
				return renderRuleDetail(r, args[0])
			}
			return renderRuleList(r)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func renderRuleList(r *output.Renderer) error {
	rules := lint.All()

	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]lint.RuleInfo, 0, len(rules))
		for _, rule := range rules {
			infos = append(infos, rule.Info())
		}
		return r.JSON(infos)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Group", "Severity", "Description"})
	for _, rule := range rules {
		t.AppendRow(table.Row{rule.ID, rule.Name, rule.Group, rule.Severity.String(), rule.Description})
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(t.RenderMarkdown())
	} else {
		t.SetStyle(table.StyleRounded)
		r.Println(t.Render())
	}
	r.Printf("\n%d rules registered. Run 'sqlsentry rules <id>' for details.\n", len(rules))
	return nil
}

func renderRuleDetail(r *output.Renderer, id string) error {
	rule, ok := lint.GetByID(strings.ToUpper(strings.TrimSpace(id)))
	if !ok {
		return fmt.Errorf("unknown rule %q", id)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rule.Info())
	}

	s := r.Styles()
	r.Printf("%s %s\n", s.Bold.Render(rule.ID), s.Bold.Render(rule.Name))
	r.Printf("%s  %s %s  %s %s\n\n",
		rule.Description,
		s.Muted.Render("group:"), rule.Group,
		s.Muted.Render("severity:"), rule.Severity.String(),
	)
	if rule.Rationale != "" {
		r.Println(s.Bold.Render("Why"))
		r.Printf("%s\n\n", rule.Rationale)
	}
	if rule.BadExample != "" {
		r.Println(s.Error.Render("Bad"))
		r.Printf("%s\n\n", indent(rule.BadExample))
	}
	if rule.GoodExample != "" {
		r.Println(s.Good.Render("Good"))
		r.Printf("%s\n\n", indent(rule.GoodExample))
	}
	if rule.Fix != "" {
		r.Println(s.Bold.Render("Fix"))
		r.Printf("%s\n", rule.Fix)
	}
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
