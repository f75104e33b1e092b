package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/templater"
)

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name     string `json:"name" yaml:"name"`
	Keywords int    `json:"keywords" yaml:"keywords"`
	Default  bool   `json:"default" yaml:"default"`
}

// DialectsOutput is the structured output of the dialects command.
type DialectsOutput struct {
	Dialects   []DialectInfo `json:"dialects" yaml:"dialects"`
	Templaters []string      `json:"templaters" yaml:"templaters"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List available dialects and templaters",
		Long:  `List the SQL dialects and templaters that can be selected with --dialect and --templater.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContext(cmd, "").Renderer

			out := DialectsOutput{Templaters: templater.List()}
			for _, name := range dialect.List() {
				info := DialectInfo{Name: name, Default: name == core.DefaultDialect}
				if d, ok := dialect.Get(name); ok {
					info.Keywords = len(d.Keywords())
				}
				out.Dialects = append(out.Dialects, info)
			}

			if ok, err := r.Structured(out); ok {
				return err
			}

			r.Header(1, "Dialects")
			rows := make([]table.Row, 0, len(out.Dialects))
			for _, d := range out.Dialects {
				name := d.Name
				if d.Default {
					name += " (default)"
				}
				rows = append(rows, table.Row{name, d.Keywords})
			}
			r.Table(table.Row{"Dialect", "Keywords"}, rows)
			r.Println("")

			r.Header(2, "Templaters")
			for _, name := range out.Templaters {
				r.StatusLine(name, "available", "")
			}
			return nil
		},
	}
}
