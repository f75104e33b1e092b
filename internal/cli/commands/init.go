package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlint/internal/cli/output"
	intconfig "github.com/leapstack-labs/sqlint/internal/config"
)

const configHeader = "# sqlint configuration. Keys can be overridden with SQLINT_* environment variables.\n"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var useTOML bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default configuration file",
		Long: `Write a configuration file holding the default settings.

This creates .sqlint.yaml (or .sqlint.toml with --toml) in the target
directory. sqlint finds it from that directory and any directory below.`,
		Example: `  # Initialize in current directory
  sqlint init

  # Initialize a TOML config in another directory
  sqlint init warehouse --toml

  # Force overwrite existing config
  sqlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContext(cmd, "").Renderer
			return runInit(r, dir, useTOML, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&useTOML, "toml", false, "Write TOML instead of YAML")

	return cmd
}

func runInit(r *output.Renderer, dir string, useTOML, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if existing := intconfig.FindConfigFile(dir); existing != "" && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", existing)
	}

	name := intconfig.ConfigFileName
	if useTOML {
		name = intconfig.ConfigFileNameTOML
	}
	data, err := encodeDefaults(useTOML)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.StatusLine(path, "success", "")
	r.Println("")
	r.Success("sqlint configuration initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Set 'dialect' to match your warehouse")
	r.Println("  2. Run 'sqlint lint' to check your SQL")
	r.Println("  3. Run 'sqlint fix' to apply fixes")

	return nil
}

func encodeDefaults(useTOML bool) ([]byte, error) {
	defaults := intconfig.Defaults()

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	if useTOML {
		if err := toml.NewEncoder(&buf).Encode(defaults); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(defaults); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
