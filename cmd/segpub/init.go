package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a segpub.toml with default settings",
	Long: `Init writes a segpub.toml with the default check and output settings into
[path], or the current directory when it is omitted. The directory is created
if it does not exist. An existing segpub.toml is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath := filepath.Join(target, configFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}

	rel := configPath
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, configPath); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", rel)
	return nil
}

// defaultConfig lists every key with its built-in value.
const defaultConfig = `# segpub settings; command-line flags take precedence.

[check]
format = "pretty" # pretty | json | short
jobs = 0          # 0 = one worker per CPU
cache = false
ui = "auto"       # auto | on | off

[output]
color = "auto"     # auto | on | off
path_mode = "auto" # auto | absolute | relative | basename
`
