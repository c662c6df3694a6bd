package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"apisect/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter " + config.FileName,
	Long: `Write a commented apisect.toml manifest into [dir], or the current directory
when omitted. The directory is created if it does not exist.`,
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

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(config.Template), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	rel := manifestPath
	if wd, err := os.Getwd(); err == nil {
		if r, err := filepath.Rel(wd, manifestPath); err == nil {
			rel = r
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", rel)
	return nil
}
