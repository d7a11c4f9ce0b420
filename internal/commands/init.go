package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/basbook/internal/config"
	"github.com/cleared-dev/basbook/internal/gitops"
	"github.com/cleared-dev/basbook/internal/importer"
)

func newInitCommand() *cobra.Command {
	var name string
	var abn string
	var variant string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new basbook project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, abn, variant); err != nil {
				return err
			}
			if !useGit {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized basbook project at %s\n", absDir)
				return nil
			}

			ctx := cmd.Context()
			if err := gitops.Init(ctx, absDir); err != nil {
				return err
			}
			hash, err := gitops.Commit(ctx, absDir, "init: Initialize "+name)
			if err != nil {
				return fmt.Errorf("initial commit: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized basbook project at %s (%s)\n", absDir, hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&abn, "abn", "", "Australian Business Number")
	cmd.Flags().StringVar(&variant, "variant", "standard", "default normalization variant")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the new project")

	return cmd
}

func runInit(dir, name, abn, variant string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	if _, err := importer.DefaultRegistry(importer.Options{}).Lookup(variant); err != nil {
		return err
	}

	cfg := config.Default(name)
	cfg.Business.ABN = abn
	cfg.Import.Variant = variant

	// Create the import directory.
	if err := os.MkdirAll(filepath.Join(dir, cfg.Import.Dir), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.Import.Dir, err)
	}

	// Write basbook.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
