package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/roster/internal/config"
	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/gitops"
	"github.com/cleared-dev/roster/internal/store"
)

const templateFile = "contacts-template.csv"

func newInitCommand() *cobra.Command {
	var name string
	var email string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new roster project",
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

			hash, err := runInit(cmd.Context(), absDir, name, email, useGit)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized roster project at %s (%s)\n", absDir, hash)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized roster project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&email, "email", "", "organization contact email")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the project directory with git")

	return cmd
}

// runInit creates the project skeleton. It returns the initial commit hash
// when useGit is set.
func runInit(ctx context.Context, dir, name, email string, useGit bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default(name)
	cfg.Organization.Email = email

	// Create directory structure.
	dirs := []string{
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
		cfg.Export.Dir,
		"logs",
		"templates",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	if err := writeTemplate(filepath.Join(dir, "templates", templateFile)); err != nil {
		return "", err
	}

	gitignore := cfg.Export.Dir + "/\n" + cfg.Database.Path + "*\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Import.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}

	db, err := store.Open(config.Resolve(dir, cfg.Database.Path))
	if err != nil {
		return "", fmt.Errorf("creating database: %w", err)
	}
	if err := db.Close(); err != nil {
		return "", fmt.Errorf("closing database: %w", err)
	}

	if !useGit {
		return "", nil
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return "", err
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, gitAuthor(cfg))
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}

func writeTemplate(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating template: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing template: %w", cerr)
		}
	}()
	return contacts.WriteTemplate(f)
}
