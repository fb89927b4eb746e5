package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/cleared-dev/roster/internal/config"
	"github.com/cleared-dev/roster/internal/gitops"
	"github.com/cleared-dev/roster/internal/logging"
	"github.com/cleared-dev/roster/internal/store"
)

// project is an opened roster project directory.
type project struct {
	dir string
	cfg *config.Config
	db  *store.DB
	log *slog.Logger
}

// openProject loads roster.yaml, sets up logging and opens the database.
// Callers must Close the result.
func openProject(opts *rootOptions, logOut io.Writer) (*project, error) {
	dir, err := filepath.Abs(opts.project)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading project at %s (run roster init first): %w", dir, err)
	}

	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logging.New(level, cfg.Log.Format, logOut)

	db, err := store.Open(config.Resolve(dir, cfg.Database.Path))
	if err != nil {
		return nil, err
	}
	log.Debug("project opened", "component", "commands", "dir", dir, "database", cfg.Database.Path)

	return &project{dir: dir, cfg: cfg, db: db, log: log}, nil
}

func (p *project) Close() error {
	return p.db.Close()
}

func (p *project) path(rel string) string {
	return config.Resolve(p.dir, rel)
}

// commit records the project's working tree when it is a git repository
// with auto-commit enabled.
func (p *project) commit(ctx context.Context, message string) error {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.dir) {
		return nil
	}
	hash, err := gitops.CommitAll(ctx, p.dir, message, gitAuthor(p.cfg))
	if err != nil {
		return err
	}
	if hash != "" {
		p.log.Info("committed project changes", "component", "commands", "commit", hash)
	}
	return nil
}

func gitAuthor(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
