// Package gitops versions a project directory with the git binary.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies who commits project changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) env() []string {
	return []string{
		"GIT_AUTHOR_NAME=" + a.Name,
		"GIT_AUTHOR_EMAIL=" + a.Email,
		"GIT_COMMITTER_NAME=" + a.Name,
		"GIT_COMMITTER_EMAIL=" + a.Email,
	}
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	if _, err := git(ctx, dir, nil, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages every change and commits it as author. It returns the
// short commit hash, or "" when the tree had nothing to commit.
func CommitAll(ctx context.Context, dir, message string, author Author) (string, error) {
	if _, err := git(ctx, dir, nil, "add", "-A"); err != nil {
		return "", err
	}

	status, err := git(ctx, dir, nil, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", nil
	}

	if _, err := git(ctx, dir, author.env(), "commit", "--quiet", "-m", message); err != nil {
		return "", err
	}
	return git(ctx, dir, nil, "rev-parse", "--short", "HEAD")
}

func git(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}
