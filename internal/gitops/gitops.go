// Package gitops keeps a basbook project directory under git so imported
// CSVs and config changes have history.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author is used for commits basbook makes itself.
const (
	AuthorName  = "basbook"
	AuthorEmail = "basbook@localhost"
)

func git(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("git %s: %s: %w", subcommand(args), strings.TrimSpace(string(out)), err)
	}
	return out, nil
}

// subcommand returns the git verb in args, skipping leading "-c key=value"
// options.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Init creates a repository at dir unless one already exists.
func Init(ctx context.Context, dir string) error {
	if IsRepo(dir) {
		return nil
	}
	_, err := git(ctx, dir, "init", "--quiet")
	return err
}

// Commit stages everything under dir and commits it as Author. It returns
// the short hash of the new commit.
func Commit(ctx context.Context, dir, message string) (string, error) {
	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}
	if _, err := git(ctx, dir,
		"-c", "user.name="+AuthorName,
		"-c", "user.email="+AuthorEmail,
		"commit", "--quiet", "-m", message,
	); err != nil {
		return "", err
	}
	out, err := git(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir has its own .git directory.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
