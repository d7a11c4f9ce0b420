package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not available")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestInit_ExistingRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))
	require.NoError(t, Init(context.Background(), dir))
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Init(ctx, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "basbook.yaml"), []byte("business:\n  name: Test\n"), 0o644))

	hash, err := Commit(ctx, dir, "init: Test")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: Test|basbook <basbook@localhost>")
}

func TestCommit_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, Init(ctx, dir))

	_, err := Commit(ctx, dir, "empty")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "git commit: "), err.Error())
	assert.NotContains(t, err.Error(), "git -c")
}

func TestSubcommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"init", "--quiet"}, "init"},
		{[]string{"-c", "user.name=basbook", "-c", "user.email=x", "commit", "-m", "msg"}, "commit"},
		{[]string{"-c", "user.name=basbook"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, subcommand(tt.args), "%v", tt.args)
	}
}
