package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/diff-review/internal/failure"
)

// testRepo is a throwaway repository driven through the git binary.
type testRepo struct {
	t   *testing.T
	dir string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := &testRepo{t: t, dir: t.TempDir()}
	r.git("init", "-q")
	return r
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@test.com",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func (r *testRepo) commit(file, content, msg string) string {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, file), []byte(content), 0o644))
	r.git("add", "-A")
	r.git("commit", "-q", "-m", msg)
	return r.git("rev-parse", "HEAD")
}

func TestHeadDiff_UsesParentWhenPresent(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit("main.go", "package main\n", "first")
	second := tr.commit("main.go", "package main\n\n// added line X\n", "second")

	d, err := New(RepoConfig{Path: tr.dir}).HeadDiff(context.Background())
	require.NoError(t, err)

	assert.False(t, d.Initial)
	assert.Equal(t, first, d.Base)
	assert.Equal(t, second, d.Head)
	assert.Contains(t, d.Text, "+// added line X")
	assert.NotContains(t, d.Text, "new file mode")
	assert.Equal(t, tr.git("diff", first, "HEAD")+"\n", d.Text)
}

func TestHeadDiff_FallsBackToEmptyTreeOnRootCommit(t *testing.T) {
	tr := newTestRepo(t)
	root := tr.commit("README.md", "héllo wörld\n", "root")

	d, err := New(RepoConfig{Path: tr.dir}).HeadDiff(context.Background())
	require.NoError(t, err)

	assert.True(t, d.Initial)
	assert.Equal(t, EmptyTreeSHA, d.Base)
	assert.Equal(t, root, d.Head)
	assert.Contains(t, d.Text, "new file mode")
	assert.Contains(t, d.Text, "+héllo wörld")
	assert.Equal(t, len(d.Text), d.Size())
}

func TestHeadDiff_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))

	_, err := New(RepoConfig{Path: dir}).HeadDiff(context.Background())
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.CategoryProcess))
	assert.NotEqual(t, exitNoSuchRevision, ExitCode(err))
}

func TestHeadDiff_NoCommits(t *testing.T) {
	tr := newTestRepo(t)

	_, err := New(RepoConfig{Path: tr.dir}).HeadDiff(context.Background())
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.CategoryProcess))
}

func TestParentSHA(t *testing.T) {
	tr := newTestRepo(t)
	first := tr.commit("a.txt", "a\n", "first")
	repo := New(RepoConfig{Path: tr.dir})

	_, ok, err := repo.ParentSHA(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	tr.commit("a.txt", "b\n", "second")
	sha, ok, err := repo.ParentSHA(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, sha)
}

func TestIdentity(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("a.txt", "a\n", "first")
	repo := New(RepoConfig{Path: tr.dir})

	assert.Empty(t, repo.Identity(context.Background()))

	tr.git("remote", "add", "origin", "https://github.com/roivaz/diff-review.git")
	assert.Equal(t, "github.com/roivaz/diff-review", repo.Identity(context.Background()))
}

func TestRunnerContextCanceled(t *testing.T) {
	tr := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Runner{Timeout: time.Minute}.Git(ctx, tr.dir, "status")
	require.Error(t, err)
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"status"}, ce.Args)
}

func TestCommandErrorFormat(t *testing.T) {
	err := &CommandError{Args: []string{"diff", "a", "b"}, ExitCode: 128, Stderr: "fatal: bad revision", Err: assert.AnError}
	assert.Equal(t, "git diff a b: "+assert.AnError.Error()+": fatal: bad revision", err.Error())
	assert.Equal(t, 128, ExitCode(err))
	assert.Equal(t, -1, ExitCode(assert.AnError))
}

func TestHeadSHA(t *testing.T) {
	tr := newTestRepo(t)
	repo := New(RepoConfig{Path: tr.dir})

	_, err := repo.HeadSHA(context.Background())
	require.Error(t, err, "unborn HEAD has no SHA")

	sha := tr.commit("a.txt", "a\n", "first")
	got, err := repo.HeadSHA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sha, got)
	assert.Len(t, got, 40)
}
