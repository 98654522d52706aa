package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gitsight/go-vcsurl"

	"github.com/roivaz/diff-review/internal/failure"
)

// EmptyTreeSHA is the object id git assigns to a tree with no entries. Diffing
// against it yields the full content of a root commit.
const EmptyTreeSHA = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// exitNoSuchRevision is what `rev-parse --verify --quiet` returns for a
// revision that does not resolve inside a valid repository.
const exitNoSuchRevision = 1

type RepoConfig struct {
	Path    string
	Remote  string // default: origin
	Timeout time.Duration
}

type Repo struct {
	cfg    RepoConfig
	runner Runner
}

func New(cfg RepoConfig) *Repo {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if cfg.Path == "" {
		cfg.Path = "."
	}
	return &Repo{cfg: cfg, runner: Runner{Timeout: cfg.Timeout}}
}

// Runner executes git. A zero Timeout leaves the process unbounded apart from ctx.
type Runner struct {
	Timeout time.Duration
}

// CommandError describes a git invocation that could not start or exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int // -1 when the process never produced an exit status
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return fmt.Sprintf("git %s: %v: %s", cmd, e.Err, e.Stderr)
	}
	return fmt.Sprintf("git %s: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

func (r Runner) Git(ctx context.Context, dir string, args ...string) (string, error) {
	c := exec.CommandContext(ctx, "git", args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Start(); err != nil {
		return "", formatGitError(args, err, stderr.String())
	}

	var timeout <-chan time.Time
	if r.Timeout > 0 {
		timer := time.NewTimer(r.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			return "", formatGitError(args, err, stderr.String())
		}
		return stdout.String(), nil
	case <-timeout:
		_ = c.Process.Kill()
		<-done
		return "", formatGitTimeoutError(args, r.Timeout, stderr.String())
	case <-ctx.Done():
		_ = c.Process.Kill()
		<-done
		return "", formatGitContextError(args, ctx.Err(), stderr.String())
	}
}

func formatGitError(args []string, cause error, stderr string) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(cause, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{
		Args:     append([]string(nil), args...),
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr),
		Err:      cause,
	}
}

func formatGitTimeoutError(args []string, timeout time.Duration, stderr string) error {
	return formatGitError(args, fmt.Errorf("command timed out after %s", timeout), stderr)
}

func formatGitContextError(args []string, cause error, stderr string) error {
	if cause == nil {
		cause = errors.New("context canceled")
	}
	return formatGitError(args, cause, stderr)
}

// ExitCode reports the exit status carried by a git error, or -1.
func ExitCode(err error) int {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.ExitCode
	}
	return -1
}

// Run is a helper to execute arbitrary git subcommands in the repo path.
func (r *Repo) Run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Git(ctx, r.cfg.Path, args...)
}

func (r *Repo) HeadSHA(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ParentSHA resolves HEAD's first parent. ok is false when HEAD is a root
// commit; err is only set for failures other than a missing parent.
func (r *Repo) ParentSHA(ctx context.Context) (sha string, ok bool, err error) {
	out, err := r.Run(ctx, "rev-parse", "--verify", "--quiet", "HEAD~1^{commit}")
	if err != nil {
		if ExitCode(err) == exitNoSuchRevision {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(out), true, nil
}

// Diff returns the textual diff between two revisions exactly as git prints it.
func (r *Repo) Diff(ctx context.Context, base, head string) (string, error) {
	return r.Run(ctx, "diff", base, head)
}

// RemoteURL returns the fetch URL of the configured remote.
func (r *Repo) RemoteURL(ctx context.Context) (string, error) {
	out, err := r.Run(ctx, "remote", "get-url", r.cfg.Remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Identity names the repository for log context, e.g. "github.com/owner/name".
// A repository without the configured remote yields "".
func (r *Repo) Identity(ctx context.Context) string {
	raw, err := r.RemoteURL(ctx)
	if err != nil || raw == "" {
		return ""
	}
	info, err := vcsurl.Parse(raw)
	if err != nil {
		return raw
	}
	return info.ID
}

// HeadDiff diffs HEAD against its parent, or against the empty tree when HEAD
// is the first commit of the repository. HEAD is resolved once so Head names
// the exact commit reviewed.
func (r *Repo) HeadDiff(ctx context.Context) (Diff, error) {
	parent, ok, err := r.ParentSHA(ctx)
	if err != nil {
		return Diff{}, failure.Wrap(failure.CategoryProcess, "resolve parent of HEAD", err)
	}

	head, err := r.HeadSHA(ctx)
	if err != nil {
		return Diff{}, failure.Wrap(failure.CategoryProcess, "resolve HEAD", err)
	}

	d := Diff{Base: parent, Head: head}
	if !ok {
		d.Base = EmptyTreeSHA
		d.Initial = true
	}

	text, err := r.Diff(ctx, d.Base, d.Head)
	if err != nil {
		return Diff{}, failure.Wrap(failure.CategoryProcess, "diff HEAD", err)
	}
	d.Text = text
	return d, nil
}
