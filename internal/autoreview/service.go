package autoreview

import (
	"context"
	"fmt"
	"strings"

	"github.com/roivaz/diff-review/internal/failure"
	"github.com/roivaz/diff-review/internal/gitrepo"
	"github.com/roivaz/diff-review/internal/logging"
	"github.com/roivaz/diff-review/internal/report"
	"github.com/roivaz/diff-review/internal/review"
)

// DiffSource produces the change to review.
type DiffSource interface {
	HeadDiff(ctx context.Context) (gitrepo.Diff, error)
}

// Reviewer turns diff text into review text.
type Reviewer interface {
	Review(ctx context.Context, diff string) (string, error)
}

// ReportSink persists the review and returns where it went.
type ReportSink interface {
	Write(text string) (string, error)
}

type identifier interface {
	Identity(ctx context.Context) string
}

type Option func(*Service)

func WithDiffSource(d DiffSource) Option { return func(s *Service) { s.diffs = d } }
func WithReviewer(r Reviewer) Option     { return func(s *Service) { s.reviewer = r } }
func WithReportSink(w ReportSink) Option { return func(s *Service) { s.sink = w } }

// Service runs one review: diff, request, write.
type Service struct {
	cfg      Config
	log      logging.Logger
	diffs    DiffSource
	reviewer Reviewer
	sink     ReportSink
	state    State
}

func New(cfg Config, opts ...Option) *Service {
	s := &Service{cfg: cfg, log: logging.New(cfg.Logger).WithName("autoreview")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) State() State { return s.state }

// Run checks the credential and then extracts, reviews and saves in order.
// Nothing runs when the credential is missing. Any error ends the run.
func (s *Service) Run(ctx context.Context) error {
	if s.state != StateIdle {
		return fmt.Errorf("review run already %s", s.state)
	}

	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return s.fail(failure.Configf("%s is not set in environment variables", CredentialEnv))
	}
	s.advance(StateCredentialChecked)

	if err := s.ensureComponents(); err != nil {
		return s.fail(err)
	}

	if id, ok := s.diffs.(identifier); ok {
		if repo := id.Identity(ctx); repo != "" {
			s.log = s.log.WithValues("repo", repo)
		}
	}

	s.log.Info("obtaining git diff")
	diff, err := s.diffs.HeadDiff(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.log.Info("diff obtained", "head", diff.Head, "base", diff.Base, "initial_commit", diff.Initial, "bytes", diff.Size())
	s.advance(StateDiffObtained)

	s.log.Info("generating code review", "model", s.cfg.Model)
	text, err := s.reviewer.Review(ctx, diff.Text)
	if err != nil {
		return s.fail(err)
	}
	s.advance(StateReviewObtained)

	path, err := s.sink.Write(text)
	if err != nil {
		return s.fail(err)
	}
	s.log.Info("review report saved", "path", path)
	s.advance(StateReportSaved)

	s.log.Info("code review completed successfully")
	return nil
}

func (s *Service) ensureComponents() error {
	if s.diffs == nil {
		s.diffs = gitrepo.New(gitrepo.RepoConfig{Path: s.cfg.RepoPath, Timeout: s.cfg.GitTimeout})
	}
	if s.reviewer == nil {
		r, err := review.NewRequester(review.Config{
			APIKey:          s.cfg.APIKey,
			BaseURL:         s.cfg.BaseURL,
			ModelName:       s.cfg.Model,
			CallTimeout:     s.cfg.LLMCallTimeout,
			MaxPromptTokens: s.cfg.MaxPromptTokens,
			Logger:          s.log.Logr(),
		})
		if err != nil {
			return err
		}
		s.reviewer = r
	}
	if s.sink == nil {
		s.sink = report.NewWriter(s.cfg.OutputPath)
	}
	return nil
}

func (s *Service) advance(next State) {
	s.log.Debug("state transition", "from", s.state.String(), "to", next.String())
	s.state = next
}

func (s *Service) fail(err error) error {
	reason, category := failure.Details(err)
	s.log.Error(err, "code review failed", "state", s.state.String(), "category", string(category), "reason", reason)
	s.state = StateFailed
	return err
}
