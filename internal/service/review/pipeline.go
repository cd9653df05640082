// Package review implements the agent review workflow: the staged critique
// pipeline and the session manager that persists its outcome.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/inkwell-backend/internal/domain"
)

// Pipeline stage names, used in error reporting and logs.
const (
	StageTechnicalReview = "technical_review"
	StageStyleCheck      = "style_check"
	StageSummarize       = "summarize"
	StageRewrite         = "rewrite"
)

// Generator is the generation capability the pipeline runs on. Each method is
// one model call; implementations bound the call with their own timeout.
type Generator interface {
	TechnicalReview(ctx context.Context, title, body string) (string, error)
	StyleCheck(ctx context.Context, title, body string) (string, error)
	Summarize(ctx context.Context, technical, style string) (string, error)
	Rewrite(ctx context.Context, title, body, technical, style string) (string, error)
}

// PipelineError reports which stage of a pipeline run failed.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Pipeline runs the staged review flow:
//
//	TechnicalReview -> verdict? -> StyleCheck -> Summarize
//	                     fail --> stop
//
// A failed verdict is a normal outcome, not an error; the later stages simply
// do not run. Stages are never retried here, a stage error aborts the run.
type Pipeline struct {
	log *slog.Logger
	gen Generator
}

// NewPipeline creates a review pipeline over a generator.
func NewPipeline(log *slog.Logger, gen Generator) *Pipeline {
	return &Pipeline{
		log: log.With("service", "review-pipeline"),
		gen: gen,
	}
}

// Run executes the review flow for one article and returns the accumulated
// outcome. On error the outcome carries whatever stages completed before the
// failure.
func (p *Pipeline) Run(ctx context.Context, title, body string) (domain.PipelineOutcome, error) {
	var out domain.PipelineOutcome

	technical, err := p.gen.TechnicalReview(ctx, title, body)
	if err != nil {
		return out, &PipelineError{Stage: StageTechnicalReview, Err: err}
	}
	out.TechnicalIssues = technical
	out.TechnicalPassed = parseVerdict(technical)

	if !out.TechnicalPassed {
		p.log.InfoContext(ctx, "technical verdict failed, skipping style and summary")
		return out, nil
	}

	style, err := p.gen.StyleCheck(ctx, title, body)
	if err != nil {
		return out, &PipelineError{Stage: StageStyleCheck, Err: err}
	}
	out.StyleIssues = style

	summary, err := p.gen.Summarize(ctx, out.TechnicalIssues, out.StyleIssues)
	if err != nil {
		return out, &PipelineError{Stage: StageSummarize, Err: err}
	}
	out.IssueSummary = summary

	return out, nil
}

// Rewrite runs the standalone rewrite stage. The technical and style findings
// may be empty when no review preceded the rewrite.
func (p *Pipeline) Rewrite(ctx context.Context, title, body, technical, style string) (string, error) {
	revision, err := p.gen.Rewrite(ctx, title, body, technical, style)
	if err != nil {
		return "", &PipelineError{Stage: StageRewrite, Err: err}
	}
	return revision, nil
}

// StyleCheck runs the standalone style stage.
func (p *Pipeline) StyleCheck(ctx context.Context, title, body string) (string, error) {
	style, err := p.gen.StyleCheck(ctx, title, body)
	if err != nil {
		return "", &PipelineError{Stage: StageStyleCheck, Err: err}
	}
	return style, nil
}
