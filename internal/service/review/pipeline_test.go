package review

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/inkwell-backend/internal/adapter/agent"
)

func newTestPipeline(gen *generatorMock) *Pipeline {
	return NewPipeline(slog.New(slog.DiscardHandler), gen)
}

func passingReport(body string) string {
	return body + "\n\n" + agent.VerdictPass
}

func failingReport(body string) string {
	return body + "\n\n" + agent.VerdictFail
}

func TestPipeline_Run_PassRunsAllStages(t *testing.T) {
	t.Parallel()

	gen := &generatorMock{
		TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
			assert.Equal(t, "Title", title)
			assert.Equal(t, "Body", body)
			return passingReport("tech report"), nil
		},
		StyleCheckFunc: func(ctx context.Context, title, body string) (string, error) {
			return "style report", nil
		},
		SummarizeFunc: func(ctx context.Context, technical, style string) (string, error) {
			assert.Equal(t, passingReport("tech report"), technical, "summarize receives the technical report")
			assert.Equal(t, "style report", style, "summarize receives the style report")
			return "summary", nil
		},
	}

	p := newTestPipeline(gen)
	out, err := p.Run(context.Background(), "Title", "Body")

	require.NoError(t, err)
	assert.True(t, out.TechnicalPassed)
	assert.Equal(t, passingReport("tech report"), out.TechnicalIssues)
	assert.Equal(t, "style report", out.StyleIssues)
	assert.Equal(t, "summary", out.IssueSummary)
	assert.Empty(t, out.SuggestedRevision, "review never rewrites")

	assert.Equal(t, 1, gen.TechnicalReviewCalls())
	assert.Equal(t, 1, gen.StyleCheckCalls())
	assert.Equal(t, 1, gen.SummarizeCalls())
	assert.Equal(t, 0, gen.RewriteCalls())
}

func TestPipeline_Run_FailStopsAfterTechnical(t *testing.T) {
	t.Parallel()

	gen := &generatorMock{
		TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
			return failingReport("broken code samples"), nil
		},
	}

	p := newTestPipeline(gen)
	out, err := p.Run(context.Background(), "Title", "Body")

	require.NoError(t, err, "a failed verdict is an outcome, not an error")
	assert.False(t, out.TechnicalPassed)
	assert.Equal(t, failingReport("broken code samples"), out.TechnicalIssues)
	assert.Empty(t, out.StyleIssues)
	assert.Empty(t, out.IssueSummary)

	assert.Equal(t, 0, gen.StyleCheckCalls(), "style must not run after a failed verdict")
	assert.Equal(t, 0, gen.SummarizeCalls(), "summarize must not run after a failed verdict")
}

func TestPipeline_Run_UnparseableVerdictStopsAfterTechnical(t *testing.T) {
	t.Parallel()

	gen := &generatorMock{
		TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
			return "a report with no verdict line at all", nil
		},
	}

	p := newTestPipeline(gen)
	out, err := p.Run(context.Background(), "Title", "Body")

	require.NoError(t, err)
	assert.False(t, out.TechnicalPassed, "unparseable verdict is fail-closed")
	assert.Equal(t, 0, gen.StyleCheckCalls())
}

func TestPipeline_Run_StageErrors(t *testing.T) {
	t.Parallel()

	genErr := errors.New("model unavailable")

	tests := []struct {
		name      string
		gen       *generatorMock
		wantStage string
	}{
		{
			name: "technical review fails",
			gen: &generatorMock{
				TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
					return "", genErr
				},
			},
			wantStage: StageTechnicalReview,
		},
		{
			name: "style check fails",
			gen: &generatorMock{
				TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
					return passingReport("ok"), nil
				},
				StyleCheckFunc: func(ctx context.Context, title, body string) (string, error) {
					return "", genErr
				},
			},
			wantStage: StageStyleCheck,
		},
		{
			name: "summarize fails",
			gen: &generatorMock{
				TechnicalReviewFunc: func(ctx context.Context, title, body string) (string, error) {
					return passingReport("ok"), nil
				},
				StyleCheckFunc: func(ctx context.Context, title, body string) (string, error) {
					return "style", nil
				},
				SummarizeFunc: func(ctx context.Context, technical, style string) (string, error) {
					return "", genErr
				},
			},
			wantStage: StageSummarize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestPipeline(tt.gen)
			_, err := p.Run(context.Background(), "Title", "Body")

			require.Error(t, err)
			require.ErrorIs(t, err, genErr)

			var pe *PipelineError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantStage, pe.Stage)
		})
	}
}

func TestPipeline_Rewrite(t *testing.T) {
	t.Parallel()

	gen := &generatorMock{
		RewriteFunc: func(ctx context.Context, title, body, technical, style string) (string, error) {
			assert.Equal(t, "tech findings", technical)
			assert.Equal(t, "style findings", style)
			return "revised body", nil
		},
	}

	p := newTestPipeline(gen)
	revision, err := p.Rewrite(context.Background(), "Title", "Body", "tech findings", "style findings")

	require.NoError(t, err)
	assert.Equal(t, "revised body", revision)
}

func TestPipeline_Rewrite_Error(t *testing.T) {
	t.Parallel()

	genErr := errors.New("model unavailable")
	gen := &generatorMock{
		RewriteFunc: func(ctx context.Context, title, body, technical, style string) (string, error) {
			return "", genErr
		},
	}

	p := newTestPipeline(gen)
	_, err := p.Rewrite(context.Background(), "Title", "Body", "", "")

	var pe *PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StageRewrite, pe.Stage)
	require.ErrorIs(t, err, genErr)
}

func TestDiffView(t *testing.T) {
	t.Parallel()

	diff := diffView("line one\nline two\n", "line one\nline 2\n")

	assert.Contains(t, diff, "-line two")
	assert.Contains(t, diff, "+line 2")
	assert.Contains(t, diff, "--- original")
	assert.Contains(t, diff, "+++ revised")
}

func TestDiffView_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Empty(t, diffView("same\n", "same\n"))
}
