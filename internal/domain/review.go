package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the lifecycle status of a review session.
// Stored as a small integer; the values are part of the persisted layout.
type ReviewStatus int16

const (
	ReviewStatusPending   ReviewStatus = 0
	ReviewStatusCompleted ReviewStatus = 1
	ReviewStatusFailed    ReviewStatus = 2
)

func (s ReviewStatus) String() string {
	switch s {
	case ReviewStatusPending:
		return "PENDING"
	case ReviewStatusCompleted:
		return "COMPLETED"
	case ReviewStatusFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusCompleted, ReviewStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status is final. Terminal sessions are never
// re-opened; a retry means starting a new session.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusCompleted || s == ReviewStatusFailed
}

// ReviewSession is one review request's lifecycle record, independent of its
// eventual result. Exactly one terminal transition happens per session:
// pending -> completed or pending -> failed.
type ReviewSession struct {
	ID          uuid.UUID
	PostID      uuid.UUID
	UserID      uuid.UUID
	Status      ReviewStatus
	AutoApply   bool
	Meta        map[string]any
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// PipelineOutcome carries the per-stage outputs of one review pipeline run.
// A field is empty when its stage did not run: StyleIssues and IssueSummary
// stay empty when the technical verdict fails, SuggestedRevision and DiffView
// stay empty unless a rewrite was requested.
type PipelineOutcome struct {
	TechnicalIssues   string
	TechnicalPassed   bool
	StyleIssues       string
	IssueSummary      string
	SuggestedRevision string
	DiffView          string
}

// ReviewResult is the structured critique produced by a completed review
// session, written at most once, only on the completed transition. Empty
// fields mean the corresponding stage did not run.
type ReviewResult struct {
	ID                uuid.UUID
	SessionID         uuid.UUID
	IssueSummary      string
	TechnicalIssues   string
	StyleIssues       string
	SuggestedRevision string
	DiffView          string
	CreatedAt         time.Time
}
