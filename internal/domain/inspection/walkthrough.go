// internal/domain/inspection/walkthrough.go
package inspection

import (
	"fmt"
	"strings"
	"time"

	xerrors "ptieasy-service/internal/pkg/errors"
)

// AbandonPolicy decides what happens to recorded answers when a driver
// leaves a walkthrough before the last item.
type AbandonPolicy string

const (
	// AbandonDiscard drops every recorded answer and returns the session
	// to pending.
	AbandonDiscard AbandonPolicy = "discard"
	// AbandonKeep persists the answers so far; the next start resumes at
	// the first pending item.
	AbandonKeep AbandonPolicy = "keep"
)

var (
	ErrNotStartable        = fmt.Errorf("%w: session cannot be started", xerrors.ErrConflict)
	ErrWalkthroughComplete = fmt.Errorf("%w: walkthrough already completed", xerrors.ErrConflict)
	ErrEmptyChecklist      = fmt.Errorf("%w: session has no checklist items", xerrors.ErrInvalidInput)
	ErrInvalidResponse     = fmt.Errorf("%w: response must be ok or not_ok", xerrors.ErrInvalidInput)
	ErrCommentRequired     = fmt.Errorf("%w: a comment is required when an item is not ok", xerrors.ErrInvalidInput)
	ErrUnknownPolicy       = fmt.Errorf("%w: unknown abandon policy", xerrors.ErrInvalidInput)
)

// ParseAbandonPolicy validates a configured policy name; empty means discard.
func ParseAbandonPolicy(raw string) (AbandonPolicy, error) {
	switch AbandonPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", AbandonDiscard:
		return AbandonDiscard, nil
	case AbandonKeep:
		return AbandonKeep, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, raw)
	}
}

type WalkthroughOptions struct {
	RequireIssueComment bool
}

// Walkthrough steps a driver through a session checklist one item at a time.
// It owns a private copy of the session; callers persist Session() when the
// walkthrough completes or is abandoned.
type Walkthrough struct {
	session *Session
	index   int
	done    bool
	opts    WalkthroughOptions
}

// Step is a snapshot of walkthrough progress.
type Step struct {
	SessionID      string         `json:"session_id"`
	Status         Status         `json:"status"`
	Index          int            `json:"index"`
	Total          int            `json:"total"`
	CompletedItems int            `json:"completed_items"`
	Progress       float64        `json:"progress"`
	Done           bool           `json:"done"`
	IssueCount     int            `json:"issue_count"`
	Current        *ChecklistItem `json:"current,omitempty"`
}

// StartWalkthrough opens a walkthrough on s. Pending sessions start at the
// first item; in-progress sessions with kept answers resume at the first
// pending item.
func StartWalkthrough(s *Session, now time.Time, opts WalkthroughOptions) (*Walkthrough, error) {
	if len(s.Checklist) == 0 {
		return nil, ErrEmptyChecklist
	}
	if s.Status != StatusPending && s.Status != StatusInProgress {
		return nil, ErrNotStartable
	}

	index := -1
	for i, it := range s.Checklist {
		if it.Status == ItemPending {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, ErrNotStartable
	}

	cp := s.Clone()
	cp.Status = StatusInProgress
	if cp.StartedAt == nil {
		t := now
		cp.StartedAt = &t
	}

	return &Walkthrough{session: cp, index: index, opts: opts}, nil
}

// Respond records status for the current item and advances exactly one item.
// Answering the last item completes the session.
func (w *Walkthrough) Respond(status ItemStatus, comment, photoRef string, now time.Time) (Step, error) {
	if w.done {
		return w.Step(), ErrWalkthroughComplete
	}
	if status != ItemOK && status != ItemNotOK {
		return w.Step(), ErrInvalidResponse
	}

	comment = strings.TrimSpace(comment)
	if status == ItemNotOK && comment == "" && w.opts.RequireIssueComment {
		return w.Step(), ErrCommentRequired
	}

	item := &w.session.Checklist[w.index]
	item.Status = status
	item.PhotoRef = strings.TrimSpace(photoRef)
	if status == ItemNotOK {
		item.Comment = comment
	} else {
		item.Comment = ""
	}

	if w.index == len(w.session.Checklist)-1 {
		t := now
		w.session.Status = StatusCompleted
		w.session.CompletedAt = &t
		w.session.IssueCount = CountIssues(w.session.Checklist)
		w.done = true
	} else {
		w.index++
	}

	return w.Step(), nil
}

// Abandon closes an unfinished walkthrough and returns the session state to
// persist under policy.
func (w *Walkthrough) Abandon(policy AbandonPolicy) (*Session, error) {
	if w.done {
		return nil, ErrWalkthroughComplete
	}

	switch policy {
	case AbandonKeep:
		w.session.IssueCount = CountIssues(w.session.Checklist)
	case AbandonDiscard:
		for i := range w.session.Checklist {
			w.session.Checklist[i].Status = ItemPending
			w.session.Checklist[i].Comment = ""
			w.session.Checklist[i].PhotoRef = ""
		}
		w.session.Status = StatusPending
		w.session.StartedAt = nil
		w.session.IssueCount = 0
	default:
		return nil, ErrUnknownPolicy
	}

	w.done = true
	return w.session.Clone(), nil
}

// Step reports the current position.
func (w *Walkthrough) Step() Step {
	total := len(w.session.Checklist)
	st := Step{
		SessionID:      w.session.ID,
		Status:         w.session.Status,
		Index:          w.index,
		Total:          total,
		CompletedItems: CountAnswered(w.session.Checklist),
		Done:           w.done,
		IssueCount:     CountIssues(w.session.Checklist),
	}

	if w.session.Status == StatusCompleted {
		st.Progress = 100
		return st
	}

	st.Progress = float64(w.index) / float64(total) * 100
	if !w.done {
		cur := w.session.Checklist[w.index]
		st.Current = &cur
	}
	return st
}

// Done reports whether the walkthrough accepts no more responses.
func (w *Walkthrough) Done() bool { return w.done }

// Session returns a copy of the walkthrough's session state.
func (w *Walkthrough) Session() *Session { return w.session.Clone() }
