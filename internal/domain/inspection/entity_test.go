package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := t0

	tests := []struct {
		name   string
		status Status
		due    time.Time
		want   Status
	}{
		{"pending not yet due", StatusPending, now.Add(time.Hour), StatusPending},
		{"pending past due", StatusPending, now.Add(-time.Minute), StatusOverdue},
		{"in progress past due", StatusInProgress, now.Add(-time.Minute), StatusOverdue},
		{"completed past due", StatusCompleted, now.Add(-24 * time.Hour), StatusCompleted},
		{"due exactly now", StatusPending, now, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Status: tt.status, DueAt: tt.due}
			assert.Equal(t, tt.want, DeriveStatus(s, now))
			assert.Equal(t, tt.status, s.Status, "derivation never mutates")
		})
	}
}

func TestNewChecklist(t *testing.T) {
	items := NewChecklist(DefaultChecklist)
	assert.Len(t, items, 8)
	seen := map[string]bool{}
	for i, it := range items {
		assert.Equal(t, DefaultChecklist[i], it.Name)
		assert.Equal(t, ItemPending, it.Status)
		assert.False(t, seen[it.ID], "ids are unique")
		seen[it.ID] = true
	}
}

func TestClone_IsDeep(t *testing.T) {
	started := t0
	s := &Session{Checklist: NewChecklist([]string{"Horn"}), StartedAt: &started}
	c := s.Clone()
	c.Checklist[0].Status = ItemOK
	*c.StartedAt = t0.Add(time.Hour)

	assert.Equal(t, ItemPending, s.Checklist[0].Status)
	assert.Equal(t, t0, *s.StartedAt)
}
