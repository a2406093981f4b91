package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/model"
)

var summaryNow = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

func TestBuildSummary_Empty(t *testing.T) {
	text := BuildSummary(nil, nil, summaryNow)
	assert.Contains(t, text, "15.10.2026")
	assert.Contains(t, text, "no tasks yet")
}

func TestBuildSummary_GroupsInCategoryOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Text: "Buy milk", Category: "Errands"},
		{ID: 2, Text: "Ship <release>", Category: "Work", Completed: true},
		{ID: 3, Text: "Write report", Category: "Work"},
		{ID: 4, Text: "Lost one", Category: "Gone"},
	}
	text := BuildSummary(tasks, []string{"Work", "Errands", "Home"}, summaryNow)

	work := indexOf(t, text, "<b>Work</b> · 1/2 done")
	errands := indexOf(t, text, "<b>Errands</b> · 0/1 done")
	home := indexOf(t, text, "<b>Home</b> · 0/0 done")
	orphans := indexOf(t, text, "<b>Uncategorized</b> · 0/1 done")
	assert.Less(t, work, errands)
	assert.Less(t, errands, home)
	assert.Less(t, home, orphans)

	assert.Contains(t, text, "⬜ Write report")
	assert.NotContains(t, text, "Ship")
	assert.Contains(t, text, "⬜ Lost one")
}

func TestSummaryService_ReadsStore(t *testing.T) {
	s, _ := newTestStore(t)
	_, _, err := s.AddTask(context.Background(), "a & b", "Home")
	require.NoError(t, err)

	text := NewSummaryService(s).Summary(summaryNow)
	assert.Contains(t, text, "⬜ a &amp; b")
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "missing %q in:\n%s", sub, s)
	return i
}
