package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"tasklist/internal/model"
)

const uncategorizedLabel = "Uncategorized"

// SummaryService builds human-readable summaries of the task list.
type SummaryService struct {
	store *TaskStore
}

func NewSummaryService(store *TaskStore) *SummaryService {
	return &SummaryService{store: store}
}

// Summary renders the current state of the store.
func (s *SummaryService) Summary(now time.Time) string {
	return BuildSummary(s.store.Tasks(), s.store.Categories(), now)
}

// BuildSummary groups tasks by category in category order and lists the open
// ones. Tasks whose category is missing are shown under a separate heading.
func BuildSummary(tasks []model.Task, categories []string, now time.Time) string {
	groups := make(map[string][]model.Task, len(categories))
	known := make(map[string]bool, len(categories))
	for _, name := range categories {
		known[name] = true
	}
	var orphans []model.Task
	for _, task := range tasks {
		if !known[task.Category] {
			orphans = append(orphans, task)
			continue
		}
		groups[task.Category] = append(groups[task.Category], task)
	}

	var builder strings.Builder
	builder.WriteString("📋 <b>Task summary</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format("02.01.2006")))

	if len(tasks) == 0 {
		builder.WriteString("— no tasks yet\n")
		return strings.TrimSpace(builder.String())
	}

	for _, name := range categories {
		writeGroup(&builder, name, groups[name])
	}
	if len(orphans) > 0 {
		writeGroup(&builder, uncategorizedLabel, orphans)
	}

	return strings.TrimSpace(builder.String())
}

func writeGroup(builder *strings.Builder, name string, tasks []model.Task) {
	done := 0
	for _, task := range tasks {
		if task.Completed {
			done++
		}
	}
	builder.WriteString(fmt.Sprintf("<b>%s</b> · %d/%d done\n", html.EscapeString(name), done, len(tasks)))
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		builder.WriteString(fmt.Sprintf("   ⬜ %s\n", html.EscapeString(strings.TrimSpace(task.Text))))
	}
	builder.WriteByte('\n')
}
