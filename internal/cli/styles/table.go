package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/wayfinder/internal/domain/entity"
	"github.com/bnema/wayfinder/internal/infrastructure/filtering"
)

func (t *Theme) newTable(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(t.Text).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// ResourceTable renders filter resource statuses.
func (t *Theme) ResourceTable(statuses []filtering.ResourceStatus) string {
	tbl := t.newTable("Resource", "Title", "State", "Version", "Rules", "Skipped")
	for _, s := range statuses {
		tbl.Row(s.Name, s.Title, string(s.State), strconv.Itoa(s.Version), strconv.Itoa(s.Rules), strconv.Itoa(s.Skipped))
	}
	return tbl.Render()
}

// HistoryTable renders history entries.
func (t *Theme) HistoryTable(entries []*entity.HistoryEntry) string {
	tbl := t.newTable("Title", "URL", "Visits", "Last Visit")
	for _, e := range entries {
		tbl.Row(truncate(e.Title, 40), truncate(e.URL, 60), strconv.FormatInt(e.VisitCount, 10), e.LastVisited.Format("2006-01-02 15:04"))
	}
	return tbl.Render()
}

// BookmarkTable renders favorites.
func (t *Theme) BookmarkTable(favs []*entity.Favorite) string {
	tbl := t.newTable("ID", "Title", "URL", "Tags")
	for _, f := range favs {
		tbl.Row(strconv.FormatInt(int64(f.ID), 10), truncate(f.Title, 40), truncate(f.URL, 60), strings.Join(f.Tags, ", "))
	}
	return tbl.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
