package statsui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

var tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

func boardColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 14},
		{Title: "Lvl", Width: 4},
		{Title: "WPM", Width: 5},
		{Title: "Acc", Width: 5},
		{Title: "Lang", Width: 8},
		{Title: "Level", Width: 7},
		{Title: "Date", Width: 10},
	}
}

func boardRows(entries []model.LeaderboardEntry) []table.Row {
	cells := stats.LeaderboardRows(entries)
	rows := make([]table.Row, 0, len(cells))
	for _, c := range cells {
		rows = append(rows, table.Row(c))
	}
	return rows
}

func buildBoardTable(entries []model.LeaderboardEntry, width, height int) table.Model {
	t := table.New(
		table.WithColumns(boardColumns()),
		table.WithRows(boardRows(entries)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(boardTableStyles())
	return t
}

func (m *Model) applyBoardTable(entries []model.LeaderboardEntry, width, height int) {
	rows := boardRows(entries)
	m.boardTable.SetRows(rows)
	m.boardTable.GotoTop()
	m.boardLayout.rowCount = len(rows)
	m.boardLayout.width = 0
	m.setBoardTableSize(width, height)
}

func (m *Model) setBoardTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.boardLayout.width == width && m.boardLayout.height == viewportHeight {
		return
	}
	m.boardLayout.width = width
	m.boardLayout.height = viewportHeight
	m.boardTable.SetWidth(width)
	m.boardTable.SetHeight(viewportHeight)
}

func boardTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
