package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gfit/internal/domain/challenge"
	"gfit/internal/domain/steps"
)

const (
	WeekSheet        = "Week"
	LeaderboardSheet = "Leaderboard"
	defaultSheet     = "Sheet1"
)

var (
	weekHeader        = []string{"Date", "Steps", "Goal %"}
	leaderboardHeader = []string{"Rank", "Family", "Total Steps", "Joined"}
)

// WeekXLSX неделя шагов участника с процентом дневной цели
func WeekXLSX(w io.Writer, member string, week steps.WeeklyWindow, goal int) error {
	rows := make([][]any, 0, len(week)+1)
	for _, r := range week {
		rows = append(rows, []any{r.Day(), r.Steps, steps.GoalProgress(r.Steps, goal)})
	}
	rows = append(rows, []any{"Total", week.Total(), ""})

	return write(w, WeekSheet, member, weekHeader, rows, []float64{14, 12, 10})
}

// LeaderboardXLSX рейтинг семей челленджа
func LeaderboardXLSX(w io.Writer, title string, entries []challenge.LeaderboardEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		joined := ""
		if !e.JoinedAt.IsZero() {
			joined = e.JoinedAt.Format(steps.DateLayout)
		}
		rows = append(rows, []any{e.Rank, e.SubjectName, e.TotalSteps, joined})
	}

	return write(w, LeaderboardSheet, title, leaderboardHeader, rows, []float64{8, 28, 14, 14})
}

func write(w io.Writer, sheet, title string, header []string, rows [][]any, widths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D1FAE5"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	// таблица начинается с третьей строки
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 3)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+4)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}
