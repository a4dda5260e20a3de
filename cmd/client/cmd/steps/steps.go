package steps

import (
	"fmt"
	"os"
	"strconv"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"
	"gfit/internal/app/client/export"
	domain "gfit/internal/domain/steps"

	"github.com/spf13/cobra"
)

// StepsCmd - родительская команда для шагов активного участника
var StepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Шаги активного участника",
	Long:  `Ввод шагов за сегодня, неделя, дневная цель и выгрузка в Excel.`,
}

var SetCmd = &cobra.Command{
	Use:   "set <шаги>",
	Short: "Записать шаги за сегодня",
	Long: `Перезаписывает шаги за сегодня. Отрицательные и нечисловые значения отклоняются.

Шаги отправляются на сервер при выходе из команды.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if err := app.SetManualSteps(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("ошибка ввода шагов: %w", err)
		}

		today, percent, err := app.GoalProgress(cmd.Context())
		if err != nil {
			return err
		}
		if output.JSONRequested(cmd) {
			return output.JSON(map[string]int{"steps": today, "goal_percent": percent})
		}
		output.Line("Сегодня: %d шагов %s %d%%", today, output.Bar(percent, 20), percent)
		return nil
	},
}

var WeekCmd = &cobra.Command{
	Use:   "week",
	Short: "Шаги за последние 7 дней",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		week, source, err := app.WeeklySteps(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка загрузки недели: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(struct {
				Source domain.Source        `json:"source"`
				Days   domain.WeeklyWindow `json:"days"`
				Total  int                 `json:"total"`
			}{source, week, week.Total()})
		}

		switch source {
		case domain.SourceCache:
			output.Warn("Сервер недоступен, показаны сохраненные данные")
		case domain.SourceDemo:
			output.Warn("Нет данных, показан демонстрационный пример")
		}

		goal := app.DailyGoal()
		rows := make([][]string, 0, len(week))
		for _, r := range week {
			percent := r.Steps * 100 / goal
			rows = append(rows, []string{r.Day(), strconv.Itoa(r.Steps), output.Bar(percent, 10)})
		}
		if err := output.Table([]string{"ДЕНЬ", "ШАГИ", "ЦЕЛЬ"}, rows); err != nil {
			return err
		}
		output.Line("Итого: %d", week.Total())
		return nil
	},
}

var GoalCmd = &cobra.Command{
	Use:   "goal [шаги]",
	Short: "Показать или изменить дневную цель",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			goal, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("цель должна быть числом: %s", args[0])
			}
			if err := app.UpdateGoal(cmd.Context(), goal); err != nil {
				return fmt.Errorf("ошибка изменения цели: %w", err)
			}
		}

		today, percent, err := app.GoalProgress(cmd.Context())
		if err != nil {
			return err
		}
		goal := app.DailyGoal()
		if output.JSONRequested(cmd) {
			return output.JSON(map[string]int{"goal": goal, "steps": today, "goal_percent": percent})
		}
		output.Line("Цель: %d шагов в день", goal)
		output.Line("Сегодня: %d %s %d%%", today, output.Bar(percent, 20), percent)
		return nil
	},
}

var exportPath string

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить неделю в Excel",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		active, ok := app.ActiveMember()
		if !ok {
			return fmt.Errorf("не выбран участник")
		}
		week, _, err := app.WeeklySteps(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка загрузки недели: %w", err)
		}

		f, err := os.Create(exportPath)
		if err != nil {
			return fmt.Errorf("ошибка создания файла: %w", err)
		}
		defer f.Close()

		if err := export.WeekXLSX(f, active.FirstName, week, app.DailyGoal()); err != nil {
			return fmt.Errorf("ошибка выгрузки: %w", err)
		}
		output.Success("Неделя сохранена в %s", exportPath)
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVarP(&exportPath, "out", "o", "steps.xlsx", "файл для выгрузки")
}
