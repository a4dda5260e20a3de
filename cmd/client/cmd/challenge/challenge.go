package challenge

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"
	"gfit/internal/app/client/export"
	domain "gfit/internal/domain/challenge"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const participantsShown = 4

// ChallengeCmd - родительская команда для семейных челленджей
var ChallengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Семейные челленджи",
	Long:  `Список челленджей, участие семьи и рейтинг семей.`,
}

var (
	tab   string
	pages int
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список челленджей",
	Long: `Выводит челленджи вкладки available, active или completed.

Для completed флаг --page загружает указанное число страниц истории.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		t, err := domain.ParseTab(tab)
		if err != nil {
			return fmt.Errorf("неизвестная вкладка %q: %w", tab, err)
		}

		var (
			list    []domain.Challenge
			hasMore bool
		)
		if t == domain.TabCompleted {
			list, hasMore, err = app.HistoryPages(cmd.Context(), pages)
		} else {
			list, err = app.Challenges(cmd.Context(), t)
		}
		if err != nil {
			return fmt.Errorf("ошибка загрузки челленджей: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(list)
		}
		if len(list) == 0 {
			output.Line("Челленджей нет")
			return nil
		}

		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{
				strconv.Itoa(c.ID),
				c.Title,
				strconv.Itoa(c.StepsRequired),
				strconv.Itoa(c.DurationDays),
				strconv.Itoa(c.ActiveFamilies),
				joinedMark(c),
			})
		}
		if err := output.Table([]string{"ID", "НАЗВАНИЕ", "ШАГИ", "ДНЕЙ", "СЕМЕЙ", ""}, rows); err != nil {
			return err
		}
		if hasMore {
			output.Line("Есть еще, добавьте --page %d", pages+1)
		}
		return nil
	},
}

func joinedMark(c domain.Challenge) string {
	if c.CurrentlyInChallenge {
		return color.GreenString("участвуем")
	}
	return ""
}

var ActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Прогресс активного челленджа семьи",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		p, err := app.ActiveChallenge(cmd.Context())
		if errors.Is(err, domain.ErrNoActiveChallenge) {
			output.Line("Семья не участвует в челлендже. Выберите: gfit challenge list")
			return nil
		}
		if err != nil {
			return fmt.Errorf("ошибка загрузки челленджа: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(struct {
				domain.Progress
				Percent int `json:"percent_complete"`
			}{p, p.PercentComplete()})
		}
		percent := p.PercentComplete()
		output.Title("%s", p.Challenge.Title)
		output.Line("%s %d%%", output.Bar(percent, 30), percent)
		output.Line("Семья: %d из %d шагов", p.FamilyTotalSteps, p.Challenge.StepsRequired)
		output.Line("Мой вклад: %d", p.MyContributionSteps)
		if p.Expired {
			output.Warn("Срок челленджа истек")
		} else {
			output.Line("Осталось дней: %d", p.DaysRemaining)
		}

		participants := domain.Participants(p.Members, participantsShown)
		if len(participants) == 0 {
			return nil
		}
		rows := make([][]string, 0, len(participants))
		for _, m := range participants {
			rows = append(rows, []string{strconv.Itoa(m.Rank), m.SubjectName, strconv.Itoa(m.TotalSteps)})
		}
		output.Line("")
		return output.Table([]string{"#", "УЧАСТНИК", "ШАГИ"}, rows)
	},
}

func challengeID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный id челленджа: %s", arg)
	}
	return id, nil
}

var JoinCmd = &cobra.Command{
	Use:   "join <id>",
	Short: "Вступить в челлендж",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := challengeID(args[0])
		if err != nil {
			return err
		}
		if err := app.JoinChallenge(cmd.Context(), id); err != nil {
			return fmt.Errorf("ошибка вступления: %w", err)
		}
		output.Success("Семья вступила в челлендж %d", id)
		return nil
	},
}

var LeaveCmd = &cobra.Command{
	Use:   "leave <id>",
	Short: "Покинуть челлендж",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := challengeID(args[0])
		if err != nil {
			return err
		}
		if err := app.LeaveChallenge(cmd.Context(), id); err != nil {
			return fmt.Errorf("ошибка выхода из челленджа: %w", err)
		}
		output.Success("Семья покинула челлендж %d", id)
		return nil
	},
}

var xlsxPath string

var LeaderboardCmd = &cobra.Command{
	Use:   "leaderboard <id>",
	Short: "Рейтинг семей в челлендже",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		id, err := challengeID(args[0])
		if err != nil {
			return err
		}

		entries, err := app.FamiliesLeaderboard(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка загрузки рейтинга: %w", err)
		}

		if xlsxPath != "" {
			f, err := os.Create(xlsxPath)
			if err != nil {
				return fmt.Errorf("ошибка создания файла: %w", err)
			}
			defer f.Close()
			if err := export.LeaderboardXLSX(f, fmt.Sprintf("Челлендж %d", id), entries); err != nil {
				return fmt.Errorf("ошибка выгрузки: %w", err)
			}
			output.Success("Рейтинг сохранен в %s", xlsxPath)
			return nil
		}

		if output.JSONRequested(cmd) {
			return output.JSON(entries)
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			joined := ""
			if !e.JoinedAt.IsZero() {
				joined = e.JoinedAt.Local().Format(time.DateOnly)
			}
			rows = append(rows, []string{strconv.Itoa(e.Rank), e.SubjectName, strconv.Itoa(e.TotalSteps), joined})
		}
		return output.Table([]string{"#", "СЕМЬЯ", "ШАГИ", "С"}, rows)
	},
}

func init() {
	ListCmd.Flags().StringVarP(&tab, "tab", "t", string(domain.TabAvailable), "вкладка: available, active, completed")
	ListCmd.Flags().IntVarP(&pages, "page", "p", 1, "сколько страниц истории загрузить")
	LeaderboardCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "сохранить рейтинг в Excel")
}
