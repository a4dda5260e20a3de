package member

import (
	"fmt"
	"strconv"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

// MemberCmd - родительская команда для участников семьи
var MemberCmd = &cobra.Command{
	Use:   "member",
	Short: "Участники семьи",
	Long:  `Просмотр, добавление и выбор активного участника.`,
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список участников семьи",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		members, err := app.Members(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка загрузки участников: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(members)
		}
		if len(members) == 0 {
			output.Line("Участников пока нет. Добавьте: gfit member add <имя>")
			return nil
		}

		active, _ := app.ActiveMember()
		rows := make([][]string, 0, len(members))
		for _, m := range members {
			mark := ""
			if m.ID == active.ID {
				mark = "*"
			}
			rows = append(rows, []string{mark, strconv.Itoa(m.ID), m.FirstName, strconv.Itoa(m.DailyGoal)})
		}
		return output.Table([]string{"", "ID", "ИМЯ", "ЦЕЛЬ"}, rows)
	},
}

var SelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Сделать участника активным",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("неверный id участника: %s", args[0])
		}

		m, err := app.SelectMember(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("ошибка выбора участника: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(m)
		}
		output.Success("Активный участник: %s", m.FirstName)
		return nil
	},
}

var AddCmd = &cobra.Command{
	Use:   "add <имя>",
	Short: "Добавить участника семьи",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		m, err := app.AddMember(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("ошибка добавления участника: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(m)
		}
		output.Success("Добавлен участник %s (id %d)", m.FirstName, m.ID)
		return nil
	},
}
