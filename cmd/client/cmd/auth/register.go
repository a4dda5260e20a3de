package auth

import (
	"fmt"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"
	"gfit/internal/domain/user"

	"github.com/spf13/cobra"
)

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Зарегистрировать семью",
	Long: `Регистрация аккаунта семьи на сервере G-Fit.

Вместе с аккаунтом создается семья и первый участник.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		output.Title("=== Регистрация семьи ===")

		req := user.RegisterRequest{
			Email:      prompt("Email: "),
			FamilyName: prompt("Название семьи (необязательно): "),
		}

		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Повторите пароль: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("пароли не совпадают")
		}
		req.Password = password

		id, err := app.Register(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("ошибка регистрации: %w", err)
		}

		if output.JSONRequested(cmd) {
			return output.JSON(map[string]int{"user_id": id})
		}
		output.Success("Регистрация завершена, id аккаунта %d", id)
		output.Line("Теперь войдите: gfit auth login")
		return nil
	},
}
