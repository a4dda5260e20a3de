package auth

import (
	"fmt"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var email string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в аккаунт семьи",
	Long: `Аутентификация на сервере G-Fit.

Токен аккаунта сохраняется локально, после входа выберите участника:
gfit member select <id>`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if email == "" {
			email = prompt("Email: ")
		}
		password, err := readPassword("Пароль: ")
		if err != nil {
			return err
		}

		if err := app.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("ошибка входа: %w", err)
		}
		output.Success("Вход выполнен")

		members, err := app.Members(cmd.Context())
		if err != nil {
			output.Warn("Не удалось загрузить участников: %v", err)
			return nil
		}
		if len(members) == 1 {
			if _, err := app.SelectMember(cmd.Context(), members[0].ID); err == nil {
				output.Success("Активный участник: %s", members[0].FirstName)
				return nil
			}
		}
		output.Line("Выберите участника: gfit member list, затем gfit member select <id>")
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Выйти и удалить сохраненные токены",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := app.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("ошибка выхода: %w", err)
		}
		output.Success("Выход выполнен")
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&email, "email", "e", "", "email аккаунта")
}
