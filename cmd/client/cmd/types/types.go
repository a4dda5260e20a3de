package types

import (
	"fmt"

	"gfit/internal/app/client"

	"github.com/spf13/cobra"
)

type contextKey string

// ClientAppKey ключ *client.App в контексте команды
const ClientAppKey contextKey = "app"

// App достает приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return app, nil
}
