package sync

import (
	"fmt"
	"time"

	"gfit/cmd/client/cmd/output"
	"gfit/cmd/client/cmd/types"

	"github.com/spf13/cobra"
)

var status bool

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Отправить шаги на сервер",
	Long: `Немедленно отправляет шаги активного участника за сегодня.

С флагом --status только показывает состояние синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		if !status {
			if err := app.SyncNow(cmd.Context()); err != nil {
				return fmt.Errorf("ошибка синхронизации: %w", err)
			}
		}

		state, err := app.SyncState(cmd.Context())
		if err != nil {
			return err
		}
		if output.JSONRequested(cmd) {
			return output.JSON(state)
		}

		output.Line("Шагов сегодня:      %d", state.CurrentCount)
		output.Line("Отправлено:         %d", state.LastSyncedCount)
		if state.LastSyncTime != nil {
			output.Line("Последняя отправка: %s", state.LastSyncTime.Local().Format(time.DateTime))
		}
		if state.Pending() {
			output.Warn("Есть неотправленные шаги")
		} else {
			output.Success("Шаги синхронизированы")
		}
		return nil
	},
}

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за шагомером и синхронизировать в фоне",
	Long: `Подписывается на шагомер и отправляет шаги по порогу и таймеру.

Работает до Ctrl+C, перед выходом досылает накопленные шаги.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if !app.SensorAvailable() {
			output.Warn("Шагомер не настроен, шаги вводятся командой gfit steps set")
		}
		return app.Watch(cmd.Context())
	},
}

func init() {
	SyncCmd.Flags().BoolVar(&status, "status", false, "только показать состояние")
}
