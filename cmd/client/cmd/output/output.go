package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gfit/internal/app/client"
	"gfit/internal/domain/member"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var out io.Writer = os.Stdout

// JSONRequested указан ли глобальный флаг --json
func JSONRequested(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("json")
	return err == nil && v
}

func JSON(v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func Success(format string, args ...any) {
	fmt.Fprintln(out, color.GreenString("✓ "+format, args...))
}

func Warn(format string, args ...any) {
	fmt.Fprintln(out, color.YellowString("! "+format, args...))
}

func Title(format string, args ...any) {
	fmt.Fprintln(out, color.New(color.Bold).Sprintf(format, args...))
}

func Line(format string, args ...any) {
	fmt.Fprintf(out, format+"\n", args...)
}

// Table печатает выровненную таблицу
func Table(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// Bar полоска прогресса на width символов
func Bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return color.GreenString(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// Explain переводит ошибки клиента в подсказки для пользователя
func Explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, member.ErrNotAuthenticated):
		return fmt.Errorf("требуется вход. Выполните: gfit auth login (%w)", err)
	case errors.Is(err, member.ErrNoActiveMember), errors.Is(err, member.ErrNoMemberToken):
		return fmt.Errorf("не выбран участник. Выполните: gfit member list и gfit member select <id> (%w)", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("сервер недоступен, попробуйте позже (%w)", err)
	default:
		return err
	}
}
