package sensor

import (
	"context"
	"errors"
	"time"
)

var ErrUnavailable = errors.New("step sensor unavailable")

// Sensor источник шагов устройства
type Sensor interface {
	IsAvailable() bool
	// CountSince количество шагов в интервале [start, end)
	CountSince(ctx context.Context, start, end time.Time) (int, error)
	// Subscribe подписка на приращения шагов, возвращает функцию отписки
	Subscribe(fn func(delta int)) (func(), error)
}

// Unavailable датчик отсутствует, шаги вводятся вручную
type Unavailable struct{}

func (Unavailable) IsAvailable() bool { return false }

func (Unavailable) CountSince(context.Context, time.Time, time.Time) (int, error) {
	return 0, ErrUnavailable
}

func (Unavailable) Subscribe(func(int)) (func(), error) {
	return nil, ErrUnavailable
}
