package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const (
	subscribeQoS    = 1
	disconnectQuiet = 250 // мс
)

// Ledger журнал приращений по участникам, чтобы CountSince работал после перезапуска
type Ledger interface {
	AppendSteps(ctx context.Context, memberID int, device string, delta int, at time.Time) error
	SumSteps(ctx context.Context, memberID int, start, end time.Time) (int, error)
}

type Config struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
}

// Message полезная нагрузка моста шагомера, топик gfit/steps/<device>
type Message struct {
	Delta      int       `json:"delta"`
	RecordedAt time.Time `json:"recorded_at"`
}

// MQTT шагомер, публикующий приращения в MQTT
type MQTT struct {
	client mqtt.Client
	topic  string
	ledger Ledger
	log    *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	handlers map[int]func(int)
	nextID   int
	// memberID участник, на которого пишутся шаги, 0 - никто не выбран
	memberID int
}

func NewMQTT(cfg Config, ledger Ledger, log *slog.Logger) (*MQTT, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "gfit-" + uuid.NewString()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	s := newMQTT(mqtt.NewClient(opts), cfg.Topic, ledger, log)

	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("подключение к MQTT брокеру: %w", token.Error())
	}

	if token := s.client.Subscribe(s.topic, subscribeQoS, func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.handleMessage(msg.Topic(), msg.Payload()); err != nil {
			s.log.Warn("сообщение шагомера отброшено", "topic", msg.Topic(), "error", err)
		}
	}); token.Wait() && token.Error() != nil {
		s.client.Disconnect(disconnectQuiet)
		return nil, fmt.Errorf("подписка на %s: %w", s.topic, token.Error())
	}

	s.log.Info("шагомер подключен", "broker", cfg.Broker, "topic", s.topic)
	return s, nil
}

func newMQTT(client mqtt.Client, topic string, ledger Ledger, log *slog.Logger) *MQTT {
	return &MQTT{
		client:   client,
		topic:    topic,
		ledger:   ledger,
		log:      log.With(slog.String("component", "mqtt_sensor")),
		now:      time.Now,
		handlers: make(map[int]func(int)),
	}
}

func (s *MQTT) IsAvailable() bool {
	return s.client != nil && s.client.IsConnected()
}

// BindMember переключает журнал на участника. Шаги до выбора участника в журнал не пишутся
func (s *MQTT) BindMember(memberID int) {
	s.mu.Lock()
	s.memberID = memberID
	s.mu.Unlock()
}

func (s *MQTT) boundMember() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.memberID
}

func (s *MQTT) CountSince(ctx context.Context, start, end time.Time) (int, error) {
	memberID := s.boundMember()
	if memberID == 0 {
		return 0, nil
	}
	n, err := s.ledger.SumSteps(ctx, memberID, start, end)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

func (s *MQTT) Subscribe(fn func(delta int)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.handlers, id)
			s.mu.Unlock()
		})
	}, nil
}

// Close отписывается и отключается от брокера
func (s *MQTT) Close() {
	if s.client == nil {
		return
	}
	if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
		s.log.Warn("ошибка отписки", "error", token.Error())
	}
	s.client.Disconnect(disconnectQuiet)
}

func (s *MQTT) handleMessage(topic string, payload []byte) error {
	parts := strings.Split(topic, "/")
	device := parts[len(parts)-1]
	if device == "" {
		return fmt.Errorf("invalid topic format: %s", topic)
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if msg.Delta <= 0 {
		return fmt.Errorf("invalid delta %d", msg.Delta)
	}
	if msg.RecordedAt.IsZero() {
		msg.RecordedAt = s.now()
	}

	if memberID := s.boundMember(); memberID != 0 {
		if err := s.ledger.AppendSteps(context.Background(), memberID, device, msg.Delta, msg.RecordedAt); err != nil {
			s.log.Error("ошибка записи в журнал шагов", "device", device, "error", err)
		}
	}

	s.mu.RLock()
	handlers := make([]func(int), 0, len(s.handlers))
	for _, fn := range s.handlers {
		handlers = append(handlers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range handlers {
		fn(msg.Delta)
	}
	return nil
}
