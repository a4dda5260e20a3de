package stepsync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"gfit/internal/domain/member"
	"gfit/internal/domain/steps"
)

// Remote операции API шагов, которые нужны синхронизации
type Remote interface {
	SubmitSteps(ctx context.Context, creds member.Credentials, day time.Time, count int) error
	MemberSteps(ctx context.Context, creds member.Credentials, from, to time.Time) ([]steps.StepRecord, error)
}

// CredentialSource выдает учетные данные участника на момент запроса
type CredentialSource interface {
	CredentialsFor(memberID int) (member.Credentials, error)
}

// Journal локальная копия состояния синхронизации, переживает перезапуск клиента.
// LoadSyncState возвращает steps.ErrNoData, если за день ничего не сохранено
type Journal interface {
	SaveSyncState(ctx context.Context, memberID int, day time.Time, st steps.SyncState) error
	LoadSyncState(ctx context.Context, memberID int, day time.Time) (steps.SyncState, error)
}

type Config struct {
	// Threshold сколько шагов сверх отправленного запускает отправку
	Threshold     int
	Debounce      time.Duration
	Interval      time.Duration
	InitPushDelay time.Duration
	PushTimeout   time.Duration

	// Now часы, по умолчанию time.Now
	Now     func() time.Time
	Journal Journal
}

func DefaultConfig() Config {
	return Config{
		Threshold:     50,
		Debounce:      time.Second,
		Interval:      5 * time.Minute,
		InitPushDelay: 1500 * time.Millisecond,
		PushTimeout:   30 * time.Second,
	}
}

// Reconciler ведет счетчик шагов за сегодня для одного участника и решает, когда отправлять его на сервер
type Reconciler struct {
	remote   Remote
	creds    CredentialSource
	memberID int
	cfg      Config
	log      *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     steps.SyncState
	window    steps.WeeklyWindow
	hasWindow bool
	timer     *time.Timer
	closed    bool

	// до загрузки значения с сервера события копятся отдельно:
	// deltas от датчика, floor показание датчика без учтенных deltas, override при ручном вводе
	seeded   bool
	override bool
	deltas   int
	floor    int
	restored *steps.SyncState

	// pushMu сериализует отправки
	pushMu sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func New(remote Remote, creds CredentialSource, memberID int, cfg Config, log *slog.Logger) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Reconciler{
		remote:   remote,
		creds:    creds,
		memberID: memberID,
		cfg:      cfg,
		log:      log.With(slog.String("component", "step_sync"), slog.Int("member_id", memberID)),
		now:      now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Reconciler) MemberID() int {
	return r.memberID
}

// OnSensorDelta добавляет приращение от датчика
func (r *Reconciler) OnSensorDelta(delta int) error {
	if delta < 0 {
		return fmt.Errorf("%w: negative delta %d", steps.ErrInvalidSteps, delta)
	}
	if delta == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.CurrentCount += delta
	if !r.seeded {
		r.deltas += delta
	}
	if r.state.CurrentCount-r.state.LastSyncedCount > r.cfg.Threshold {
		r.scheduleLocked(r.cfg.Debounce)
	}
	return nil
}

// OnManualEntry перезаписывает счетчик значением, введенным вручную, и сразу отправляет его
func (r *Reconciler) OnManualEntry(value int) error {
	if value < 0 {
		return fmt.Errorf("%w: %d", steps.ErrInvalidSteps, value)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.CurrentCount = value
	if !r.seeded {
		r.override = true
	}
	r.scheduleLocked(0)
	return nil
}

// OnManualInput разбирает текстовый ввод и передает его в OnManualEntry
func (r *Reconciler) OnManualInput(raw string) error {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", steps.ErrInvalidSteps, raw)
	}
	return r.OnManualEntry(value)
}

// ReconcileOnInit принимает показание датчика за сегодня, только если оно больше текущего
func (r *Reconciler) ReconcileOnInit(sensorToday int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sensorToday <= r.state.CurrentCount {
		return false
	}

	r.state.CurrentCount = sensorToday
	if !r.seeded {
		r.floor = max(r.floor, sensorToday-r.deltas)
	}
	r.scheduleLocked(r.cfg.InitPushDelay)
	return true
}

// Restore поднимает из журнала состояние за сегодня, сохраненное прошлым запуском
func (r *Reconciler) Restore(ctx context.Context) error {
	if r.cfg.Journal == nil {
		return nil
	}

	st, err := r.cfg.Journal.LoadSyncState(ctx, r.memberID, steps.StartOfDay(r.now()))
	if errors.Is(err, steps.ErrNoData) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore sync state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seeded {
		return nil
	}
	r.restored = &st
	if !r.override {
		r.state.CurrentCount = max(st.CurrentCount, r.floor) + r.deltas
	}
	r.state.LastSyncedCount = st.LastSyncedCount
	r.state.LastSyncTime = st.LastSyncTime
	return nil
}

// Seed загружает с сервера шаги за сегодня и сводит их с локальными.
// Пока загрузка не удалась, Push ничего не отправляет
func (r *Reconciler) Seed(ctx context.Context) error {
	r.pushMu.Lock()
	defer r.pushMu.Unlock()

	creds, err := r.creds.CredentialsFor(r.memberID)
	if err != nil {
		return fmt.Errorf("seed steps: %w", err)
	}
	return r.seedLocked(ctx, creds)
}

func (r *Reconciler) Seeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seeded
}

// seedLocked вызывается под pushMu
func (r *Reconciler) seedLocked(ctx context.Context, creds member.Credentials) error {
	r.mu.Lock()
	seeded := r.seeded
	r.mu.Unlock()
	if seeded {
		return nil
	}

	today := steps.StartOfDay(r.now())
	records, err := r.remote.MemberSteps(ctx, creds, today, today)
	if err != nil {
		return fmt.Errorf("%w: %w", steps.ErrNotSeeded, err)
	}

	server := 0
	for _, rec := range records {
		if rec.Day() == today.Format(steps.DateLayout) {
			server = rec.Steps
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.override {
		base := server
		if st := r.restored; st != nil {
			// неотправленный ввод прошлого запуска берется как есть, если сервер с тех пор не менялся
			if st.Pending() && st.LastSyncedCount == server {
				base = st.CurrentCount
			} else {
				base = max(st.CurrentCount, server)
			}
		}
		r.state.CurrentCount = max(base, r.floor) + r.deltas
	}
	r.state.LastSyncedCount = server
	r.seeded = true
	r.deltas, r.floor, r.restored = 0, 0, nil

	r.log.Debug("шаги за сегодня загружены", "server", server, "current", r.state.CurrentCount)
	return nil
}

// Push отправляет текущий счетчик за сегодня. При ошибке состояние не меняется.
// Состояние после попытки сохраняется в журнал
func (r *Reconciler) Push(ctx context.Context) error {
	r.pushMu.Lock()
	defer r.pushMu.Unlock()
	defer r.persist(ctx)

	creds, err := r.creds.CredentialsFor(r.memberID)
	if err != nil {
		return fmt.Errorf("push steps: %w", err)
	}
	if err := r.seedLocked(ctx, creds); err != nil {
		r.log.Warn("шаги не отправлены, значение сервера неизвестно", "error", err)
		return fmt.Errorf("push steps: %w", err)
	}

	r.mu.Lock()
	value := r.state.CurrentCount
	r.mu.Unlock()

	now := r.now()
	today := steps.StartOfDay(now)
	if err := r.remote.SubmitSteps(ctx, creds, today, value); err != nil {
		r.log.Warn("шаги не отправлены", "steps", value, "error", err)
		return fmt.Errorf("push steps: %w", err)
	}

	r.mu.Lock()
	r.state.LastSyncedCount = value
	r.state.LastSyncTime = &now
	if r.hasWindow && r.window.Today().Date.Equal(today) {
		r.window[steps.WindowDays-1].Steps = value
	}
	r.mu.Unlock()

	r.log.Debug("шаги отправлены", "steps", value)
	return nil
}

func (r *Reconciler) persist(ctx context.Context) {
	if r.cfg.Journal == nil {
		return
	}
	r.mu.Lock()
	empty := !r.seeded && !r.override && r.restored == nil && r.deltas == 0 && r.floor == 0
	r.mu.Unlock()
	// нечего сохранять, запись затерла бы журнал нулями
	if empty {
		return
	}

	st := r.State()
	day := steps.StartOfDay(r.now())
	if err := r.cfg.Journal.SaveSyncState(context.WithoutCancel(ctx), r.memberID, day, st); err != nil {
		r.log.Warn("состояние синхронизации не сохранено", "error", err)
	}
}

// PeriodicTick отправка по таймеру, без проверки порога
func (r *Reconciler) PeriodicTick(ctx context.Context) error {
	return r.Push(ctx)
}

// Run отправляет счетчик каждые Interval до отмены ctx
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("периодическая синхронизация остановлена")
			return
		case <-ticker.C:
			pushCtx, cancel := r.pushContext(ctx)
			if err := r.PeriodicTick(pushCtx); err != nil {
				r.log.Error("ошибка периодической синхронизации", "error", err)
			}
			cancel()
		}
	}
}

// FetchWeeklyWindow загружает историю и заменяет окно целиком.
// Пустой ответ возвращает steps.ErrNoData, предыдущее окно сохраняется
func (r *Reconciler) FetchWeeklyWindow(ctx context.Context, from, to time.Time) (steps.WeeklyWindow, error) {
	creds, err := r.creds.CredentialsFor(r.memberID)
	if err != nil {
		return steps.WeeklyWindow{}, fmt.Errorf("fetch week: %w", err)
	}

	records, err := r.remote.MemberSteps(ctx, creds, from, to)
	if err != nil {
		return steps.WeeklyWindow{}, fmt.Errorf("fetch week: %w", err)
	}
	if len(records) == 0 {
		return steps.WeeklyWindow{}, steps.ErrNoData
	}

	w := steps.BuildWindow(to, records)

	r.mu.Lock()
	r.window = w
	r.hasWindow = true
	r.mu.Unlock()

	return w, nil
}

func (r *Reconciler) Window() (steps.WeeklyWindow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window, r.hasWindow
}

func (r *Reconciler) State() steps.SyncState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.state
	if st.LastSyncTime != nil {
		t := *st.LastSyncTime
		st.LastSyncTime = &t
	}
	return st
}

func (r *Reconciler) Pending() bool {
	return r.State().Pending()
}

// Close отменяет отложенную отправку, дожидается запущенных и досылает остаток
func (r *Reconciler) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.stopTimerLocked()
	r.mu.Unlock()

	r.wg.Wait()
	r.cancel()

	if !r.Pending() {
		r.persist(ctx)
		return nil
	}
	return r.Push(ctx)
}

func (r *Reconciler) scheduleLocked(delay time.Duration) {
	if r.closed {
		return
	}
	r.stopTimerLocked()

	r.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		defer r.wg.Done()

		r.mu.Lock()
		if r.timer == t {
			r.timer = nil
		}
		r.mu.Unlock()

		ctx, cancel := r.pushContext(r.ctx)
		defer cancel()
		if err := r.Push(ctx); err != nil {
			r.log.Warn("отложенная отправка не удалась", "error", err)
		}
	})
	r.timer = t
}

func (r *Reconciler) stopTimerLocked() {
	if r.timer != nil && r.timer.Stop() {
		r.wg.Done()
	}
	r.timer = nil
}

func (r *Reconciler) pushContext(parent context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.PushTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, r.cfg.PushTimeout)
}
