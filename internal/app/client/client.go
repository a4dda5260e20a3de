package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	gosync "sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"gfit/internal/app/client/config"
	"gfit/internal/app/client/credential"
	"gfit/internal/app/client/sensor"
	"gfit/internal/app/client/stepsync"
	"gfit/internal/domain/challenge"
	"gfit/internal/domain/member"
	"gfit/internal/domain/steps"
	"gfit/internal/domain/user"
)

type App struct {
	config  *config.Config
	log     *slog.Logger
	api     *httpClient
	creds   credential.Store
	session *member.Session
	storage Storage
	sensor  sensor.Sensor
	now     func() time.Time

	mu         gosync.Mutex
	reconciler *stepsync.Reconciler
	history    *challenge.HistoryPager

	wg     gosync.WaitGroup
	cancel context.CancelFunc
}

// Options зависимости, которые можно подменить
type Options struct {
	Ephemeral bool
}

func New(cfg *config.Config, log *slog.Logger, opts Options) (*App, error) {
	var (
		creds   credential.Store
		storage Storage
	)

	if opts.Ephemeral {
		creds = credential.NewMemoryStore()
		storage = NewMemoryStorage()
	} else {
		creds = credential.NewFileStore(cfg.CredentialPath)
		sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
		if err != nil {
			log.Warn("Не удалось открыть локальный кэш, используется память", "error", err)
			storage = NewMemoryStorage()
		} else {
			storage = sqliteStorage
		}
	}

	var stepSensor sensor.Sensor = sensor.Unavailable{}
	if cfg.SensorEnabled() {
		mqttSensor, err := sensor.NewMQTT(sensor.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
		}, storage, log)
		if err != nil {
			log.Warn("Шагомер недоступен, шаги вводятся вручную", "error", err)
		} else {
			stepSensor = mqttSensor
		}
	}

	return newApp(cfg, log, NewHTTPClient(cfg, log), creds, storage, stepSensor), nil
}

func newApp(cfg *config.Config, log *slog.Logger, api *httpClient, creds credential.Store, storage Storage, s sensor.Sensor) *App {
	app := &App{
		config:  cfg,
		log:     log,
		api:     api,
		creds:   creds,
		session: member.NewSession(),
		storage: storage,
		sensor:  s,
		now:     time.Now,
	}
	app.restore()
	return app
}

// restore поднимает сессию из хранилища учетных данных
func (a *App) restore() {
	token, err := a.creds.Get(credential.KeyAccessToken)
	if err != nil {
		return
	}
	a.session.SetAccountToken(token)

	raw, err := a.creds.Get(credential.KeyMember)
	if err != nil {
		return
	}
	var m member.FamilyMember
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		a.log.Warn("Сохраненный участник поврежден", "error", err)
		return
	}
	if tokenKey, err := a.creds.Get(credential.KeyTokenKey); err == nil {
		m.TokenKey = tokenKey
	}
	if err := a.session.Select(m); err != nil {
		a.log.Warn("Не удалось восстановить участника", "error", err)
		return
	}
	a.bindSensor(m.ID)
}

// bindSensor направляет журнал датчика на участника, 0 отвязывает
func (a *App) bindSensor(memberID int) {
	if b, ok := a.sensor.(interface{ BindMember(int) }); ok {
		b.BindMember(memberID)
	}
}

func (a *App) Config() *config.Config {
	return a.config
}

// IsAuthenticated есть ли токен аккаунта
func (a *App) IsAuthenticated() bool {
	_, err := a.session.AccountToken()
	return err == nil
}

func (a *App) ActiveMember() (member.FamilyMember, bool) {
	return a.session.Active()
}

func (a *App) SensorAvailable() bool {
	return a.sensor.IsAvailable()
}

func (a *App) CheckConnection(ctx context.Context) error {
	return a.api.HealthCheck(ctx)
}

// Register регистрирует новый аккаунт семьи
func (a *App) Register(ctx context.Context, req user.RegisterRequest) (int, error) {
	return a.api.Register(ctx, req)
}

// Login входит в аккаунт и сохраняет токен
func (a *App) Login(ctx context.Context, email, password string) error {
	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := a.creds.Set(credential.KeyAccessToken, token); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	a.session.SetAccountToken(token)

	a.log.Info("Вход выполнен", "email", email)
	return nil
}

// Logout досылает шаги и забывает учетные данные
func (a *App) Logout(ctx context.Context) error {
	if err := a.closeReconciler(ctx); err != nil {
		a.log.Warn("Шаги не досланы перед выходом", "error", err)
	}
	return a.clearCredentials()
}

func (a *App) clearCredentials() error {
	a.session.Clear()
	a.bindSensor(0)

	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()

	var errs []error
	for _, key := range []string{credential.KeyAccessToken, credential.KeyTokenKey, credential.KeyMember} {
		if err := a.creds.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// handleAuthError при ErrUnauthorized очищает учетные данные
func (a *App) handleAuthError(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		a.log.Warn("Токен отклонен сервером, требуется вход")
		if clearErr := a.clearCredentials(); clearErr != nil {
			a.log.Error("Ошибка очистки учетных данных", "error", clearErr)
		}
	}
	return err
}

func (a *App) accountToken() (string, error) {
	token, err := a.session.AccountToken()
	if err != nil {
		return "", ErrUnauthorized
	}
	return token, nil
}

// Members участники семьи
func (a *App) Members(ctx context.Context) ([]member.FamilyMember, error) {
	token, err := a.accountToken()
	if err != nil {
		return nil, err
	}
	members, err := a.api.FamilyMembers(ctx, token)
	if err != nil {
		return nil, a.handleAuthError(err)
	}
	return members, nil
}

// AddMember добавляет участника в семью
func (a *App) AddMember(ctx context.Context, firstName string) (member.FamilyMember, error) {
	token, err := a.accountToken()
	if err != nil {
		return member.FamilyMember{}, err
	}
	m, err := a.api.AddFamilyMember(ctx, token, firstName)
	if err != nil {
		return member.FamilyMember{}, a.handleAuthError(err)
	}
	return m, nil
}

// SelectMember делает участника активным. Шаги прежнего участника досылаются до переключения
func (a *App) SelectMember(ctx context.Context, memberID int) (member.FamilyMember, error) {
	members, err := a.Members(ctx)
	if err != nil {
		return member.FamilyMember{}, err
	}

	var selected *member.FamilyMember
	for i := range members {
		if members[i].ID == memberID {
			selected = &members[i]
			break
		}
	}
	if selected == nil {
		return member.FamilyMember{}, fmt.Errorf("%w: %d", member.ErrNotFound, memberID)
	}

	if err := a.closeReconciler(ctx); err != nil {
		a.log.Warn("Шаги прежнего участника не досланы", "error", err)
	}

	if err := a.session.Select(*selected); err != nil {
		return member.FamilyMember{}, err
	}
	a.bindSensor(selected.ID)
	if err := a.persistMember(*selected); err != nil {
		return member.FamilyMember{}, err
	}

	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()

	a.log.Info("Выбран участник", "member_id", selected.ID)
	return *selected, nil
}

func (a *App) persistMember(m member.FamilyMember) error {
	if err := a.creds.Set(credential.KeyTokenKey, m.TokenKey); err != nil {
		return fmt.Errorf("ошибка сохранения токена участника: %w", err)
	}
	stored := m
	stored.TokenKey = ""
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := a.creds.Set(credential.KeyMember, string(data)); err != nil {
		return fmt.Errorf("ошибка сохранения участника: %w", err)
	}
	return nil
}

// Steps синхронизация шагов активного участника. Счетчик поднимается из журнала
// и сводится с сервером; без сервера шаги копятся локально и не отправляются
func (a *App) Steps(ctx context.Context) (*stepsync.Reconciler, error) {
	active, ok := a.session.Active()
	if !ok {
		return nil, member.ErrNoActiveMember
	}

	a.mu.Lock()
	r := a.reconciler
	created := false
	if r == nil || r.MemberID() != active.ID {
		cfg := stepsync.Config{
			Threshold:     a.config.SyncThreshold,
			Debounce:      a.config.SyncDebounce,
			Interval:      a.config.SyncInterval,
			InitPushDelay: a.config.InitPushDelay,
			PushTimeout:   a.config.RequestTimeout,
			Now:           a.now,
			Journal:       a.storage,
		}
		r = stepsync.New(a.api, a.session, active.ID, cfg, a.log)
		a.reconciler = r
		created = true
	}
	a.mu.Unlock()

	if created {
		if err := r.Restore(ctx); err != nil {
			a.log.Warn("Не удалось поднять состояние синхронизации", "error", err)
		}
	}

	// handleAuthError берет a.mu, поэтому загрузка идет без блокировки
	if !r.Seeded() {
		if err := r.Seed(ctx); err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, a.handleAuthError(err)
			}
			a.log.Warn("Шаги за сегодня не загружены с сервера", "error", err)
		}
	}
	return r, nil
}

func (a *App) closeReconciler(ctx context.Context) error {
	a.mu.Lock()
	r := a.reconciler
	a.reconciler = nil
	a.mu.Unlock()

	if r == nil {
		return nil
	}
	return a.handleAuthError(r.Close(ctx))
}

// SetManualSteps перезаписывает шаги за сегодня вводом пользователя
func (a *App) SetManualSteps(ctx context.Context, raw string) error {
	r, err := a.Steps(ctx)
	if err != nil {
		return err
	}
	return r.OnManualInput(raw)
}

// SyncNow отправляет шаги немедленно
func (a *App) SyncNow(ctx context.Context) error {
	r, err := a.Steps(ctx)
	if err != nil {
		return err
	}
	return a.handleAuthError(r.Push(ctx))
}

// SyncState состояние синхронизации активного участника
func (a *App) SyncState(ctx context.Context) (steps.SyncState, error) {
	r, err := a.Steps(ctx)
	if err != nil {
		return steps.SyncState{}, err
	}
	return r.State(), nil
}

// WeeklySteps окно за неделю: сервер, затем локальный кэш, затем демонстрационные данные
func (a *App) WeeklySteps(ctx context.Context) (steps.WeeklyWindow, steps.Source, error) {
	r, err := a.Steps(ctx)
	if err != nil {
		return steps.WeeklyWindow{}, "", err
	}

	now := a.now()
	from, to := steps.WindowRange(now)

	w, err := r.FetchWeeklyWindow(ctx, from, to)
	if err == nil {
		if saveErr := a.storage.SaveWeek(ctx, r.MemberID(), w); saveErr != nil {
			a.log.Warn("Не удалось сохранить неделю в кэш", "error", saveErr)
		}
		return w, steps.SourceRemote, nil
	}
	if errors.Is(err, ErrUnauthorized) {
		return steps.WeeklyWindow{}, "", a.handleAuthError(err)
	}
	a.log.Warn("История шагов недоступна", "error", err)

	if cached, cacheErr := a.storage.LoadWeek(ctx, r.MemberID(), now); cacheErr == nil {
		return cached, steps.SourceCache, nil
	}
	return steps.DemoWindow(now), steps.SourceDemo, nil
}

// UpdateGoal меняет дневную цель активного участника
func (a *App) UpdateGoal(ctx context.Context, goal int) error {
	if goal <= 0 {
		return steps.ErrInvalidGoal
	}

	creds, err := a.session.Credentials()
	if err != nil {
		return err
	}
	if err := a.api.UpdateStepGoal(ctx, creds, goal); err != nil {
		return a.handleAuthError(err)
	}

	active, ok := a.session.Active()
	if ok && active.ID == creds.MemberID {
		active.DailyGoal = goal
		if err := a.session.Select(active); err != nil {
			return err
		}
		return a.persistMember(active)
	}
	return nil
}

// DailyGoal цель активного участника или значение из конфигурации
func (a *App) DailyGoal() int {
	if active, ok := a.session.Active(); ok && active.DailyGoal > 0 {
		return active.DailyGoal
	}
	return a.config.DailyGoal
}

// GoalProgress шаги за сегодня и процент дневной цели
func (a *App) GoalProgress(ctx context.Context) (int, int, error) {
	state, err := a.SyncState(ctx)
	if err != nil {
		return 0, 0, err
	}
	return state.CurrentCount, steps.GoalProgress(state.CurrentCount, a.DailyGoal()), nil
}

func (a *App) AvailableChallenges(ctx context.Context) ([]challenge.Challenge, error) {
	token, err := a.accountToken()
	if err != nil {
		return nil, err
	}
	list, err := a.api.AvailableChallenges(ctx, token)
	if err != nil {
		return nil, a.handleAuthError(err)
	}
	return list, nil
}

func (a *App) historyPager() *challenge.HistoryPager {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.history == nil {
		a.history = challenge.NewHistoryPager(func(ctx context.Context, page, pageSize int) ([]challenge.Challenge, error) {
			token, err := a.accountToken()
			if err != nil {
				return nil, err
			}
			items, err := a.api.ChallengeHistory(ctx, token, page, pageSize)
			if err != nil {
				return nil, a.handleAuthError(err)
			}
			return items, nil
		}, a.config.HistoryPageSize)
	}
	return a.history
}

// Challenges список вкладки. Вкладка завершенных загружается с первой страницы
func (a *App) Challenges(ctx context.Context, tab challenge.Tab) ([]challenge.Challenge, error) {
	if tab == challenge.TabCompleted {
		pager := a.historyPager()
		if err := pager.Reload(ctx); err != nil {
			return nil, err
		}
		return challenge.FilterByTab(nil, pager.Records(), tab), nil
	}

	available, err := a.AvailableChallenges(ctx)
	if err != nil {
		return nil, err
	}
	return challenge.FilterByTab(available, nil, tab), nil
}

// LoadMoreHistory догружает следующую страницу истории
func (a *App) LoadMoreHistory(ctx context.Context) ([]challenge.Challenge, bool, error) {
	pager := a.historyPager()
	if pager.Page() == 0 {
		if err := pager.Reload(ctx); err != nil {
			return nil, false, err
		}
		return pager.Records(), pager.HasMore(), nil
	}

	if _, err := pager.LoadMore(ctx); err != nil {
		return nil, false, err
	}
	return pager.Records(), pager.HasMore(), nil
}

// HistoryPages загружает страницы истории с первой по pages
func (a *App) HistoryPages(ctx context.Context, pages int) ([]challenge.Challenge, bool, error) {
	pager := a.historyPager()
	if err := pager.Reload(ctx); err != nil {
		return nil, false, err
	}
	for p := 1; p < pages && pager.HasMore(); p++ {
		if _, err := pager.LoadMore(ctx); err != nil {
			return nil, false, err
		}
	}
	return pager.Records(), pager.HasMore(), nil
}

// ActiveChallenge прогресс семьи в активном челлендже
func (a *App) ActiveChallenge(ctx context.Context) (challenge.Progress, error) {
	token, err := a.accountToken()
	if err != nil {
		return challenge.Progress{}, err
	}
	dto, err := a.api.ActiveChallenge(ctx, token)
	if err != nil {
		return challenge.Progress{}, a.handleAuthError(err)
	}

	memberID := 0
	if active, ok := a.session.Active(); ok {
		memberID = active.ID
	}
	return dto.ToProgress(memberID, a.now())
}

func (a *App) JoinChallenge(ctx context.Context, challengeID int) error {
	token, err := a.accountToken()
	if err != nil {
		return err
	}
	return a.handleAuthError(a.api.JoinChallenge(ctx, token, challengeID))
}

func (a *App) LeaveChallenge(ctx context.Context, challengeID int) error {
	token, err := a.accountToken()
	if err != nil {
		return err
	}
	return a.handleAuthError(a.api.LeaveChallenge(ctx, token, challengeID))
}

func (a *App) FamiliesLeaderboard(ctx context.Context, challengeID int) ([]challenge.LeaderboardEntry, error) {
	token, err := a.accountToken()
	if err != nil {
		return nil, err
	}
	entries, err := a.api.FamiliesLeaderboard(ctx, token, challengeID)
	if err != nil {
		return nil, a.handleAuthError(err)
	}
	return entries, nil
}

// Watch следит за датчиком и отправляет шаги по таймеру до сигнала завершения или отмены ctx
func (a *App) Watch(ctx context.Context) error {
	r, err := a.Steps(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	defer cancel()

	go a.handleSignals(ctx)

	if a.sensor.IsAvailable() {
		now := a.now()
		today, err := a.sensor.CountSince(ctx, steps.StartOfDay(now), now)
		if err != nil {
			a.log.Warn("Не удалось прочитать шаги датчика", "error", err)
		} else if r.ReconcileOnInit(today) {
			a.log.Info("Принято показание датчика", "steps", today)
		}

		unsubscribe, err := a.sensor.Subscribe(func(delta int) {
			if err := r.OnSensorDelta(delta); err != nil {
				a.log.Warn("Приращение отклонено", "delta", delta, "error", err)
			}
		})
		if err != nil {
			a.log.Warn("Подписка на датчик не удалась", "error", err)
		} else {
			defer unsubscribe()
		}
	} else {
		a.log.Info("Датчик недоступен, используйте gfit steps set")
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		r.Run(ctx)
	}()

	a.log.Info("Клиент запущен",
		"server", a.config.ServerAddress,
		"env", a.config.Env,
		"interval", a.config.SyncInterval.String(),
	)

	a.wg.Wait()
	return nil
}

func (a *App) handleSignals(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		a.log.Info("Получен сигнал завершения", "signal", sig.String())
		if a.cancel != nil {
			a.cancel()
		}
	case <-ctx.Done():
	}
}

// Shutdown досылает шаги и освобождает ресурсы
func (a *App) Shutdown(ctx context.Context) error {
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	err := a.closeReconciler(ctx)
	if err != nil {
		a.log.Warn("Шаги не досланы при завершении", "error", err)
	}

	if closer, ok := a.sensor.(interface{ Close() }); ok {
		closer.Close()
	}
	if storageErr := a.storage.Close(); storageErr != nil {
		a.log.Warn("Ошибка закрытия кэша", "error", storageErr)
	}
	return err
}
