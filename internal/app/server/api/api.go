// GET  /api/v1/health                            # Состояние сервиса (публичный)
// POST /api/v1/register                          # Регистрация семьи (публичный)
// POST /api/v1/login                             # Вход (публичный)
// GET  /api/v1/get-family-members                # Участники семьи (auth)
// POST /api/v1/add-family-member                 # Новый участник (auth)
// POST /api/v1/steps/submit-steps                # Шаги за день (auth)
// POST /api/v1/steps/get-member-steps            # История шагов (auth)
// POST /api/v1/fitness/update-step-goal          # Дневная цель (auth)
// GET  /api/v1/challenges/get-active-challenge   # Активный челлендж (auth)
// POST /api/v1/challenges/get-available-challenges
// POST /api/v1/challenges/get-challenge-history
// POST /api/v1/challenges/get-families-leaderboard
// POST /api/v1/challenges/join-challenge
// POST /api/v1/challenges/leave-challenge

package api

import (
	challengeAPI "gfit/internal/app/server/api/http/challenge"
	healthAPI "gfit/internal/app/server/api/http/health"
	memberAPI "gfit/internal/app/server/api/http/member"
	"gfit/internal/app/server/api/http/middleware"
	"gfit/internal/app/server/api/http/middleware/auth"
	"gfit/internal/app/server/api/http/middleware/logger"
	stepsAPI "gfit/internal/app/server/api/http/steps"
	userAPI "gfit/internal/app/server/api/http/user"
	"gfit/internal/app/server/config"
	"gfit/internal/domain/challenge"
	"gfit/internal/domain/member"
	"gfit/internal/domain/session"
	"gfit/internal/domain/steps"
	"gfit/internal/domain/user"
	"gfit/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health    *healthAPI.Handler
	User      *userAPI.Handler
	Member    *memberAPI.Handler
	Steps     *stepsAPI.Handler
	Challenge *challengeAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register. cache может быть nil
func New(storage *postgres.Storage, cache challenge.Cache, cfg *config.Config, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	humaConfig := huma.DefaultConfig("G-Fit API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, humaConfig)

	h := handlers(storage, cache, cfg, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Member.SetupRoutes(API)
	h.Steps.SetupRoutes(API)
	h.Challenge.SetupRoutes(API)

	return mux
}

func handlers(storage *postgres.Storage, cache challenge.Cache, cfg *config.Config, log *slog.Logger) *Handlers {
	sessionService := session.NewService(cfg.Session.Secret, cfg.Session.AccountTTL, cfg.Session.MemberTTL, log)
	authMW := auth.New(sessionService, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storage, log, middlewares.GetAllAndClear())

	userRepo := postgres.NewUserRepository(storage.Pool(), log)
	userService := user.NewService(userRepo, user.NewPasswordValidator(), log)
	middlewares.Add(loggerMW.Middleware())
	userHandler := userAPI.NewHandler(userService, sessionService, log, middlewares.GetAllAndClear())

	memberRepo := postgres.NewMemberRepository(storage.Pool(), log)
	memberService := member.NewService(memberRepo, sessionService, log)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	memberHandler := memberAPI.NewHandler(memberService, log, middlewares.GetAllAndClear())

	challengeRepo := postgres.NewChallengeRepository(storage.Pool(), log)
	challengeService := challenge.NewService(challengeRepo, cache, log, &challenge.ServiceConfig{
		HistoryPageSize: cfg.Challenge.HistoryPageSize,
	})

	stepsRepo := postgres.NewStepsRepository(storage.Pool(), log)
	stepsService := steps.NewService(stepsRepo, sessionService, log).WithNotifier(challengeService)
	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	stepsHandler := stepsAPI.NewHandler(stepsService, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	challengeHandler := challengeAPI.NewHandler(challengeService, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:    healthHandler,
		User:      userHandler,
		Member:    memberHandler,
		Steps:     stepsHandler,
		Challenge: challengeHandler,
	}
}
