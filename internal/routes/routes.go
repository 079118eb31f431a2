package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/whysoezzy/meetups_server/internal/auth"
	"github.com/whysoezzy/meetups_server/internal/community"
	"github.com/whysoezzy/meetups_server/internal/config"
	"github.com/whysoezzy/meetups_server/internal/meeting"
	"github.com/whysoezzy/meetups_server/internal/middleware"
	"github.com/whysoezzy/meetups_server/internal/sms"
	"github.com/whysoezzy/meetups_server/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside of dev the backing stores are mandatory, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// Repositories fall back to in-memory implementations in dev mode.
	var userRepo user.Repository
	var meetingRepo meeting.Repository
	var communityRepo community.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		meetingRepo = meeting.NewPostgresRepository(d.DB)
		communityRepo = community.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
		meetingRepo = meeting.NewMemoryRepository()
		communityRepo = community.NewMemoryRepository()
	}

	// The challenge map lives in redis when available so verification stays
	// single-use across instances; the memory store covers single-node dev.
	var challenges auth.ChallengeStore
	if d.Cache != nil {
		challenges = auth.NewRedisChallengeStore(d.Cache, d.Cfg.OTPDigits, d.Cfg.OTPTTL)
	} else {
		challenges = auth.NewMemoryChallengeStore(d.Cfg.OTPDigits, d.Cfg.OTPTTL)
	}

	userSvc := user.NewService(userRepo)
	meetingSvc := meeting.NewService(meetingRepo)
	communitySvc := community.NewService(communityRepo, meetingSvc)
	tokens := auth.NewTokenIssuer(d.Cfg)
	sender := sms.NewLogSender(d.Logger, d.Cfg.SMSEnabled)
	authSvc := auth.NewService(challenges, userSvc, tokens, sender)

	authHandler := auth.NewHandler(authSvc)
	userHandler := user.NewHandler(userSvc)
	meetingHandler := meeting.NewHandler(meetingSvc)
	communityHandler := community.NewHandler(communitySvc)

	authGuard := middleware.JWTAuth(tokens)

	RegisterAuthRoutes(app, authHandler)
	RegisterUserRoutes(app, userHandler, authGuard)
	RegisterMeetingRoutes(app, meetingHandler, authGuard)
	RegisterCommunityRoutes(app, communityHandler, authGuard)

	return nil
}
