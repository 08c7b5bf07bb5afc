package stub

import (
	"context"
	"log"
	"time"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/db"
	"github.com/son-changwook/routepick/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       db.Querier
	Redis    *redis.Client
	Stream   *stream.Hub
	Fixtures *Fixtures
	Issuer   *auth.Issuer
	Uploads  *Uploads

	logins        AttemptLimiter
	verifications AttemptLimiter
}

type options struct {
	fixtures       *Fixtures
	requestLimit   int
	withoutLogging bool
}

type Option func(*options)

// WithFixtures replaces the seeded dataset.
func WithFixtures(f *Fixtures) Option { return func(o *options) { o.fixtures = f } }

// WithRequestLimit sets the per-IP requests per minute. Zero disables it.
func WithRequestLimit(n int) Option { return func(o *options) { o.requestLimit = n } }

// WithoutRequestLog drops the access log middleware.
func WithoutRequestLog() Option { return func(o *options) { o.withoutLogging = true } }

// NewServer builds the stub. pool and redisClient may be nil: uploads are
// then not recorded and limits and realtime stay in process.
func NewServer(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client, opts ...Option) (*Server, error) {
	o := options{requestLimit: constants.RateLimitPerMinute}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fixtures == nil {
		f, err := NewFixtures(time.Now)
		if err != nil {
			return nil, err
		}
		o.fixtures = f
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		BodyLimit:             constants.MaxUploadBytes + 1<<20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if !o.withoutLogging {
		app.Use(logger.New())
	}
	app.Use(countRequests)
	if o.requestLimit > 0 {
		app.Use(requestLimiter(o.requestLimit))
	}

	s := &Server{
		App:      app,
		Cfg:      cfg,
		Redis:    redisClient,
		Stream:   stream.NewHub(redisClient),
		Fixtures: o.fixtures,
		Issuer:   auth.NewIssuer(cfg.JWTSecret),
	}
	if pool != nil {
		s.DB = pool
	}
	s.Uploads = NewUploads(s.DB)
	if redisClient != nil {
		s.logins = NewRedisLimiter(redisClient, constants.RateLimitLoginAttempts, time.Hour)
		s.verifications = NewRedisLimiter(redisClient, constants.RateLimitVerifyPerEmailHour, time.Hour)
	} else {
		s.logins = NewMemoryLimiter(constants.RateLimitLoginAttempts, time.Hour)
		s.verifications = NewMemoryLimiter(constants.RateLimitVerifyPerEmailHour, time.Hour)
	}

	registerRoutes(s)
	return s, nil
}

// Prepare creates the upload table when a database is configured.
func (s *Server) Prepare(ctx context.Context) error {
	return s.Uploads.EnsureSchema(ctx)
}

// Close stops the realtime hub.
func (s *Server) Close() {
	s.Stream.Close()
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return ok(c, fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metricsHandler())

	jwt := auth.JWTMiddleware(s.Issuer)
	api := s.App.Group("/api")

	registerAuth(api.Group("/auth"), s, jwt)
	registerGyms(api, s, jwt)
	registerRoutesAPI(api, s, jwt)
	registerTags(api, s, jwt)
	registerUsers(api, s, jwt)
	registerPayments(api, s, jwt)
	registerActivity(api, s, jwt)
	registerDashboard(api.Group("/dashboard"), s, jwt)
	stream.RegisterRoutes(s.App, s.Stream, jwt)
}

// change is the data of a realtime update.
type change struct {
	Action string `json:"action"`
	ID     int64  `json:"id"`
	Entity any    `json:"entity,omitempty"`
}

func (s *Server) publish(typ contract.RealtimeUpdateType, action string, id int64, entity any) {
	if err := s.Stream.PublishUpdate(typ, change{Action: action, ID: id, Entity: entity}); err != nil {
		log.Printf("stub: publish %s: %v", typ, err)
	}
}

// actor names the caller for audit columns.
func actor(c *fiber.Ctx) string {
	if claims := auth.ClaimsFrom(c); claims != nil {
		return claims.Email
	}
	return "anonymous"
}

func callerID(c *fiber.Ctx) int64 {
	if claims := auth.ClaimsFrom(c); claims != nil {
		return claims.UserID
	}
	return 0
}
