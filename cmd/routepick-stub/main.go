package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/db"
	"github.com/son-changwook/routepick/internal/stub"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain
var exit = os.Exit

func main() {
	exit(mainRunner(mainDepsProvider(), os.Args[1:]))
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, runParams) error
	stderr          io.Writer
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
		stderr:          os.Stderr,
	}
}

// runParams is everything one stub process needs. pg and rdb may be nil.
type runParams struct {
	cfg     config.Config
	pg      *pgxpool.Pool
	rdb     *redis.Client
	signals <-chan os.Signal
	listen  ListenFunc
	options []stub.Option
}

// realMain keeps going without Postgres: uploads are then not recorded.
func realMain(deps mainDeps, args []string) int {
	cfg := deps.loadConfig()

	fs := flag.NewFlagSet("routepick-stub", flag.ContinueOnError)
	fs.SetOutput(deps.stderr)
	addr := fs.String("addr", cfg.ServerPort, "listen address")
	rate := fs.Int("rate", constants.RateLimitPerMinute, "requests per minute per client, 0 disables the limit")
	quiet := fs.Bool("quiet", false, "do not log requests")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	cfg.ServerPort = *addr

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		log.Printf("postgres unavailable, uploads will not be recorded: %v", err)
		pg = nil
	}
	rdb := deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	p := runParams{cfg: cfg, pg: pg, rdb: rdb, signals: signals, options: []stub.Option{stub.WithRequestLimit(*rate)}}
	if *quiet {
		p.options = append(p.options, stub.WithoutRequestLog())
	}
	if err := deps.run(context.Background(), p); err != nil {
		log.Printf("stub exited with error: %v", err)
		return 1
	}
	return 0
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

const shutdownTimeout = 5 * time.Second

// Run serves the fixture backend until a signal arrives, ctx ends or
// listening fails, then releases the connections it was given.
func Run(ctx context.Context, p runParams) error {
	srv, err := stub.NewServer(p.cfg, p.pg, p.rdb, p.options...)
	if err != nil {
		return err
	}
	defer srv.Close()
	defer func() {
		if p.pg != nil {
			p.pg.Close()
		}
		if p.rdb != nil {
			_ = p.rdb.Close()
		}
	}()

	if err := srv.Prepare(ctx); err != nil {
		log.Printf("upload table unavailable: %v", err)
	}

	listen := p.listen
	if listen == nil {
		listen = defaultListen
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, p.cfg.ServerPort)
	}()
	log.Printf("routepick stub listening on %s (accounts %s, %s, %s; password %s)",
		p.cfg.ServerPort, stub.AdminEmail, stub.GymAdminEmail, stub.ClimberEmail, stub.DemoPassword)

	select {
	case <-p.signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return shutdownFn(srv.App, shutdownCtx)
}
