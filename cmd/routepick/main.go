package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/son-changwook/routepick/internal/apiclient"
	"github.com/son-changwook/routepick/internal/cache"
	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/db"
	"github.com/son-changwook/routepick/internal/session"

	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain
var exit = os.Exit

func main() {
	exit(mainRunner(mainDepsProvider(), os.Args[1:]))
}

type mainDeps struct {
	loadConfig   func() config.Config
	connectRedis func(config.Config) *redis.Client
	openMirror   func(config.Config) (db.Querier, func(), error)
	notify       func(chan<- os.Signal, ...os.Signal)
	doer         apiclient.Doer
	stdout       io.Writer
	stderr       io.Writer
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:   config.Load,
		connectRedis: db.ConnectRedis,
		openMirror:   openPostgres,
		notify:       signal.Notify,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

func openPostgres(cfg config.Config) (db.Querier, func(), error) {
	pool, err := db.ConnectPostgres(cfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

// env is what every command runs against.
type env struct {
	cfg        config.Config
	out        io.Writer
	errOut     io.Writer
	rdb        *redis.Client
	session    *session.Session
	api        *apiclient.Client
	cache      *cache.Cache
	openMirror func(config.Config) (db.Querier, func(), error)
}

// newEnv keeps the session in Redis when it is configured, so a login
// outlives the process. Without Redis the session ends with the command.
func newEnv(cfg config.Config, deps mainDeps, rdb *redis.Client) *env {
	var store session.Store = session.NewMemoryStore()
	if rdb != nil {
		store = session.NewRedisStore(rdb, cfg.SessionNamespace)
	}
	sess := session.New(store, session.KeysFor(cfg.Profile))
	opts := apiclient.OptionsFromConfig(cfg, sess)
	opts.Doer = deps.doer
	api := apiclient.New(opts)
	return &env{
		cfg:        cfg,
		out:        deps.stdout,
		errOut:     deps.stderr,
		rdb:        rdb,
		session:    sess,
		api:        api,
		cache:      cache.New(api, rdb),
		openMirror: deps.openMirror,
	}
}

// realMain returns the process exit code: 0 on success, 1 when the command
// fails and 2 for usage errors.
func realMain(deps mainDeps, args []string) int {
	if len(args) == 0 {
		usage(deps.stderr)
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(deps.stderr, "unknown command %q\n", args[0])
		usage(deps.stderr)
		return 2
	}

	cfg := deps.loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	rdb := deps.connectRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	if err := cmd.run(ctx, newEnv(cfg, deps, rdb), args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(deps.stderr, "routepick %s: %v\n", args[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "usage: routepick <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
}

func init() {
	log.SetPrefix("routepick: ")
}
