package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/db"
	"github.com/son-changwook/routepick/internal/stub"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

type fiberDoer struct{ app *fiber.App }

func (d fiberDoer) Do(req *http.Request) (*http.Response, error) { return d.app.Test(req, -1) }

// syncBuffer is written by the watch goroutine while the test polls it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harness struct {
	t      *testing.T
	srv    *stub.Server
	redis  *miniredis.Miniredis
	cfg    config.Config
	mirror func(config.Config) (db.Querier, func(), error)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f, err := stub.NewFixtures(time.Now)
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	srv, err := stub.NewServer(config.Config{JWTSecret: "test-secret"}, nil, nil,
		stub.WithFixtures(f), stub.WithoutRequestLog(), stub.WithRequestLimit(0))
	if err != nil {
		t.Fatalf("stub server: %v", err)
	}
	t.Cleanup(srv.Close)
	mr := miniredis.RunT(t)
	return &harness{
		t:     t,
		srv:   srv,
		redis: mr,
		cfg: config.Config{
			Profile:          config.ProfileAdmin,
			APIBaseURL:       "http://stub.test",
			WSBaseURL:        "ws://127.0.0.1:1",
			APITimeout:       5 * time.Second,
			RedisAddr:        mr.Addr(),
			SessionNamespace: "cli-test",
		},
		mirror: func(config.Config) (db.Querier, func(), error) {
			return nil, nil, errors.New("no mirror database in this test")
		},
	}
}

func (h *harness) deps(stdout, stderr io.Writer, notify func(chan<- os.Signal, ...os.Signal)) mainDeps {
	if notify == nil {
		notify = func(chan<- os.Signal, ...os.Signal) {}
	}
	return mainDeps{
		loadConfig:   func() config.Config { return h.cfg },
		connectRedis: db.ConnectRedis,
		openMirror:   h.mirror,
		notify:       notify,
		doer:         fiberDoer{h.srv.App},
		stdout:       stdout,
		stderr:       stderr,
	}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	code := realMain(h.deps(&stdout, &stderr, nil), args)
	return code, stdout.String(), stderr.String()
}

func (h *harness) login(email string) {
	h.t.Helper()
	code, _, stderr := h.run("login", "-email", email, "-password", stub.DemoPassword)
	if code != 0 {
		h.t.Fatalf("login exit %d: %s", code, stderr)
	}
}

func TestUsage(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run()
	if code != 2 || !strings.Contains(stderr, "usage: routepick") || !strings.Contains(stderr, "mirror") {
		t.Fatalf("no args: exit %d, %q", code, stderr)
	}
	code, _, stderr = h.run("climb")
	if code != 2 || !strings.Contains(stderr, `unknown command "climb"`) {
		t.Fatalf("unknown command: exit %d, %q", code, stderr)
	}
	if code, _, _ = h.run("gyms"); code != 2 {
		t.Fatalf("missing subcommand: exit %d", code)
	}
	if code, _, _ = h.run("routes", "get"); code != 2 {
		t.Fatalf("missing id: exit %d", code)
	}
	if code, _, _ = h.run("gyms", "list", "-bogus"); code != 2 {
		t.Fatalf("bad flag: exit %d", code)
	}
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("whoami")
	if code != 1 || !strings.Contains(stderr, "not signed in") {
		t.Fatalf("whoami before login: exit %d, %q", code, stderr)
	}

	code, stdout, _ := h.run("login", "-email", stub.AdminEmail, "-password", stub.DemoPassword)
	if code != 0 || !strings.Contains(stdout, "signed in as "+stub.AdminEmail) {
		t.Fatalf("login: exit %d, %q", code, stdout)
	}
	if keys := h.redis.Keys(); len(keys) == 0 {
		t.Fatalf("expected session keys in redis")
	}

	code, stdout, _ = h.run("whoami")
	if code != 0 {
		t.Fatalf("whoami exit %d", code)
	}
	for _, want := range []string{stub.AdminEmail, "ADMIN", "token expires", "permissions:", "gym:view"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("whoami output missing %q:\n%s", want, stdout)
		}
	}

	if code, stdout, _ = h.run("logout"); code != 0 || !strings.Contains(stdout, "signed out") {
		t.Fatalf("logout: exit %d, %q", code, stdout)
	}
	if code, _, _ = h.run("whoami"); code != 1 {
		t.Fatalf("whoami after logout: exit %d", code)
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run("login", "-email", stub.AdminEmail, "-password", "nope")
	if code != 1 || !strings.Contains(stderr, "routepick login:") {
		t.Fatalf("exit %d, %q", code, stderr)
	}
}

func TestLoginPasswordFromEnvironment(t *testing.T) {
	h := newHarness(t)
	orig := lookupEnv
	lookupEnv = func(key string) string {
		if key == "ROUTEPICK_PASSWORD" {
			return stub.DemoPassword
		}
		return ""
	}
	defer func() { lookupEnv = orig }()

	if code, _, stderr := h.run("login", "-email", stub.ClimberEmail); code != 0 {
		t.Fatalf("exit %d, %q", code, stderr)
	}
}

func TestGymsCommands(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	code, stdout, stderr := h.run("gyms", "list")
	if code != 0 {
		t.Fatalf("gyms list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "더클라임") || !strings.Contains(stdout, "클라이밍파크") || !strings.Contains(stdout, "2 total") {
		t.Fatalf("gyms list output:\n%s", stdout)
	}

	code, stdout, _ = h.run("gyms", "branches", "1")
	if code != 0 || !strings.Contains(stdout, "강남점") || strings.Contains(stdout, "서면점") {
		t.Fatalf("branches: exit %d\n%s", code, stdout)
	}
	if !h.redis.Exists("gym:branches:1") {
		t.Fatalf("expected branches to be cached, keys %v", h.redis.Keys())
	}

	code, stdout, _ = h.run("gyms", "nearby", "-lat", "37.4979", "-lng", "127.0276", "-radius", "3")
	if code != 0 || !strings.Contains(stdout, "강남점") || strings.Contains(stdout, "신림점") {
		t.Fatalf("nearby: exit %d\n%s", code, stdout)
	}
}

func TestRoutesCommands(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	code, stdout, stderr := h.run("routes", "list", "-branch", "1", "-json")
	if code != 0 {
		t.Fatalf("routes list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"content"`) || !strings.Contains(stdout, `"branchId": 1`) {
		t.Fatalf("routes list json:\n%s", stdout)
	}

	if code, _, stderr = h.run("routes", "list", "-status", "gone"); code != 1 || !strings.Contains(stderr, "RouteStatus") {
		t.Fatalf("bad status: exit %d, %q", code, stderr)
	}

	code, stdout, _ = h.run("routes", "status", "1", "retired")
	if code != 0 || !strings.Contains(stdout, "route 1 is RETIRED") {
		t.Fatalf("status: exit %d, %q", code, stdout)
	}

	code, stdout, _ = h.run("routes", "tags", "1")
	if code != 0 || !strings.Contains(stdout, "RELEVANCE") {
		t.Fatalf("tags: exit %d\n%s", code, stdout)
	}

	if code, _, stderr = h.run("routes", "get", "999"); code != 1 || !strings.Contains(stderr, "routepick routes:") {
		t.Fatalf("missing route: exit %d, %q", code, stderr)
	}
}

func TestTagsImport(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	file := filepath.Join(t.TempDir(), "tags.csv")
	csv := "tagName,tagType,displayOrder\n" +
		"볼륨,HOLD_TYPE,8\n" +
		",STYLE,1\n" +
		"토훅,FLYING,2\n"
	if err := os.WriteFile(file, []byte(csv), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	code, stdout, stderr := h.run("tags", "import", "-dry-run", file)
	if code != 0 {
		t.Fatalf("dry run exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "rows=3 ok=1 failed=2 created=0") {
		t.Fatalf("dry run summary:\n%s", stdout)
	}

	code, stdout, _ = h.run("tags", "import", file)
	if code != 0 || !strings.Contains(stdout, "created=1") {
		t.Fatalf("import: exit %d\n%s", code, stdout)
	}

	code, stdout, _ = h.run("tags", "list", "-name", "볼륨")
	if code != 0 || !strings.Contains(stdout, "HOLD_TYPE") {
		t.Fatalf("imported tag not listed: exit %d\n%s", code, stdout)
	}

	if code, _, _ = h.run("tags", "import"); code != 2 {
		t.Fatalf("import without file: exit %d", code)
	}
}

func TestPaymentsCommands(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	code, stdout, stderr := h.run("payments", "list", "-status", "completed")
	if code != 0 {
		t.Fatalf("payments list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "COMPLETED") || strings.Contains(stdout, "FAILED") {
		t.Fatalf("payments list:\n%s", stdout)
	}

	if code, _, _ = h.run("payments", "list", "-from", "yesterday"); code != 1 {
		t.Fatalf("bad date: exit %d", code)
	}

	code, stdout, stderr = h.run("payments", "refund", "1", "-amount", "1000", "-reason", "중복 결제")
	if code != 0 {
		t.Fatalf("refund exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "for payment 1: 1000 KRW, PENDING") {
		t.Fatalf("refund output %q", stdout)
	}
}

func TestStatsCommand(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	code, stdout, stderr := h.run("stats")
	if code != 0 {
		t.Fatalf("stats exit %d: %s", code, stderr)
	}
	for _, want := range []string{"users", "gyms", "revenue this month", "route growth %"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stats missing %q:\n%s", want, stdout)
		}
	}

	code, stdout, _ = h.run("stats", "-series", "climbs", "-days", "3")
	if code != 0 {
		t.Fatalf("series exit %d", code)
	}
	if lines := strings.Split(strings.TrimSpace(stdout), "\n"); len(lines) != 4 || !strings.HasPrefix(lines[0], "DATE") {
		t.Fatalf("series output:\n%s", stdout)
	}

	code, stdout, _ = h.run("stats", "-chart", "users-by-type")
	if code != 0 || !strings.Contains(stdout, "사용자 유형") {
		t.Fatalf("chart: exit %d\n%s", code, stdout)
	}

	if code, _, stderr = h.run("stats", "-chart", "nope"); code != 1 || !strings.Contains(stderr, "nope") {
		t.Fatalf("unknown chart: exit %d, %q", code, stderr)
	}
}

func TestStatsNeedsPermission(t *testing.T) {
	h := newHarness(t)
	h.login(stub.ClimberEmail)
	if code, _, _ := h.run("stats"); code != 1 {
		t.Fatalf("regular user read stats: exit %d", code)
	}
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	code, stdout, stderr := h.run("export", "tag", "-columns", "tagId,tagName")
	if code != 0 {
		t.Fatalf("export exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if lines[0] != "tagId,tagName" || lines[1] != "1,다이노" {
		t.Fatalf("export output:\n%s", stdout)
	}

	out := filepath.Join(t.TempDir(), "gyms.csv")
	if code, _, stderr = h.run("export", "gym", "-no-header", "-o", out); code != 0 {
		t.Fatalf("export to file exit %d: %s", code, stderr)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if rows := strings.Split(strings.TrimSpace(string(b)), "\n"); len(rows) != 2 || !strings.HasPrefix(rows[0], "1,더클라임,ACTIVE") {
		t.Fatalf("gym export:\n%s", b)
	}

	if code, _, _ = h.run("export", "tag", "-format", "xlsx"); code != 1 {
		t.Fatalf("unknown format: exit %d", code)
	}
	if code, _, _ = h.run("export", "climb"); code != 1 {
		t.Fatalf("unknown kind: exit %d", code)
	}
}

func TestMirrorList(t *testing.T) {
	h := newHarness(t)
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	closed := false
	h.mirror = func(config.Config) (db.Querier, func(), error) {
		return mock, func() { closed = true; mock.Close() }, nil
	}
	synced := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY id`).
		WithArgs("tag").
		WillReturnRows(pgxmock.NewRows([]string{"kind", "id", "payload", "synced_at"}).
			AddRow("tag", int64(1), []byte(`{"tagId":1}`), synced).
			AddRow("tag", int64(2), []byte(`{"tagId":2}`), synced))

	code, stdout, stderr := h.run("mirror", "list", "tag")
	if code != 0 {
		t.Fatalf("mirror list exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "BYTES") || strings.Count(stdout, "\n") != 3 {
		t.Fatalf("mirror list output:\n%s", stdout)
	}
	if !closed {
		t.Fatalf("expected mirror database to be closed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMirrorSync(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	h.mirror = func(config.Config) (db.Querier, func(), error) { return mock, func() {}, nil }

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS contract_snapshots`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	for _, id := range []int64{1, 2} {
		mock.ExpectExec(`INSERT INTO contract_snapshots`).
			WithArgs("gym", id, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectExec(`DELETE FROM contract_snapshots`).
		WithArgs("gym", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	code, stdout, stderr := h.run("mirror", "sync", "-kinds", "gym")
	if code != 0 {
		t.Fatalf("mirror sync exit %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "synced=2 pruned=1") {
		t.Fatalf("mirror sync output %q", stdout)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	if code, _, _ = h.run("mirror", "sync", "-kinds", "climb"); code != 1 {
		t.Fatalf("unknown kind: exit %d", code)
	}
}

func TestMirrorUnavailable(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run("mirror", "list", "gym")
	if code != 1 || !strings.Contains(stderr, "open mirror database") {
		t.Fatalf("exit %d, %q", code, stderr)
	}
}

func TestWatchPrintsUpdates(t *testing.T) {
	h := newHarness(t)
	h.login(stub.AdminEmail)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = h.srv.App.Listener(ln) }()
	t.Cleanup(func() { _ = h.srv.App.Shutdown() })
	h.cfg.WSBaseURL = "ws://" + ln.Addr().String()

	var stdout, stderr syncBuffer
	sigs := make(chan chan<- os.Signal, 1)
	notify := func(c chan<- os.Signal, _ ...os.Signal) { sigs <- c }
	exitCode := make(chan int, 1)
	go func() { exitCode <- realMain(h.deps(&stdout, &stderr, notify), []string{"watch", "-topics", "route_update"}) }()
	signals := <-sigs

	waitFor(t, func() bool { return strings.Contains(stderr.String(), "connected") })
	waitFor(t, func() bool {
		_ = h.srv.Stream.PublishUpdate(contract.UpdateRoute, map[string]any{"routeId": 7})
		return strings.Contains(stdout.String(), `"ROUTE_UPDATE"`)
	})

	signals <- syscall.SIGINT
	select {
	case code := <-exitCode:
		if code != 0 {
			t.Fatalf("watch exit %d: %s", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop on signal")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWithoutRedisSessionIsPerProcess(t *testing.T) {
	for name, addr := range map[string]string{"unset": "", "unreachable": "127.0.0.1:1"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.cfg.RedisAddr = addr

			var stdout, stderr bytes.Buffer
			code := realMain(h.deps(&stdout, &stderr, nil), []string{"login", "-email", stub.AdminEmail, "-password", stub.DemoPassword})
			if code != 0 {
				t.Fatalf("login exit %d: %s", code, stderr.String())
			}
			if code, _, _ := h.run("whoami"); code != 1 {
				t.Fatalf("session outlived the process without redis: exit %d", code)
			}
		})
	}
}

func TestDefaultDeps(t *testing.T) {
	deps := defaultDeps()
	if deps.loadConfig == nil || deps.connectRedis == nil || deps.openMirror == nil || deps.notify == nil {
		t.Fatalf("expected default deps to be set")
	}
	if deps.stdout != os.Stdout || deps.stderr != os.Stderr {
		t.Fatalf("expected standard streams")
	}
	if deps.doer != nil {
		t.Fatalf("expected the API client to pick its own transport")
	}
}

func TestOpenPostgresError(t *testing.T) {
	if _, _, err := openPostgres(config.Config{PostgresURL: "://bad"}); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestMainUsesRunner(t *testing.T) {
	origProvider, origRunner, origExit, origArgs := mainDepsProvider, mainRunner, exit, os.Args
	defer func() { mainDepsProvider, mainRunner, exit, os.Args = origProvider, origRunner, origExit, origArgs }()

	os.Args = []string{"routepick", "gyms", "list"}
	mainDepsProvider = func() mainDeps { return mainDeps{} }
	var gotArgs []string
	mainRunner = func(_ mainDeps, args []string) int {
		gotArgs = args
		return 3
	}
	code := -1
	exit = func(c int) { code = c }

	main()

	if code != 3 || len(gotArgs) != 2 || gotArgs[0] != "gyms" {
		t.Fatalf("main exit %d args %v", code, gotArgs)
	}
}

func TestCollectWalksPages(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, f contract.BaseFilter) (*contract.PageResponse[int], error) {
		calls++
		page := *f.Page
		if *f.Size != contract.MaxPageSize {
			t.Fatalf("size %d", *f.Size)
		}
		return &contract.PageResponse[int]{Content: []int{page}, Number: page, TotalPages: 3, Last: page == 2}, nil
	}
	all, err := collect(context.Background(), contract.BaseFilter{}, fetch)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if calls != 3 || len(all) != 3 || all[2] != 2 {
		t.Fatalf("calls %d, got %v", calls, all)
	}
}
