package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/export"
	"github.com/son-changwook/routepick/internal/mirror"
	"github.com/son-changwook/routepick/internal/stream"
)

func runPayments(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "refund")
	if err != nil {
		return err
	}
	if sub == "refund" {
		fs := e.flags("payments refund")
		amount := fs.Int64("amount", 0, "refund amount in KRW")
		reason := fs.String("reason", "", "refund reason")
		if len(rest) == 0 {
			return fmt.Errorf("%w: payments refund <id> -amount N -reason text", errUsage)
		}
		id, err := idArg(rest, 0, "payment id")
		if err != nil {
			return err
		}
		if err := parseFlags(fs, rest[1:]); err != nil {
			return err
		}
		refund, err := e.api.Payments.Refund(ctx, id, contract.RefundRequest{RefundAmount: *amount, RefundReason: *reason})
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "refund %d for payment %d: %d KRW, %s\n", refund.RefundID, refund.PaymentID, refund.RefundAmount, refund.RefundStatus)
		return nil
	}

	fs := e.flags("payments list")
	status := fs.String("status", "", "payment status")
	method := fs.String("method", "", "payment method")
	user := fs.Int64("user", 0, "user id")
	from := fs.String("from", "", "start date, YYYY-MM-DD")
	to := fs.String("to", "", "end date, YYYY-MM-DD")
	asJSON := fs.Bool("json", false, "print JSON")
	page := paging(fs)
	if err := parseFlags(fs, rest); err != nil {
		return err
	}
	f := contract.PaymentFilter{BaseFilter: page(), UserID: optionalID(*user)}
	if *status != "" {
		if f.Status, err = contract.ParsePaymentStatus(strings.ToUpper(*status)); err != nil {
			return err
		}
	}
	if *method != "" {
		if f.PaymentMethod, err = contract.ParsePaymentMethod(strings.ToUpper(*method)); err != nil {
			return err
		}
	}
	if f.StartDate, err = optionalDate(*from); err != nil {
		return err
	}
	if f.EndDate, err = optionalDate(*to); err != nil {
		return err
	}
	res, err := e.api.Payments.List(ctx, f)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(e.out, res)
	}
	rows := make([][]string, 0, len(res.Content))
	for _, p := range res.Content {
		rows = append(rows, []string{
			strconv.FormatInt(p.PaymentID, 10),
			strconv.FormatInt(p.UserID, 10),
			strconv.FormatInt(p.Amount, 10),
			strconv.FormatInt(p.Refunded(), 10),
			string(p.PaymentMethod),
			string(p.PaymentStatus),
		})
	}
	if err := printTable(e.out, []string{"ID", "USER", "AMOUNT", "REFUNDED", "METHOD", "STATUS"}, rows); err != nil {
		return err
	}
	pageFooter(e.out, res)
	return nil
}

func runStats(ctx context.Context, e *env, args []string) error {
	fs := e.flags("stats")
	series := fs.String("series", "", "print a daily series: users, routes, climbs or revenue")
	days := fs.Int("days", 7, "series length in days, ending today")
	chart := fs.String("chart", "", "print a chart: routes-by-status, routes-by-level, payments-by-method or users-by-type")
	asJSON := fs.Bool("json", false, "print JSON")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	switch {
	case *series != "":
		if *days < 1 {
			return fmt.Errorf("%w: -days must be positive", errUsage)
		}
		today := time.Now().UTC()
		to := contract.NewDate(today.Year(), today.Month(), today.Day())
		from := contract.Date{Time: to.AddDate(0, 0, -(*days - 1))}
		points, err := e.api.Dashboard.TimeSeries(ctx, *series, from, to)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e.out, points)
		}
		rows := make([][]string, 0, len(points))
		for _, p := range points {
			rows = append(rows, []string{p.Date.String(), strconv.FormatFloat(p.Value, 'f', -1, 64)})
		}
		return printTable(e.out, []string{"DATE", strings.ToUpper(*series)}, rows)

	case *chart != "":
		c, err := e.api.Dashboard.Chart(ctx, *chart)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e.out, c)
		}
		for _, ds := range c.Datasets {
			fmt.Fprintln(e.out, ds.Label)
			rows := make([][]string, 0, len(c.Labels))
			for i, label := range c.Labels {
				var v float64
				if i < len(ds.Data) {
					v = ds.Data[i]
				}
				rows = append(rows, []string{label, strconv.FormatFloat(v, 'f', -1, 64)})
			}
			if err := printTable(e.out, []string{"LABEL", "VALUE"}, rows); err != nil {
				return err
			}
		}
		return nil
	}

	s, err := e.api.Dashboard.Stats(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(e.out, s)
	}
	return printTable(e.out, []string{"METRIC", "VALUE"}, [][]string{
		{"users", strconv.FormatInt(s.TotalUsers, 10)},
		{"active users", strconv.FormatInt(s.ActiveUsers, 10)},
		{"gyms", strconv.FormatInt(s.TotalGyms, 10)},
		{"routes", strconv.FormatInt(s.TotalRoutes, 10)},
		{"climbs", strconv.FormatInt(s.TotalClimbs, 10)},
		{"revenue this month", strconv.FormatInt(s.RevenueThisMonth, 10)},
		{"user growth %", strconv.FormatFloat(s.UserGrowthRate, 'f', 1, 64)},
		{"route growth %", strconv.FormatFloat(s.RouteGrowthRate, 'f', 1, 64)},
	})
}

// runWatch relays the server's realtime stream to stdout, one JSON message
// per line, until interrupted.
func runWatch(ctx context.Context, e *env, args []string) error {
	fs := e.flags("watch")
	topics := fs.String("topics", "", "comma separated update types; empty for all")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	var names []string
	for _, t := range strings.Split(*topics, ",") {
		if t = strings.TrimSpace(t); t != "" {
			names = append(names, strings.ToUpper(t))
		}
	}

	hub := stream.NewHub(nil)
	defer hub.Close()
	sub := hub.Register(stream.AllTopics)
	defer hub.Unregister(sub)

	client := stream.NewClient(e.cfg.WSBaseURL, hub, func(ctx context.Context) (string, error) {
		tokens, err := e.session.Tokens(ctx)
		return tokens.AccessToken, err
	}, names...)
	client.OnConnect = func() { fmt.Fprintln(e.errOut, "connected") }

	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case err := <-done:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case msg := <-sub.Send:
			fmt.Fprintln(e.out, string(msg))
		}
	}
}

func runMirror(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "sync", "get", "list")
	if err != nil {
		return err
	}
	q, closeDB, err := e.openMirror(e.cfg)
	if err != nil {
		return fmt.Errorf("open mirror database: %w", err)
	}
	defer closeDB()
	store := mirror.NewStore(q)

	switch sub {
	case "sync":
		fs := e.flags("mirror sync")
		kinds := fs.String("kinds", "", "comma separated kinds; empty for all")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		var selected []mirror.Kind
		for _, k := range strings.Split(*kinds, ",") {
			if k = strings.TrimSpace(k); k == "" {
				continue
			}
			kind, err := mirror.ParseKind(k)
			if err != nil {
				return err
			}
			selected = append(selected, kind)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		reports, err := mirror.NewSyncer(e.api, store).Sync(ctx, selected...)
		for _, r := range reports {
			fmt.Fprintf(e.out, "%-8s synced=%d pruned=%d\n", r.Kind, r.Synced, r.Pruned)
		}
		return err

	case "get":
		if len(rest) == 0 {
			return fmt.Errorf("%w: mirror get <kind> <id>", errUsage)
		}
		kind, err := mirror.ParseKind(rest[0])
		if err != nil {
			return err
		}
		id, err := idArg(rest, 1, "id")
		if err != nil {
			return err
		}
		snap, err := store.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		return printJSON(e.out, snap)

	default:
		if len(rest) == 0 {
			return fmt.Errorf("%w: mirror list <kind>", errUsage)
		}
		kind, err := mirror.ParseKind(rest[0])
		if err != nil {
			return err
		}
		snaps, err := store.List(ctx, kind)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(snaps))
		for _, s := range snaps {
			rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.SyncedAt.Local().Format(time.DateTime), strconv.Itoa(len(s.Payload))})
		}
		return printTable(e.out, []string{"ID", "SYNCED", "BYTES"}, rows)
	}
}

var exportColumns = map[mirror.Kind][]string{
	mirror.KindGym:     {"gymId", "name", "gymStatus", "createdAt"},
	mirror.KindRoute:   {"routeId", "name", "branchId", "level.levelName", "color", "routeStatus"},
	mirror.KindTag:     export.TagColumns(),
	mirror.KindUser:    {"userId", "email", "nickName", "userType", "userStatus"},
	mirror.KindPayment: {"paymentId", "userId", "amount", "paymentMethod", "paymentStatus", "createdAt"},
}

func runExport(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: export <gym|route|tag|user|payment> [flags]", errUsage)
	}
	kind, err := mirror.ParseKind(args[0])
	if err != nil {
		return err
	}
	fs := e.flags("export")
	columns := fs.String("columns", strings.Join(exportColumns[kind], ","), "comma separated JSON field paths")
	format := fs.String("format", string(contract.FormatCSV), "output format")
	output := fs.String("o", "", "output file; stdout when empty")
	noHeader := fs.Bool("no-header", false, "omit the header row")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}
	opts := contract.ExportOptions{Columns: strings.Split(*columns, ","), IncludeHeaders: !*noHeader}
	if opts.Format, err = contract.ParseExportFormat(strings.ToLower(*format)); err != nil {
		return err
	}
	if filters, err := json.Marshal(map[string]string{"kind": string(kind)}); err == nil {
		opts.Filters = filters
	}

	var w io.Writer = e.out
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	base := contract.BaseFilter{Sort: "id", Direction: contract.SortAsc}
	switch kind {
	case mirror.KindGym:
		return exportAll(ctx, w, opts, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Gym], error) {
			return e.api.Gyms.List(ctx, contract.GymFilter{BaseFilter: f})
		})
	case mirror.KindRoute:
		return exportAll(ctx, w, opts, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Route], error) {
			return e.api.Routes.List(ctx, contract.RouteFilter{BaseFilter: f})
		})
	case mirror.KindTag:
		return exportAll(ctx, w, opts, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Tag], error) {
			return e.api.Tags.List(ctx, contract.TagFilter{BaseFilter: f})
		})
	case mirror.KindUser:
		return exportAll(ctx, w, opts, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.User], error) {
			return e.api.Users.List(ctx, contract.UserFilter{BaseFilter: f})
		})
	default:
		return exportAll(ctx, w, opts, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.PaymentRecord], error) {
			return e.api.Payments.List(ctx, contract.PaymentFilter{BaseFilter: f})
		})
	}
}

func exportAll[T any](ctx context.Context, w io.Writer, opts contract.ExportOptions, base contract.BaseFilter,
	fetch func(context.Context, contract.BaseFilter) (*contract.PageResponse[T], error)) error {
	records, err := collect(ctx, base, fetch)
	if err != nil {
		return err
	}
	return export.Export(w, records, opts)
}

// collect walks every page of a list endpoint.
func collect[T any](ctx context.Context, base contract.BaseFilter,
	fetch func(context.Context, contract.BaseFilter) (*contract.PageResponse[T], error)) ([]T, error) {
	size := contract.MaxPageSize
	base.Size = &size
	var all []T
	for page := 0; ; page++ {
		res, err := fetch(ctx, base.WithPage(page))
		if err != nil {
			return all, err
		}
		all = append(all, res.Content...)
		if !res.HasNext() || len(res.Content) == 0 {
			return all, nil
		}
	}
}
