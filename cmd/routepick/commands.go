package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/contract"
)

var errUsage = errors.New("usage")

type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"login":    {"sign in with email and password, or a social provider token", runLogin},
	"logout":   {"sign out and forget the stored tokens", runLogout},
	"whoami":   {"show the signed-in account and its permissions", runWhoami},
	"gyms":     {"list gyms, branches of a gym, or branches near a point", runGyms},
	"routes":   {"list, show or retire routes", runRoutes},
	"tags":     {"list tags or import them from CSV", runTags},
	"payments": {"list payments or request a refund", runPayments},
	"stats":    {"dashboard statistics, time series and charts", runStats},
	"watch":    {"print realtime updates until interrupted", runWatch},
	"mirror":   {"copy entities into Postgres snapshots and read them back", runMirror},
	"export":   {"write an entity list as CSV", runExport},
}

func (e *env) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

// parseFlags reports bad flags as usage errors; the flag set has already
// printed its defaults.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

// paging registers -page, -size and -sort and returns a filter reader.
func paging(fs *flag.FlagSet) func() contract.BaseFilter {
	page := fs.Int("page", 0, "page number, 0-based")
	size := fs.Int("size", contract.DefaultPageSize, "page size")
	sort := fs.String("sort", "", "sort as field,ASC|DESC")
	return func() contract.BaseFilter {
		f := contract.BaseFilter{Page: page, Size: size}
		if *sort != "" {
			field, dir, _ := strings.Cut(*sort, ",")
			f.Sort = field
			if d, err := contract.ParseSortDirection(strings.ToUpper(dir)); err == nil {
				f.Direction = d
			}
		}
		return f
	}
}

func idArg(args []string, i int, what string) (int64, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%w: missing %s", errUsage, what)
	}
	id, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, args[i])
	}
	return id, nil
}

func optionalID(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func splitIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalDate(s string) (*contract.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := contract.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func pageFooter[T any](w io.Writer, p *contract.PageResponse[T]) {
	fmt.Fprintf(w, "page %d/%d, %d total\n", p.Number+1, max(p.TotalPages, 1), p.TotalElements)
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := e.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password; defaults to $ROUTEPICK_PASSWORD")
	provider := fs.String("provider", "", "social provider: GOOGLE, KAKAO, NAVER or FACEBOOK")
	socialID := fs.String("social-id", "", "provider user id")
	socialToken := fs.String("social-token", "", "provider access token")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		res *contract.LoginResponse
		err error
	)
	if *provider != "" {
		p, perr := contract.ParseSocialProvider(strings.ToUpper(*provider))
		if perr != nil {
			return perr
		}
		res, err = e.api.Auth.SocialLogin(ctx, contract.SocialLoginRequest{
			Provider:    p,
			SocialID:    *socialID,
			AccessToken: *socialToken,
			Email:       *email,
		})
	} else {
		if *password == "" {
			*password = lookupEnv("ROUTEPICK_PASSWORD")
		}
		res, err = e.api.Auth.Login(ctx, contract.LoginRequest{Email: *email, Password: *password})
	}
	if err != nil {
		return err
	}
	if res.User != nil {
		if err := e.session.SaveUser(ctx, *res.User); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "signed in as %s (%s)\n", res.User.Email, res.User.UserType)
	}
	if e.rdb == nil {
		log.Printf("no Redis session store; the session ends with this command")
	}
	return nil
}

func runLogout(ctx context.Context, e *env, _ []string) error {
	if err := e.api.Auth.Logout(ctx); err != nil && !errors.Is(err, contract.ErrUnauthorized) {
		return err
	}
	fmt.Fprintln(e.out, "signed out")
	return nil
}

func runWhoami(ctx context.Context, e *env, args []string) error {
	fs := e.flags("whoami")
	refresh := fs.Bool("refresh", false, "ask the server instead of the stored user")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	tokens, err := e.session.Tokens(ctx)
	if err != nil {
		return err
	}
	if tokens.Empty() {
		return errors.New("not signed in")
	}

	user, err := e.session.User(ctx)
	if err != nil {
		return err
	}
	if user == nil || *refresh {
		if user, err = e.api.Auth.Me(ctx); err != nil {
			return err
		}
		if err := e.session.SaveUser(ctx, *user); err != nil {
			return err
		}
	}

	fmt.Fprintf(e.out, "%s %s (%s)\n", user.Email, user.NickName, user.UserType)
	if claims, err := auth.Inspect(tokens.AccessToken); err == nil && claims.ExpiresAt != nil {
		fmt.Fprintf(e.out, "token expires %s\n", claims.ExpiresAt.Time.Local().Format(time.DateTime))
	}
	perms := auth.PermissionsFor(user.UserType)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	if len(names) == 0 {
		names = []string{"none"}
	}
	fmt.Fprintf(e.out, "permissions: %s\n", strings.Join(names, ", "))
	return nil
}
