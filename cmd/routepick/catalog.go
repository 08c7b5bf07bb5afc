package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/export"
)

var lookupEnv = os.Getenv

func subcommand(args []string, names ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%w: expected one of %s", errUsage, strings.Join(names, ", "))
	}
	for _, n := range names {
		if args[0] == n {
			return n, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("%w: unknown subcommand %q", errUsage, args[0])
}

func runGyms(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "branches", "nearby")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		fs := e.flags("gyms list")
		name := fs.String("name", "", "name contains")
		asJSON := fs.Bool("json", false, "print JSON")
		page := paging(fs)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		res, err := e.api.Gyms.List(ctx, contract.GymFilter{BaseFilter: page(), Name: *name})
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e.out, res)
		}
		rows := make([][]string, 0, len(res.Content))
		for _, g := range res.Content {
			rows = append(rows, []string{strconv.FormatInt(g.GymID, 10), g.Name, string(g.GymStatus), strconv.Itoa(len(g.Branches))})
		}
		if err := printTable(e.out, []string{"ID", "NAME", "STATUS", "BRANCHES"}, rows); err != nil {
			return err
		}
		pageFooter(e.out, res)
		return nil

	case "branches":
		gymID, err := idArg(rest, 0, "gym id")
		if err != nil {
			return err
		}
		branches, err := e.cache.GymBranches(ctx, gymID)
		if err != nil {
			return err
		}
		return printBranches(e, branches)

	default:
		fs := e.flags("gyms nearby")
		lat := fs.Float64("lat", 0, "latitude")
		lng := fs.Float64("lng", 0, "longitude")
		radius := fs.Float64("radius", 5, "radius in km")
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		branches, err := e.api.Gyms.Nearby(ctx, contract.SearchArea{
			Center: contract.Location{Latitude: *lat, Longitude: *lng},
			Radius: *radius,
		})
		if err != nil {
			return err
		}
		return printBranches(e, branches)
	}
}

func printBranches(e *env, branches []contract.GymBranch) error {
	rows := make([][]string, 0, len(branches))
	for _, b := range branches {
		rows = append(rows, []string{
			strconv.FormatInt(b.BranchID, 10),
			strconv.FormatInt(b.GymID, 10),
			b.BranchName,
			b.Address,
			fmt.Sprintf("%.5f,%.5f", b.Latitude, b.Longitude),
		})
	}
	return printTable(e.out, []string{"ID", "GYM", "BRANCH", "ADDRESS", "LOCATION"}, rows)
}

func runRoutes(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "get", "status", "tags")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		fs := e.flags("routes list")
		name := fs.String("name", "", "name contains")
		branch := fs.Int64("branch", 0, "branch id")
		level := fs.Int64("level", 0, "level id")
		status := fs.String("status", "", "ACTIVE, RETIRED or MAINTENANCE")
		tags := fs.String("tags", "", "comma separated tag ids, all must match")
		asJSON := fs.Bool("json", false, "print JSON")
		page := paging(fs)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		f := contract.RouteFilter{
			BaseFilter: page(),
			Name:       *name,
			BranchID:   optionalID(*branch),
			LevelID:    optionalID(*level),
		}
		if *status != "" {
			if f.Status, err = contract.ParseRouteStatus(strings.ToUpper(*status)); err != nil {
				return err
			}
		}
		if f.TagIDs, err = splitIDs(*tags); err != nil {
			return err
		}
		res, err := e.api.Routes.List(ctx, f)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e.out, res)
		}
		rows := make([][]string, 0, len(res.Content))
		for _, r := range res.Content {
			level := strconv.FormatInt(r.LevelID, 10)
			if r.Level != nil {
				level = r.Level.LevelName
			}
			rows = append(rows, []string{strconv.FormatInt(r.RouteID, 10), r.Name, level, r.Color, string(r.RouteStatus), strconv.FormatInt(r.BranchID, 10)})
		}
		if err := printTable(e.out, []string{"ID", "NAME", "LEVEL", "COLOR", "STATUS", "BRANCH"}, rows); err != nil {
			return err
		}
		pageFooter(e.out, res)
		return nil

	case "get":
		id, err := idArg(rest, 0, "route id")
		if err != nil {
			return err
		}
		r, err := e.api.Routes.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(e.out, r)

	case "status":
		id, err := idArg(rest, 0, "route id")
		if err != nil {
			return err
		}
		if len(rest) < 2 {
			return fmt.Errorf("%w: missing status", errUsage)
		}
		status, err := contract.ParseRouteStatus(strings.ToUpper(rest[1]))
		if err != nil {
			return err
		}
		r, err := e.api.Routes.SetStatus(ctx, id, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "route %d is %s\n", r.RouteID, r.RouteStatus)
		return nil

	default:
		id, err := idArg(rest, 0, "route id")
		if err != nil {
			return err
		}
		tags, err := e.cache.RouteTags(ctx, id)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(tags))
		for _, rt := range tags {
			name, typ := "", ""
			if rt.Tag != nil {
				name, typ = rt.Tag.TagName, string(rt.Tag.TagType)
			}
			rows = append(rows, []string{strconv.FormatInt(rt.TagID, 10), name, typ, strconv.FormatFloat(rt.RelevanceScore, 'f', 2, 64)})
		}
		return printTable(e.out, []string{"TAG", "NAME", "TYPE", "RELEVANCE"}, rows)
	}
}

func runTags(ctx context.Context, e *env, args []string) error {
	sub, rest, err := subcommand(args, "list", "import")
	if err != nil {
		return err
	}
	if sub == "list" {
		fs := e.flags("tags list")
		name := fs.String("name", "", "name contains")
		typ := fs.String("type", "", "tag type")
		asJSON := fs.Bool("json", false, "print JSON")
		page := paging(fs)
		if err := parseFlags(fs, rest); err != nil {
			return err
		}
		f := contract.TagFilter{BaseFilter: page(), Name: *name}
		if *typ != "" {
			if f.TagType, err = contract.ParseTagType(strings.ToUpper(*typ)); err != nil {
				return err
			}
		}
		res, err := e.api.Tags.List(ctx, f)
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e.out, res)
		}
		rows := make([][]string, 0, len(res.Content))
		for _, t := range res.Content {
			usage := "-"
			if t.UsageCount != nil {
				usage = strconv.FormatInt(*t.UsageCount, 10)
			}
			rows = append(rows, []string{strconv.FormatInt(t.TagID, 10), t.TagName, string(t.TagType), strconv.Itoa(t.DisplayOrder), usage})
		}
		if err := printTable(e.out, []string{"ID", "NAME", "TYPE", "ORDER", "USAGE"}, rows); err != nil {
			return err
		}
		pageFooter(e.out, res)
		return nil
	}

	fs := e.flags("tags import")
	dryRun := fs.Bool("dry-run", false, "validate only")
	if err := parseFlags(fs, rest); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tags import [-dry-run] <file.csv>", errUsage)
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	forms, result, err := export.ImportTags(f)
	if err != nil {
		return err
	}
	created := 0
	if !*dryRun {
		for _, form := range forms {
			if _, err := e.api.Tags.Create(ctx, form); err != nil {
				result.ErrorRows++
				result.SuccessRows--
				result.Errors = append(result.Errors, contract.ImportError{Column: "tagName", Message: fmt.Sprintf("%s: %v", form.TagName, err)})
				continue
			}
			created++
		}
	}
	fmt.Fprintf(e.out, "rows=%d ok=%d failed=%d created=%d\n", result.TotalRows, result.SuccessRows, result.ErrorRows, created)
	for _, ie := range result.Errors {
		if ie.Row > 0 {
			fmt.Fprintf(e.out, "  row %d %s: %s\n", ie.Row, ie.Column, ie.Message)
		} else {
			fmt.Fprintf(e.out, "  %s: %s\n", ie.Column, ie.Message)
		}
	}
	return nil
}
