package stub

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

// orderings maps a sort field to a comparison. Unknown fields keep id order.
type orderings[T any] map[string]func(a, b T) int

func pageRequest(c *fiber.Ctx) contract.PageRequest {
	field, dir := contract.ParseSortParam(c.Query("sort"))
	return contract.PageRequest{
		Page:      c.QueryInt("page"),
		Size:      c.QueryInt("size"),
		Sort:      field,
		Direction: dir,
	}.Normalize()
}

// paginate sorts items as the request asks and slices out the page.
func paginate[T any](c *fiber.Ctx, items []T, order orderings[T]) contract.PageResponse[T] {
	req := pageRequest(c)
	if compare, ok := order[req.Sort]; ok {
		slices.SortStableFunc(items, func(a, b T) int {
			if req.Direction == contract.SortDesc {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}
	return contract.Paginate(items, req)
}

func byTime(a, b contract.Timestamp) int { return a.Compare(b.Time) }

func byText(a, b string) int { return cmp.Compare(strings.ToLower(a), strings.ToLower(b)) }

func contains(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// queryID reads an optional positive id parameter.
func queryID(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, invalid(key, "must be a positive integer")
	}
	return &id, nil
}

// queryIDs reads a repeated id parameter such as tagIds=1&tagIds=2.
func queryIDs(c *fiber.Ctx, key string) ([]int64, error) {
	var ids []int64
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return nil, invalid(key, "must be integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, invalid(key, "must be a number")
	}
	return &f, nil
}

func queryDate(c *fiber.Ctx, key string) (*contract.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := contract.ParseDate(raw)
	if err != nil {
		return nil, invalid(key, err.Error())
	}
	return &d, nil
}

// queryEnum parses an optional enum parameter with its Parse function.
func queryEnum[T ~string](c *fiber.Ctx, key string, parse func(string) (T, error)) (T, error) {
	raw := c.Query(key)
	if raw == "" {
		return "", nil
	}
	v, err := parse(raw)
	if err != nil {
		return "", invalid(key, err.Error())
	}
	return v, nil
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
