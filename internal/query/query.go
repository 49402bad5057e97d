// Package query translates the optional request parameters of list
// endpoints into a SQL predicate plus a deterministic sort and
// pagination plan. Handlers run exactly one count query and one fetch
// query built from the identical predicate.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Limit bounds per listing kind.
const (
	GadgetDefaultLimit = 12
	GadgetMaxLimit     = 50
	UserDefaultLimit   = 10
	UserMaxLimit       = 100
)

// Params is a query-string accessor; echo.Context.QueryParam satisfies it.
type Params func(name string) string

type Pagination struct {
	Page  int
	Limit int
}

// Skip is the row offset for the current page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// Pages returns ceil(total/limit).
func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ParsePagination applies defaults and clamps. Non-parseable or
// non-positive values fall back to the defaults rather than failing the
// request.
func ParsePagination(get Params, defaultLimit, maxLimit int) Pagination {
	page, err := strconv.Atoi(get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

type Sort struct {
	Column string
	Desc   bool
}

// ParseSort maps the sortBy parameter through a column whitelist;
// unknown fields fall back to the default. Order defaults to descending.
func ParseSort(get Params, columns map[string]string, defaultField string) Sort {
	col, ok := columns[get("sortBy")]
	if !ok {
		col = columns[defaultField]
	}
	return Sort{Column: col, Desc: get("sortOrder") != "asc"}
}

// OrderBy renders the clause. Column comes from a whitelist, never from
// raw input.
func (s Sort) OrderBy() string {
	dir := "DESC"
	if !s.Desc {
		dir = "ASC"
	}
	return "ORDER BY " + s.Column + " " + dir
}

// Builder accumulates AND-composed conditions with numbered
// placeholders.
type Builder struct {
	conds []string
	args  []interface{}
}

// Arg registers a bind value and returns its placeholder.
func (b *Builder) Arg(v interface{}) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// And appends one condition.
func (b *Builder) And(cond string) {
	b.conds = append(b.conds, cond)
}

// Where renders the predicate including the leading keyword, or an
// empty string when no condition applies.
func (b *Builder) Where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.conds, " AND ")
}

// Args returns the bind values in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}

// Paginate renders LIMIT/OFFSET using registered placeholders.
func (b *Builder) Paginate(p Pagination) string {
	return fmt.Sprintf("LIMIT %s OFFSET %s", b.Arg(p.Limit), b.Arg(p.Skip()))
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search
// terms so they match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// contains builds the ILIKE pattern for a substring match.
func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}
