package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(m map[string]string) Params {
	return func(name string) string { return m[name] }
}

func TestParsePaginationDefaults(t *testing.T) {
	p := ParsePagination(params(nil), GadgetDefaultLimit, GadgetMaxLimit)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, GadgetDefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Skip())
}

func TestParsePaginationClampsInvalidValues(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"garbage", "abc", "xyz", 1, GadgetDefaultLimit},
		{"negative", "-3", "-10", 1, GadgetDefaultLimit},
		{"zero", "0", "0", 1, GadgetDefaultLimit},
		{"over max", "2", "500", 2, GadgetMaxLimit},
		{"valid", "3", "25", 3, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParsePagination(params(map[string]string{"page": tc.page, "limit": tc.limit}), GadgetDefaultLimit, GadgetMaxLimit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestPaginationSkip(t *testing.T) {
	p := Pagination{Page: 3, Limit: 12}
	assert.Equal(t, 24, p.Skip())
}

func TestPages(t *testing.T) {
	assert.Equal(t, 0, Pages(0, 12))
	assert.Equal(t, 1, Pages(1, 12))
	assert.Equal(t, 1, Pages(12, 12))
	assert.Equal(t, 2, Pages(13, 12))
	assert.Equal(t, 0, Pages(100, 0))
}

func TestParseSortWhitelist(t *testing.T) {
	s := ParseSort(params(map[string]string{"sortBy": "price", "sortOrder": "asc"}), GadgetSortColumns, "createdAt")
	assert.Equal(t, "price", s.Column)
	assert.False(t, s.Desc)

	// unknown fields fall back, descending
	s = ParseSort(params(map[string]string{"sortBy": "passwordHash"}), GadgetSortColumns, "createdAt")
	assert.Equal(t, "created_at", s.Column)
	assert.True(t, s.Desc)
}

func TestSortOrderBy(t *testing.T) {
	assert.Equal(t, "ORDER BY price ASC", Sort{Column: "price"}.OrderBy())
	assert.Equal(t, "ORDER BY created_at DESC", Sort{Column: "created_at", Desc: true}.OrderBy())
}

func TestBuilderEmptyWhere(t *testing.T) {
	b := new(Builder)
	assert.Equal(t, "", b.Where())
	assert.Empty(t, b.Args())
}

func TestBuilderNumbersPlaceholders(t *testing.T) {
	b := new(Builder)
	b.And("price >= " + b.Arg(10.0))
	b.And("category = " + b.Arg("laptop"))

	assert.Equal(t, "WHERE price >= $1 AND category = $2", b.Where())
	require.Len(t, b.Args(), 2)
	assert.Equal(t, 10.0, b.Args()[0])
	assert.Equal(t, "laptop", b.Args()[1])
}

func TestBuilderPaginateContinuesNumbering(t *testing.T) {
	b := new(Builder)
	b.And("is_active = " + b.Arg(true))

	clause := b.Paginate(Pagination{Page: 2, Limit: 12})
	assert.Equal(t, "LIMIT $2 OFFSET $3", clause)
	require.Len(t, b.Args(), 3)
	assert.Equal(t, 12, b.Args()[1])
	assert.Equal(t, 12, b.Args()[2])
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now`, escapeLike(`50% off_now`))
	assert.Equal(t, `%pro\%%`, contains(`pro%`))
}
