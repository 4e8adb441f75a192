package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstack/pkg/dto"
	"github.com/clearstack/pkg/pagination"
	"github.com/clearstack/pkg/repo"
)

func TestNewResponse(t *testing.T) {
	r := dto.NewResponse("created")

	assert.Equal(t, 200, r.StatusCode)
	assert.True(t, r.Succeeded)
	assert.Equal(t, []string{"created"}, r.Messages)
	assert.Empty(t, r.Errors)
}

func TestNewErrorResponse(t *testing.T) {
	r := dto.NewErrorResponse(400, map[string][]string{
		"email": {"email is already taken"},
	})

	assert.Equal(t, 400, r.StatusCode)
	assert.False(t, r.Succeeded)
	assert.Equal(t, []string{"email is already taken"}, r.Errors["email"])
}

func TestNewPagedResponse(t *testing.T) {
	page := pagination.NewPaginated(25, 10, 1, []string{"a", "b"})
	r := dto.NewPagedResponse(page)

	assert.True(t, r.Succeeded)
	require.NotNil(t, r.Data)
	assert.Equal(t, 25, r.Data.TotalItemsCount)
	assert.Equal(t, []string{"a", "b"}, r.Data.Items)
}

func TestFilterBaseToQuery(t *testing.T) {
	tests := []struct {
		name    string
		filter  dto.FilterBase
		allowed []string
		check   func(t *testing.T, q repo.Query)
	}{
		{
			name:   "defaults applied when empty",
			filter: dto.FilterBase{},
			check: func(t *testing.T, q repo.Query) {
				assert.Equal(t, 1, q.Page)
				assert.Equal(t, pagination.DefaultPageSize, q.PageSize)
				assert.Empty(t, q.OrderBy)
			},
		},
		{
			name: "page window and allowed sort",
			filter: dto.FilterBase{
				Request: pagination.Request{PageNumber: 3, PageSize: 20},
				Sort:    "created_at:desc",
			},
			allowed: []string{"created_at", "name"},
			check: func(t *testing.T, q repo.Query) {
				assert.Equal(t, 3, q.Page)
				assert.Equal(t, 20, q.PageSize)
				assert.Equal(t, "created_at", q.OrderBy)
				assert.Equal(t, repo.Descending, q.OrderDirection())
			},
		},
		{
			name: "disallowed sort field dropped",
			filter: dto.FilterBase{
				Sort: "password:asc",
			},
			allowed: []string{"name"},
			check: func(t *testing.T, q repo.Query) {
				assert.Empty(t, q.OrderBy)
			},
		},
		{
			name: "first of multiple sort options wins",
			filter: dto.FilterBase{
				Sort: "name:asc,created_at:desc",
			},
			allowed: []string{"name", "created_at"},
			check: func(t *testing.T, q repo.Query) {
				assert.Equal(t, "name", q.OrderBy)
				assert.Equal(t, repo.Ascending, q.OrderDirection())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, tc.filter.ToQuery(tc.allowed...))
		})
	}
}
