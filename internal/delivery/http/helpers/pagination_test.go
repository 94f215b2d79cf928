package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"farmtrack/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 20},
		{name: "explicit", query: "?page=3&page_size=50", wantPage: 3, wantSize: 50},
		{name: "clamped size", query: "?page_size=500", wantPage: 1, wantSize: 100},
		{name: "garbage falls back", query: "?page=abc&page_size=-2", wantPage: 1, wantSize: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/flocks"+tt.query, nil)
			params := ParsePagination(r)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSize, params.PageSize)
		})
	}
}

func TestParsePageButtons(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{query: "", want: DefaultPageButtons},
		{query: "?max_page_buttons=7", want: 7},
		{query: "?max_page_buttons=99", want: MaxPageButtons},
		{query: "?max_page_buttons=0", want: DefaultPageButtons},
		{query: "?max_page_buttons=oops", want: DefaultPageButtons},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/flocks"+tt.query, nil)
		assert.Equal(t, tt.want, ParsePageButtons(r), "query %q", tt.query)
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 101, 5)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 6, meta.TotalPages)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, meta.Window.Pages)
	assert.False(t, meta.Window.ShowLeadingEllipsis)
	assert.False(t, meta.Window.ShowTrailingEllipsis)
	assert.True(t, meta.Window.ShowLastPageShortcut)

	// Out-of-range page is clamped for window purposes but echoed back as-is.
	meta = NewPaginationMeta(50, 20, 101, 5)
	assert.Equal(t, 50, meta.Page)
	assert.Equal(t, []int{2, 3, 4, 5, 6}, meta.Window.Pages)
	assert.True(t, meta.Window.ShowFirstPageShortcut)

	// Empty listing produces an empty window.
	meta = NewPaginationMeta(1, 20, 0, 5)
	assert.Equal(t, 0, meta.TotalPages)
	assert.Empty(t, meta.Window.Pages)

	// Window fits entirely.
	meta = NewPaginationMeta(1, 20, 60, 5)
	assert.Equal(t, []int{1, 2, 3}, meta.Window.Pages)
	assert.Equal(t, domain.PageWindow{Pages: []int{1, 2, 3}}, meta.Window)
}
