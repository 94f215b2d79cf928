package helpers

import (
	"net/http"
	"strconv"

	"farmtrack/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage        = 1
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultPageButtons = 5
	MaxPageButtons     = 15
)

// ParsePagination reads page and page_size from the request query string,
// clamps them to valid ranges, and returns domain.PaginationParams.
// Invalid or missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	page := DefaultPage
	if s := r.URL.Query().Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			page = v
		}
	}
	pageSize := DefaultPageSize
	if s := r.URL.Query().Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			pageSize = v
			if pageSize > MaxPageSize {
				pageSize = MaxPageSize
			}
		}
	}
	return domain.PaginationParams{Page: page, PageSize: pageSize}
}

// ParsePageButtons reads max_page_buttons from the query string: the number of
// page buttons the client renders in its pagination bar. Invalid or missing
// values fall back to the default.
func ParsePageButtons(r *http.Request) int {
	if s := r.URL.Query().Get("max_page_buttons"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			if v > MaxPageButtons {
				return MaxPageButtons
			}
			return v
		}
	}
	return DefaultPageButtons
}

// PaginationMeta is the pagination metadata included in paginated list
// responses. Window describes the page buttons to render for this listing.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
	Window     domain.PageWindow `json:"window"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size,
// total count, and the client's button budget. TotalPages is computed as
// ceiling(total / pageSize); the window's current page is clamped into
// [1, totalPages] so an out-of-range request still gets a renderable bar.
func NewPaginationMeta(page, pageSize, total, maxButtons int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	current := page
	if current > totalPages {
		current = totalPages
	}
	if current < 1 {
		current = 1
	}
	window, err := domain.ComputePageWindow(current, totalPages, maxButtons)
	if err != nil {
		// maxButtons is already clamped positive by ParsePageButtons; fall
		// back to the default budget for direct callers that pass garbage.
		window, _ = domain.ComputePageWindow(current, totalPages, DefaultPageButtons)
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Window:     window,
	}
}

// PaginatedResponse is the standard shape for list payloads.
// swagger:model PaginatedResponse
type PaginatedResponse struct {
	Items      any            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// WritePaginatedSuccess writes a 200 envelope holding items plus pagination
// metadata computed from the request's pagination parameters.
func WritePaginatedSuccess(w http.ResponseWriter, r *http.Request, items any, params domain.PaginationParams, total int) {
	meta := NewPaginationMeta(params.Page, params.PageSize, total, ParsePageButtons(r))
	WriteJSONSuccess(w, http.StatusOK, PaginatedResponse{Items: items, Pagination: meta})
}
