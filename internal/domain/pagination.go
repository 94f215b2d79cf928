package domain

import "errors"

// ErrInvalidMaxVisible is returned by ComputePageWindow when maxVisibleButtons
// is zero or negative. That value is a contract violation by the caller; all
// other inputs are normalized rather than rejected.
var ErrInvalidMaxVisible = errors.New("max visible buttons must be positive")

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the current page (0-based).
// Formula: (Page - 1) * PageSize.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// PageWindow is the contiguous run of page numbers a client should render as
// clickable controls, plus the flags driving the first/last shortcuts and the
// ellipsis indicators next to them. It is derived per request, never stored.
// swagger:model PageWindow
type PageWindow struct {
	Pages                 []int `json:"pages"`
	ShowLeadingEllipsis   bool  `json:"show_leading_ellipsis"`
	ShowTrailingEllipsis  bool  `json:"show_trailing_ellipsis"`
	ShowFirstPageShortcut bool  `json:"show_first_page_shortcut"`
	ShowLastPageShortcut  bool  `json:"show_last_page_shortcut"`
}

// ComputePageWindow returns the window of page numbers to display for the
// given current page, total page count, and maximum number of visible page
// buttons. It is a pure function of its inputs.
//
// When totalPages fits inside maxVisibleButtons the window is [1..totalPages]
// with no shortcuts or ellipses (empty when totalPages is 0). Otherwise the
// window is centered on currentPage, left-anchored at 1 near the start and
// re-anchored at totalPages near the end so it always holds exactly
// maxVisibleButtons pages. With an even maxVisibleButtons the extra slot goes
// to the leading side, since the window start is anchored half a window before
// the current page and the end follows from it.
//
// Resulting guarantees: len(Pages) == min(totalPages, maxVisibleButtons);
// currentPage is in Pages whenever totalPages > 0; ShowFirstPageShortcut iff
// Pages[0] > 1; ShowLastPageShortcut iff the last window page is below
// totalPages; the ellipsis flags are true only when at least one page is
// hidden between the window and the corresponding shortcut.
//
// currentPage is assumed to be within [1, totalPages]; the function does not
// clamp it. Callers that shrink totalPages (e.g. after a delete) must re-clamp
// currentPage themselves.
func ComputePageWindow(currentPage, totalPages, maxVisibleButtons int) (PageWindow, error) {
	if maxVisibleButtons <= 0 {
		return PageWindow{}, ErrInvalidMaxVisible
	}

	if totalPages <= maxVisibleButtons {
		n := totalPages
		if n < 0 {
			n = 0
		}
		pages := make([]int, 0, n)
		for p := 1; p <= totalPages; p++ {
			pages = append(pages, p)
		}
		return PageWindow{Pages: pages}, nil
	}

	side := maxVisibleButtons / 2
	start := currentPage - side
	if start < 1 {
		start = 1
	}
	end := start + maxVisibleButtons - 1
	if end > totalPages {
		end = totalPages
	}
	// Re-anchor when the window was clamped near the last page, so the number
	// of visible buttons stays at maxVisibleButtons.
	if end-start+1 < maxVisibleButtons {
		start = end - maxVisibleButtons + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return PageWindow{
		Pages:                 pages,
		ShowFirstPageShortcut: start > 1,
		ShowLastPageShortcut:  end < totalPages,
		ShowLeadingEllipsis:   start > 2,
		ShowTrailingEllipsis:  end < totalPages-1,
	}, nil
}

// Pager dispatches page-selection affordances (page number, previous, next,
// first, last) to an OnPageChange callback. The callback fires only when the
// target page differs from Current and lies within [1, Total]; out-of-range
// requests are silently ignored. The hosting layer owns Current and updates
// it in response to the callback.
type Pager struct {
	Current      int
	Total        int
	OnPageChange func(page int)
}

// Select requests navigation to the given page.
func (p *Pager) Select(page int) {
	if p.OnPageChange == nil {
		return
	}
	if page == p.Current || page < 1 || page > p.Total {
		return
	}
	p.OnPageChange(page)
}

// Prev requests navigation to the previous page, if any.
func (p *Pager) Prev() { p.Select(p.Current - 1) }

// Next requests navigation to the next page, if any.
func (p *Pager) Next() { p.Select(p.Current + 1) }

// First requests navigation to page 1.
func (p *Pager) First() { p.Select(1) }

// Last requests navigation to the last page.
func (p *Pager) Last() { p.Select(p.Total) }
