package utils

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	MaxPage          = 100000
)

// NormalizePage applies defaults and bounds to page and limit
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// TotalPages returns the number of pages needed for total items
func TotalPages(total, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Offset returns the number of rows to skip. Page is clamped to [1, MaxPage]
// and limit to [0, MaxPageLimit] so the product cannot overflow.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return (page - 1) * limit
}
