package utils

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampPerPage keeps per_page inside [1, MaxPerPage], defaulting when unset
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return DefaultPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	}
	return perPage
}

// PageParams reads raw page/per_page query values
func PageParams(rawPage, rawPerPage string) (page, perPage int) {
	return ParseInt(rawPage, DefaultPage), ClampPerPage(ParseInt(rawPerPage, DefaultPerPage))
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func PageOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
