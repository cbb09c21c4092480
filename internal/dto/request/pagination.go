package request

import (
	"net/url"

	"court-booking/pkg/utils"
)

// PaginatedRequest is embedded by every list request
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// PaginationFromQuery reads ?page=&per_page= with defaults 1 and 10
func PaginationFromQuery(query url.Values) PaginatedRequest {
	page, perPage := utils.PageParams(query.Get("page"), query.Get("per_page"))
	return PaginatedRequest{Page: page, PerPage: perPage}
}

func (p PaginatedRequest) Offset() int {
	return utils.PageOffset(p.Page, p.Limit())
}

func (p PaginatedRequest) Limit() int {
	return utils.ClampPerPage(p.PerPage)
}
