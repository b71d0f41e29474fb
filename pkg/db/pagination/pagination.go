// Package pagination implements page/limit offset pagination for admin
// listing endpoints.
package pagination

// Page carries validated paging parameters.
type Page struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// PageInfo is returned alongside every paginated list.
type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

const maxLimit = 100

// Normalize clamps the requested page and limit to sane bounds.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Info builds the response metadata for a total row count.
func (p Page) Info(total int64) PageInfo {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return PageInfo{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
