package query

type Link struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination links are omitted, not null, when there is no such page.
type Pagination struct {
	Next *Link `json:"next,omitempty"`
	Prev *Link `json:"prev,omitempty"`
}

func NewPagination(q Query, total int64) Pagination {
	var p Pagination
	if q.Limit > 0 && int64(q.Page*q.Limit) < total {
		p.Next = &Link{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Skip() > 0 {
		p.Prev = &Link{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}
