package dto

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageQuery is the page/limit pair read from list endpoints' query string
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into the accepted range.
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}
