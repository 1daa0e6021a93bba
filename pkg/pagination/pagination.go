package pagination

// DefaultSize is the standard page size when one is not provided.
const DefaultSize = 25

// MaxSize caps how many rows any page query can request.
const MaxSize = 100

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page int
	Size int
}

// Meta describes the page returned alongside the rows.
type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Normalize enforces the configured defaults and maximum size.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Size
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().Size
}

// MetaFor computes the page metadata for a total row count.
func MetaFor(p Params, total int64) Meta {
	n := p.Normalize()
	pages := int(total / int64(n.Size))
	if total%int64(n.Size) != 0 {
		pages++
	}
	return Meta{
		Page:       n.Page,
		Size:       n.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
