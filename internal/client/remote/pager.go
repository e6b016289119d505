package remote

import "strconv"

// Pager tracks 1-indexed pagination state. TotalPages 0 means the total is
// not yet known and renders as "?".
type Pager struct {
	Page       int
	TotalPages int
}

func NewPager() Pager { return Pager{Page: 1} }

func (p Pager) CanPrev() bool { return p.Page > 1 }

// CanNext is true until the current page equals the last known total.
// With the total unknown there is nothing to disable against.
func (p Pager) CanNext() bool { return p.TotalPages == 0 || p.Page < p.TotalPages }

func (p *Pager) Next() {
	if p.CanNext() {
		p.Page++
	}
}

func (p *Pager) Prev() {
	if p.CanPrev() {
		p.Page--
	}
}

// Reset returns to page 1; any filter change calls this.
func (p *Pager) Reset() { p.Page = 1 }

func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.TotalPages = total
	if p.TotalPages > 0 && p.Page > p.TotalPages {
		p.Page = p.TotalPages
	}
}

// TotalLabel renders the known total, or "?" before the first response.
func (p Pager) TotalLabel() string {
	if p.TotalPages == 0 {
		return "?"
	}
	return strconv.Itoa(p.TotalPages)
}
