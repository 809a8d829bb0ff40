package expander

// Frontier is an append-only ordered set of address identifiers.
// It never shrinks or reorders.
type Frontier struct {
	order []string
	index map[string]struct{}
}

// NewFrontier creates a Frontier seeded with one address.
func NewFrontier(seed string) *Frontier {
	f := &Frontier{index: make(map[string]struct{})}
	f.Add(seed)
	return f
}

// Add appends addr unless it is already present. It reports whether the frontier grew.
func (f *Frontier) Add(addr string) bool {
	if _, ok := f.index[addr]; ok {
		return false
	}
	f.index[addr] = struct{}{}
	f.order = append(f.order, addr)
	return true
}

// At returns the address at position i.
func (f *Frontier) At(i int) string {
	return f.order[i]
}

// Len returns the number of distinct addresses discovered.
func (f *Frontier) Len() int {
	return len(f.order)
}

// Contains reports whether addr was discovered.
func (f *Frontier) Contains(addr string) bool {
	_, ok := f.index[addr]
	return ok
}

// Addresses returns a copy of the frontier in discovery order.
func (f *Frontier) Addresses() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}
