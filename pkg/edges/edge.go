package edges

// Edge is a directed payer -> recipient relation with an optional annotation.
type Edge struct {
	Payer      string `json:"payer"`
	Recipient  string `json:"recipient"`
	Annotation string `json:"annotation,omitempty"`
}

// Set is an insertion-ordered set of edges.
// The zero value is ready to use.
type Set struct {
	seen  map[Edge]struct{}
	order []Edge
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[Edge]struct{})}
}

// Add inserts e unless an identical triple is already present.
// It reports whether the set grew.
func (s *Set) Add(e Edge) bool {
	if s.seen == nil {
		s.seen = make(map[Edge]struct{})
	}
	if _, ok := s.seen[e]; ok {
		return false
	}
	s.seen[e] = struct{}{}
	s.order = append(s.order, e)
	return true
}

// Contains reports whether e is in the set.
func (s *Set) Contains(e Edge) bool {
	_, ok := s.seen[e]
	return ok
}

// Len returns the number of distinct edges.
func (s *Set) Len() int {
	return len(s.order)
}

// Edges returns a copy of the edges in insertion order.
func (s *Set) Edges() []Edge {
	out := make([]Edge, len(s.order))
	copy(out, s.order)
	return out
}

// Connect adds the Cartesian product of payers and annotated recipients.
// It returns the number of edges that were new.
func (s *Set) Connect(payers []string, recipients []Labeled) int {
	added := 0
	for _, p := range payers {
		for _, r := range recipients {
			if s.Add(Edge{Payer: p, Recipient: r.Address, Annotation: r.Annotation}) {
				added++
			}
		}
	}
	return added
}

// Labeled is a recipient address paired with its rendered annotation.
type Labeled struct {
	Address    string
	Annotation string
}
