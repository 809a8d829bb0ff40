package edges

// Document is the edge set produced for one seed address.
// Empty is set when the seed had no activity (or was absent in lenient mode)
// and no per-seed graph should be written.
type Document struct {
	Seed  string
	Edges []Edge
	Empty bool
}
