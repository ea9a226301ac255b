package drainage

// NoStamp marks a node that no traversal has visited yet.
const NoStamp = -1

// Stamps is a generation-tagged visited array. Each cell holds the tag of the
// last traversal that visited the node; "visited by this traversal" means
// "cell equals this traversal's tag". Tagging with the root id lets one array
// serve every root without an O(N) reset between them.
//
// After a full [Order] run with the iterative builder, every cell holds the
// root of the node's basin.
//
// Stamps is not safe for concurrent use unless callers stamp disjoint nodes.
type Stamps struct {
	tags []int
}

// NewStamps returns n cells set to [NoStamp].
func NewStamps(n int) *Stamps {
	tags := make([]int, n)
	for i := range tags {
		tags[i] = NoStamp
	}
	return &Stamps{tags: tags}
}

// Len returns the number of cells.
func (s *Stamps) Len() int { return len(s.tags) }

// Stamp records that traversal tag visited node.
func (s *Stamps) Stamp(node, tag int) { s.tags[node] = tag }

// Is reports whether node was last visited by traversal tag.
func (s *Stamps) Is(node, tag int) bool { return s.tags[node] == tag }

// Get returns the tag of the last traversal that visited node, or [NoStamp].
func (s *Stamps) Get(node int) int { return s.tags[node] }

// Values returns the underlying tag array. The slice aliases the stamps.
func (s *Stamps) Values() []int { return s.tags }
