package drainage

// Donors is the inverse of a receiver array in compressed form: the donors of
// receiver r are Flat[Offsets[r]:Offsets[r+1]], in ascending node-id order.
//
// A base-level node is its own receiver and therefore appears in its own donor
// segment. Traversals skip that self-loop.
//
// The zero value is an empty network. Donors is immutable after construction
// and safe for concurrent reads.
type Donors struct {
	// Offsets has length N+1, is non-decreasing, and Offsets[N] == N.
	Offsets []int
	// Flat is a permutation of [0,N) grouped by receiver.
	Flat []int
}

// BuildDonors inverts receivers with a counting sort in O(N) time.
//
// The histogram pass rejects any receiver outside [0,N) with an
// [ErrInvalidIndex] error naming the first offending node. Donors are
// scattered in ascending node order, which is what keeps every segment of
// [Donors.Flat] sorted.
func BuildDonors(receivers []int) (*Donors, error) {
	n := len(receivers)

	counts := make([]int, n)
	for i, r := range receivers {
		if r < 0 || r >= n {
			return nil, invalidIndex("node %d: receiver %d not in [0,%d)", i, r, n)
		}
		counts[r]++
	}

	offsets := make([]int, n+1)
	offsets[n] = n
	for r := n - 1; r >= 0; r-- {
		offsets[r] = offsets[r+1] - counts[r]
	}

	// counts becomes the per-receiver write cursor.
	cursor := counts
	clear(cursor)
	flat := make([]int, n)
	for i, r := range receivers {
		flat[offsets[r]+cursor[r]] = i
		cursor[r]++
	}

	return &Donors{Offsets: offsets, Flat: flat}, nil
}

// Len returns the number of nodes N.
func (d *Donors) Len() int { return len(d.Flat) }

// Of returns the donors of r in ascending order. The returned slice aliases
// the donor array and must not be modified.
func (d *Donors) Of(r int) []int { return d.Flat[d.Offsets[r]:d.Offsets[r+1]] }

// Count returns the number of donors of r, including r itself if it is a
// self-loop.
func (d *Donors) Count(r int) int { return d.Offsets[r+1] - d.Offsets[r] }
