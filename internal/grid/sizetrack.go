package grid

// SizeTrack holds one size per row or column index. Sizes live in a plain
// slice; a Fenwick tree over them answers prefix positions and position
// lookups in O(log n). Insert and Delete rebuild the tree.
type SizeTrack struct {
	sizes []int
	tree  []int
	def   int
	min   int
}

// NewSizeTrack creates count tracks of size def. Sizes never drop below
// minSize, and minSize is never below 1 so every track occupies space.
func NewSizeTrack(count, def, minSize int) *SizeTrack {
	if minSize < 1 {
		minSize = 1
	}
	if def < minSize {
		def = minSize
	}
	if count < 0 {
		count = 0
	}
	t := &SizeTrack{sizes: make([]int, count), def: def, min: minSize}
	for i := range t.sizes {
		t.sizes[i] = def
	}
	t.rebuild()
	return t
}

func (t *SizeTrack) Len() int     { return len(t.sizes) }
func (t *SizeTrack) Default() int { return t.def }
func (t *SizeTrack) Min() int     { return t.min }

// Clamp maps any index into [0, Len).
func (t *SizeTrack) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if n := len(t.sizes); i >= n {
		return n - 1
	}
	return i
}

// Size returns the size of track i, clamping i into range.
func (t *SizeTrack) Size(i int) int {
	if len(t.sizes) == 0 {
		return 0
	}
	return t.sizes[t.Clamp(i)]
}

// SetSize stores size for track i, raised to the minimum. It returns the
// size actually applied.
func (t *SizeTrack) SetSize(i, size int) int {
	if len(t.sizes) == 0 {
		return 0
	}
	i = t.Clamp(i)
	if size < t.min {
		size = t.min
	}
	delta := size - t.sizes[i]
	if delta != 0 {
		t.sizes[i] = size
		t.add(i, delta)
	}
	return size
}

// Position returns the sum of sizes before index i. Indices past the end
// yield the total size.
func (t *SizeTrack) Position(i int) int {
	if i <= 0 {
		return 0
	}
	if i > len(t.sizes) {
		i = len(t.sizes)
	}
	sum := 0
	for k := i; k > 0; k -= k & -k {
		sum += t.tree[k]
	}
	return sum
}

// Total returns the sum of all sizes.
func (t *SizeTrack) Total() int { return t.Position(len(t.sizes)) }

// IndexAt returns the track containing pos. Positions before the start map to
// 0 and positions at or past the end map to the last index.
func (t *SizeTrack) IndexAt(pos int) int {
	n := len(t.sizes)
	if n == 0 || pos <= 0 {
		return 0
	}
	// largest k with prefix(k) <= pos
	k, rem := 0, pos
	for step := highBit(n); step > 0; step >>= 1 {
		if next := k + step; next <= n && t.tree[next] <= rem {
			k = next
			rem -= t.tree[next]
		}
	}
	return t.Clamp(k)
}

// firstEndingAtOrAfter returns the smallest i with Position(i)+Size(i) >= pos.
func (t *SizeTrack) firstEndingAtOrAfter(pos int) int {
	n := len(t.sizes)
	if n == 0 || pos <= 0 {
		return 0
	}
	// largest k with prefix(k) < pos; the answer is track k
	k, rem := 0, pos
	for step := highBit(n); step > 0; step >>= 1 {
		if next := k + step; next <= n && t.tree[next] < rem {
			k = next
			rem -= t.tree[next]
		}
	}
	return t.Clamp(k)
}

// Insert adds one default-sized track at index at; later tracks shift up.
func (t *SizeTrack) Insert(at int) {
	if at < 0 {
		at = 0
	}
	if at > len(t.sizes) {
		at = len(t.sizes)
	}
	t.sizes = append(t.sizes, 0)
	copy(t.sizes[at+1:], t.sizes[at:])
	t.sizes[at] = t.def
	t.rebuild()
}

// Delete removes track at; later tracks shift down. Out of range is a no-op.
func (t *SizeTrack) Delete(at int) {
	if at < 0 || at >= len(t.sizes) {
		return
	}
	t.sizes = append(t.sizes[:at], t.sizes[at+1:]...)
	t.rebuild()
}

// Sizes returns a copy of every size, in index order.
func (t *SizeTrack) Sizes() []int {
	out := make([]int, len(t.sizes))
	copy(out, t.sizes)
	return out
}

func (t *SizeTrack) add(i, delta int) {
	for k := i + 1; k < len(t.tree); k += k & -k {
		t.tree[k] += delta
	}
}

func (t *SizeTrack) rebuild() {
	n := len(t.sizes)
	t.tree = make([]int, n+1)
	for i := 1; i <= n; i++ {
		t.tree[i] += t.sizes[i-1]
		if j := i + (i & -i); j <= n {
			t.tree[j] += t.tree[i]
		}
	}
}

func highBit(n int) int {
	b := 1
	for b<<1 <= n {
		b <<= 1
	}
	return b
}
