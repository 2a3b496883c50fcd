package zacwire

// Median is a sliding median over the last F valid codes. Storage is
// allocated once in NewMedian.
type Median struct {
	ring    []RawCode
	scratch []RawCode
	next    int
	n       int
}

// NewMedian builds a window of size f; f < 1 is treated as 1 (pass-through).
func NewMedian(f int) *Median {
	if f < 1 {
		f = 1
	}
	return &Median{ring: make([]RawCode, f), scratch: make([]RawCode, f)}
}

// Push inserts c, evicting the oldest entry once the window is full.
func (m *Median) Push(c RawCode) {
	m.ring[m.next] = c
	m.next = (m.next + 1) % len(m.ring)
	if m.n < len(m.ring) {
		m.n++
	}
}

// Median returns the middle of the sorted entries present. Before the window
// fills this is the median of what has been pushed so far; false means empty.
func (m *Median) Median() (RawCode, bool) {
	if m.n == 0 {
		return 0, false
	}
	s := m.scratch[:m.n]
	copy(s, m.ring[:m.n])
	// insertion sort: F is small and this path must not allocate
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
	return s[len(s)/2], true
}

// Len is the number of entries present.
func (m *Median) Len() int { return m.n }

// Cap is the window size F.
func (m *Median) Cap() int { return len(m.ring) }

// Reset empties the window.
func (m *Median) Reset() {
	m.next = 0
	m.n = 0
}
