package distance

import (
	"errors"
	"slices"
	"sort"
)

// ErrUnknownIndex is returned when a query addresses an item outside the matrix.
var ErrUnknownIndex = errors.New("distance: unknown item index")

// Entry is the distance from a query item to the item at index Ref.
type Entry struct {
	Distance float64
	Ref      int
}

// Matrix holds sorted distance lists for every item.
type Matrix[T any] struct {
	items []T
	rows  [][]Entry
}

// New computes the distance from every item to every other item using fn.
// Rows are stably sorted, so ties keep input order.
func New[T any](items []T, fn func(a, b T) float64) *Matrix[T] {
	return build(slices.Clone(items), func(i, j int) float64 { return fn(items[i], items[j]) })
}

// Derive builds a second matrix over the same items whose distance is computed
// from the first matrix's distance between i and j.
func Derive[T any](m *Matrix[T], fn func(i, j int, d float64) float64) *Matrix[T] {
	return build(m.items, func(i, j int) float64 {
		d, _ := m.Between(i, j)
		return fn(i, j, d)
	})
}

func build[T any](items []T, dist func(i, j int) float64) *Matrix[T] {
	m := &Matrix[T]{items: items, rows: make([][]Entry, len(items))}
	for i := range items {
		row := make([]Entry, 0, len(items)-1)
		for j := range items {
			if i != j {
				row = append(row, Entry{Distance: dist(i, j), Ref: j})
			}
		}
		sort.SliceStable(row, func(a, b int) bool { return row[a].Distance < row[b].Distance })
		m.rows[i] = row
	}
	return m
}

// Len returns the number of items.
func (m *Matrix[T]) Len() int { return len(m.items) }

// Item returns the item at index i.
func (m *Matrix[T]) Item(i int) T { return m.items[i] }

func (m *Matrix[T]) row(i int) ([]Entry, error) {
	if i < 0 || i >= len(m.rows) {
		return nil, ErrUnknownIndex
	}
	return m.rows[i], nil
}

// Between returns the distance from a to b. The second result is false when
// either index is unknown or a == b.
func (m *Matrix[T]) Between(a, b int) (float64, bool) {
	row, err := m.row(a)
	if err != nil {
		return 0, false
	}
	for _, e := range row {
		if e.Ref == b {
			return e.Distance, true
		}
	}
	return 0, false
}

// KNN returns the k nearest neighbors of a, closest first. k <= 0 returns all
// N-1 neighbors. The returned slice is a copy.
func (m *Matrix[T]) KNN(a, k int) ([]Entry, error) {
	row, err := m.row(a)
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > len(row) {
		k = len(row)
	}
	return slices.Clone(row[:k]), nil
}

// NN returns the nearest neighbor of a. The second result is false when a has
// no neighbors or is unknown.
func (m *Matrix[T]) NN(a int) (Entry, bool) {
	row, err := m.row(a)
	if err != nil || len(row) == 0 {
		return Entry{}, false
	}
	return row[0], true
}

// Within returns the neighbors of a at distance <= maxDist, closest first.
func (m *Matrix[T]) Within(a int, maxDist float64) ([]Entry, error) {
	row, err := m.row(a)
	if err != nil {
		return nil, err
	}
	n := sort.Search(len(row), func(i int) bool { return row[i].Distance > maxDist })
	return slices.Clone(row[:n]), nil
}

// Where returns the neighbors of a accepted by pred, closest first.
func (m *Matrix[T]) Where(a int, pred func(Entry) bool) ([]Entry, error) {
	row, err := m.row(a)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range row {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
