// Package runs provides a run-length encoded array.
//
// An Array stores a logical sequence of values as maximal runs of equal
// values. After every mutation two invariants hold: the run lengths sum to
// Len(), and no two adjacent runs carry equal values. Positions are 1-based
// to match the text coordinates used by the engine.
package runs

import "fmt"

// Run is a value repeated Length times.
type Run[T comparable] struct {
	Value  T
	Length int
}

// Array is a run-length encoded sequence of T.
// The zero value is an empty array ready to use.
type Array[T comparable] struct {
	runs  []Run[T]
	count int
}

// New creates an empty array.
func New[T comparable]() *Array[T] {
	return &Array[T]{}
}

// FromRuns creates an array holding the given runs.
// Zero-length runs are dropped and equal neighbours are merged.
func FromRuns[T comparable](rs []Run[T]) *Array[T] {
	a := &Array[T]{runs: append([]Run[T](nil), rs...)}
	a.count = Total(rs)
	a.normalize()
	return a
}

// Fill returns a single run of v, or nil when n is zero.
func Fill[T comparable](v T, n int) []Run[T] {
	if n <= 0 {
		return nil
	}
	return []Run[T]{{Value: v, Length: n}}
}

// Total returns the number of elements described by rs.
func Total[T comparable](rs []Run[T]) int {
	n := 0
	for _, r := range rs {
		n += r.Length
	}
	return n
}

// Len returns the number of elements.
func (a *Array[T]) Len() int {
	return a.count
}

// RunCount returns the number of runs.
func (a *Array[T]) RunCount() int {
	return len(a.runs)
}

// Runs returns a copy of the runs.
func (a *Array[T]) Runs() []Run[T] {
	return append([]Run[T](nil), a.runs...)
}

// Clone returns an independent copy of the array.
func (a *Array[T]) Clone() *Array[T] {
	return &Array[T]{runs: a.Runs(), count: a.count}
}

// At returns the element at position i.
func (a *Array[T]) At(i int) T {
	k, _ := a.find(i)
	return a.runs[k].Value
}

// RunAt returns the run holding position i and the position where it starts.
func (a *Array[T]) RunAt(i int) (run Run[T], start int) {
	k, off := a.find(i)
	return a.runs[k], i - off
}

// Reset replaces the whole content.
func (a *Array[T]) Reset(rs []Run[T]) {
	a.runs = append(a.runs[:0], rs...)
	a.count = Total(rs)
	a.normalize()
}

// Insert inserts count copies of v before position at.
// at may be Len()+1 to append.
func (a *Array[T]) Insert(at, count int, v T) {
	a.InsertRuns(at, Fill(v, count))
}

// InsertRuns inserts rs before position at.
func (a *Array[T]) InsertRuns(at int, rs []Run[T]) {
	n := Total(rs)
	if n == 0 {
		return
	}
	a.checkInsert(at)
	k := a.split(at)
	tail := append([]Run[T](nil), a.runs[k:]...)
	a.runs = append(append(a.runs[:k], rs...), tail...)
	a.count += n
	a.normalize()
}

// Remove deletes count elements starting at first.
func (a *Array[T]) Remove(first, count int) {
	if count <= 0 {
		return
	}
	a.checkSpan(first, count)
	k1 := a.split(first)
	k2 := a.split(first + count)
	a.runs = append(a.runs[:k1], a.runs[k2:]...)
	a.count -= count
	a.normalize()
}

// Set replaces count elements starting at first with v.
func (a *Array[T]) Set(first, count int, v T) {
	a.Apply(first, count, func(T) T { return v })
}

// Apply replaces every value in the span with fn(value).
func (a *Array[T]) Apply(first, count int, fn func(T) T) {
	if count <= 0 {
		return
	}
	a.checkSpan(first, count)
	k1 := a.split(first)
	k2 := a.split(first + count)
	for k := k1; k < k2; k++ {
		a.runs[k].Value = fn(a.runs[k].Value)
	}
	a.normalize()
}

// Slice returns the runs covering count elements starting at first.
func (a *Array[T]) Slice(first, count int) []Run[T] {
	if count <= 0 {
		return nil
	}
	a.checkSpan(first, count)
	var out []Run[T]
	k, off := a.find(first)
	for count > 0 {
		r := a.runs[k]
		n := r.Length - off
		if n > count {
			n = count
		}
		out = append(out, Run[T]{Value: r.Value, Length: n})
		count -= n
		k++
		off = 0
	}
	return out
}

// find locates position i, returning the run index and the offset of i
// within that run.
func (a *Array[T]) find(i int) (int, int) {
	if i < 1 || i > a.count {
		panic(fmt.Sprintf("runs: index %d out of range [1,%d]", i, a.count))
	}
	pos := 1
	for k, r := range a.runs {
		if i < pos+r.Length {
			return k, i - pos
		}
		pos += r.Length
	}
	panic("runs: corrupt run table")
}

// split makes sure a run boundary exists just before position i and returns
// the index of the run that starts there. i may be Len()+1.
func (a *Array[T]) split(i int) int {
	if i == a.count+1 {
		return len(a.runs)
	}
	k, off := a.find(i)
	if off == 0 {
		return k
	}
	r := a.runs[k]
	a.runs = append(a.runs, Run[T]{})
	copy(a.runs[k+2:], a.runs[k+1:])
	a.runs[k] = Run[T]{Value: r.Value, Length: off}
	a.runs[k+1] = Run[T]{Value: r.Value, Length: r.Length - off}
	return k + 1
}

// normalize drops empty runs and merges equal neighbours.
func (a *Array[T]) normalize() {
	out := a.runs[:0]
	for _, r := range a.runs {
		if r.Length <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Value == r.Value {
			out[n-1].Length += r.Length
			continue
		}
		out = append(out, r)
	}
	a.runs = out
}

func (a *Array[T]) checkInsert(at int) {
	if at < 1 || at > a.count+1 {
		panic(fmt.Sprintf("runs: insert position %d out of range [1,%d]", at, a.count+1))
	}
}

func (a *Array[T]) checkSpan(first, count int) {
	if first < 1 || first+count-1 > a.count {
		panic(fmt.Sprintf("runs: span %d+%d out of range [1,%d]", first, count, a.count))
	}
}
