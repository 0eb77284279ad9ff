package batch

import "github.com/wippyai/wasmlang/classify"

// Record is the outcome for one input file.
type Record struct {
	// Err is set when the file could not be read. Such records are
	// labelled Unknown and carry no hash or status.
	Err error

	Path     string
	Hash     string // xxh3-64 of the content, hex
	Label    classify.Label
	Rule     string
	Evidence string
	Status   string // wasm decode status
	Size     int64
}

// Tally aggregates labels across a batch. The zero value is ready to use.
// Tally is not safe for concurrent use; feed it from the emit callback.
type Tally struct {
	counts map[classify.Label]int
	total  int
	failed int
}

// Add counts rec.
func (t *Tally) Add(rec Record) {
	if t.counts == nil {
		t.counts = make(map[classify.Label]int)
	}
	t.counts[rec.Label]++
	t.total++
	if rec.Err != nil {
		t.failed++
	}
}

// Count returns the number of records labelled l.
func (t *Tally) Count(l classify.Label) int {
	return t.counts[l]
}

// Total returns the number of records added.
func (t *Tally) Total() int {
	return t.total
}

// Failed returns the number of records whose file could not be read.
func (t *Tally) Failed() int {
	return t.failed
}

// Unclassified returns (Unknown + UnknownCompressed) / Total as a fraction
// in [0, 1], or 0 for an empty tally.
func (t *Tally) Unclassified() float64 {
	if t.total == 0 {
		return 0
	}
	n := t.counts[classify.Unknown] + t.counts[classify.UnknownCompressed]
	return float64(n) / float64(t.total)
}
