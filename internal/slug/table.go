package slug

import "strconv"

// Table tracks which slugs a generation run has handed out.
// It is scoped to one run and is not safe for concurrent use.
type Table struct {
	seen map[string]int
}

// NewTable returns an empty collision table.
func NewTable() *Table {
	return &Table{seen: make(map[string]int)}
}

// Resolve returns base the first time it is seen and base-N afterwards,
// where N counts the earlier occurrences. Suffixed results are recorded too,
// so a later heading whose own base is "title-1" cannot reuse that anchor.
func (t *Table) Resolve(base string) string {
	if !t.Has(base) {
		t.seen[base] = 0
		return base
	}

	for count := t.seen[base] + 1; ; count++ {
		candidate := base + "-" + strconv.Itoa(count)
		if t.Has(candidate) {
			continue
		}
		t.seen[base] = count
		t.seen[candidate] = 0
		return candidate
	}
}

// Reserve marks id as used without changing its count if already present.
func (t *Table) Reserve(id string) {
	if !t.Has(id) {
		t.seen[id] = 0
	}
}

// Has reports whether id has been handed out or reserved.
func (t *Table) Has(id string) bool {
	_, ok := t.seen[id]
	return ok
}

// Reset forgets every recorded id.
func (t *Table) Reset() {
	clear(t.seen)
}
