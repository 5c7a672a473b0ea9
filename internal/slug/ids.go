package slug

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// IDs generates goldmark heading ids with Slugify, so a rendered page uses
// the same anchors the outline links to.
type IDs struct {
	table *Table
}

// NewIDs returns an id generator backed by t. A nil t starts a fresh table.
func NewIDs(t *Table) *IDs {
	if t == nil {
		t = NewTable()
	}
	return &IDs{table: t}
}

// Generate implements parser.IDs. value is the heading text without its
// opening marker.
func (ids *IDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(Slugify(string(value), ids.table))
}

// Put implements parser.IDs. Explicit ids are reserved so generated ones
// never collide with them.
func (ids *IDs) Put(value []byte) {
	ids.table.Reserve(string(value))
}

var _ parser.IDs = (*IDs)(nil)
