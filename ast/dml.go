package ast

import (
	"hash/fnv"

	"github.com/relkit/relkit/utils"
)

type InsertStmt struct {
	Table     *Table
	Columns   []string
	Rows      [][]Node // each cell is *Value or *Default
	Returning []Node
}

func (i *InsertStmt) Type() NodeType         { return NodeInsert }
func (i *InsertStmt) Accept(v Visitor) error { return v.VisitInsert(i) }
func (i *InsertStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("insert:"))
	h.Write(utils.U64ToBytes(i.Table.Fingerprint()))
	for _, c := range i.Columns {
		h.Write([]byte(c + ","))
	}
	for _, row := range i.Rows {
		for _, cell := range row {
			h.Write(utils.U64ToBytes(cell.Fingerprint()))
		}
	}
	for _, r := range i.Returning {
		h.Write(utils.U64ToBytes(r.Fingerprint()))
	}
	return h.Sum64()
}

// Assignment is a single SET clause entry. Assignments are an ordered
// slice, not a map, so SET order is stable across compiles.
type Assignment struct {
	Column string
	Value  Node
}

type UpdateStmt struct {
	Table     *Table
	Set       []Assignment
	Where     *WhereClause
	Returning []Node
}

func (u *UpdateStmt) Type() NodeType         { return NodeUpdate }
func (u *UpdateStmt) Accept(v Visitor) error { return v.VisitUpdate(u) }
func (u *UpdateStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("update:"))
	h.Write(utils.U64ToBytes(u.Table.Fingerprint()))
	for _, a := range u.Set {
		h.Write([]byte(a.Column + "="))
		h.Write(utils.U64ToBytes(a.Value.Fingerprint()))
	}
	if u.Where != nil {
		h.Write(utils.U64ToBytes(u.Where.Fingerprint()))
	}
	for _, r := range u.Returning {
		h.Write(utils.U64ToBytes(r.Fingerprint()))
	}
	return h.Sum64()
}

type DeleteStmt struct {
	Table     *Table
	Where     *WhereClause
	Returning []Node
}

func (d *DeleteStmt) Type() NodeType         { return NodeDelete }
func (d *DeleteStmt) Accept(v Visitor) error { return v.VisitDelete(d) }
func (d *DeleteStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("delete:"))
	h.Write(utils.U64ToBytes(d.Table.Fingerprint()))
	if d.Where != nil {
		h.Write(utils.U64ToBytes(d.Where.Fingerprint()))
	}
	for _, r := range d.Returning {
		h.Write(utils.U64ToBytes(r.Fingerprint()))
	}
	return h.Sum64()
}
