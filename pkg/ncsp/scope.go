package ncsp

import (
	"sort"
	"strconv"
	"strings"
)

// Scope is an ordered set of Variables, sorted by id, insertion idempotent
// (§3). Supports union, intersection, containment, index-of-variable, and
// iteration in id order. Obtain canonical instances via Bank.Intern so
// repeated scopes share representation.
type Scope struct {
	vars []*Variable
}

func newScope(vars []*Variable) *Scope {
	byID := make(map[int]*Variable, len(vars))
	for _, v := range vars {
		byID[v.ID()] = v
	}
	out := make([]*Variable, 0, len(byID))
	for _, v := range byID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return &Scope{vars: out}
}

// NewScope builds a Scope directly without interning (tests, one-off use).
func NewScope(vars ...*Variable) *Scope { return newScope(vars) }

func (s *Scope) key() string {
	var b strings.Builder
	for i, v := range s.vars {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v.ID()))
	}
	return b.String()
}

// Len returns the number of variables.
func (s *Scope) Len() int { return len(s.vars) }

// At returns the i-th variable in id order.
func (s *Scope) At(i int) *Variable { return s.vars[i] }

// Vars returns the variables in id order. Callers must not mutate the slice.
func (s *Scope) Vars() []*Variable { return s.vars }

// Contains reports whether v (by id) is a member.
func (s *Scope) Contains(v *Variable) bool { return s.IndexOf(v) >= 0 }

// ContainsID reports membership by variable id.
func (s *Scope) ContainsID(id int) bool {
	for _, v := range s.vars {
		if v.ID() == id {
			return true
		}
	}
	return false
}

// IndexOf returns v's position in this scope's id order, or -1.
func (s *Scope) IndexOf(v *Variable) int {
	for i, w := range s.vars {
		if w.ID() == v.ID() {
			return i
		}
	}
	return -1
}

// Union returns the sorted union of s and t (not interned).
func (s *Scope) Union(t *Scope) *Scope {
	all := make([]*Variable, 0, s.Len()+t.Len())
	all = append(all, s.vars...)
	all = append(all, t.vars...)
	return newScope(all)
}

// Intersect returns the sorted intersection of s and t (not interned).
func (s *Scope) Intersect(t *Scope) *Scope {
	out := make([]*Variable, 0)
	for _, v := range s.vars {
		if t.ContainsID(v.ID()) {
			out = append(out, v)
		}
	}
	return newScope(out)
}

// Equal reports whether s and t contain exactly the same variable ids.
func (s *Scope) Equal(t *Scope) bool {
	if s.Len() != t.Len() {
		return false
	}
	for i := range s.vars {
		if s.vars[i].ID() != t.vars[i].ID() {
			return false
		}
	}
	return true
}
