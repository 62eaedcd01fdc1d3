package permission

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is one selectable permission inside a Group.
type Option struct {
	ID    string
	Label string
	Code  string
}

// Group is all permissions of one module.
type Group struct {
	Module  string
	Options []Option
}

// IDs returns the ids of every option in the group.
func (g Group) IDs() []string {
	ids := make([]string, len(g.Options))
	for i, o := range g.Options {
		ids[i] = o.ID
	}

	return ids
}

// Title is the display name of the module.
func (g Group) Title() string {
	return cases.Title(language.English).String(g.Module)
}

// GroupByModule buckets perms by module. Modules and the options inside them
// keep the order in which they first appear.
func GroupByModule(perms []Permission) []Group {
	title := cases.Title(language.English)
	index := make(map[string]int)

	var groups []Group

	for _, p := range perms {
		module, action := ParseCode(p.Code)

		i, ok := index[module]
		if !ok {
			i = len(groups)
			index[module] = i
			groups = append(groups, Group{Module: module})
		}

		groups[i].Options = append(groups[i].Options, Option{
			ID:    p.ID,
			Label: title.String(action),
			Code:  p.Code,
		})
	}

	return groups
}

// Selection is a flat set of selected permission ids.
type Selection map[string]struct{}

// NewSelection returns a selection containing ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips a single id.
func (s Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s, id)
		return
	}

	s[id] = struct{}{}
}

// SelectModule adds every id of g.
func (s Selection) SelectModule(g Group) {
	for _, o := range g.Options {
		s[o.ID] = struct{}{}
	}
}

// DeselectModule removes every id of g.
func (s Selection) DeselectModule(g Group) {
	for _, o := range g.Options {
		delete(s, o.ID)
	}
}

// ToggleModule selects the whole module unless it is already fully selected,
// in which case the module is cleared. Other modules are untouched.
func (s Selection) ToggleModule(g Group) {
	if s.FullySelected(g) {
		s.DeselectModule(g)
		return
	}

	s.SelectModule(g)
}

// FullySelected reports whether every option of a non-empty g is selected.
func (s Selection) FullySelected(g Group) bool {
	if len(g.Options) == 0 {
		return false
	}

	for _, o := range g.Options {
		if !s.Has(o.ID) {
			return false
		}
	}

	return true
}

// PartiallySelected reports whether some but not all options of g are selected.
func (s Selection) PartiallySelected(g Group) bool {
	n := 0

	for _, o := range g.Options {
		if s.Has(o.ID) {
			n++
		}
	}

	return n > 0 && n < len(g.Options)
}

// IDs returns the selected ids in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
