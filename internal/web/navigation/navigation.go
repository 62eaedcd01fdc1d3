// Package navigation builds the page title, breadcrumbs and the gated menu.
package navigation

import (
	"context"

	"github.com/inheritx/hr-portal/internal/gate"
	"github.com/inheritx/hr-portal/internal/session"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Item is one menu entry, shown only when its requirement allows.
type Item struct {
	Title       string
	URL         string
	Section     string
	Requirement gate.Requirement
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
	Menu          []Item
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithMenu sets the menu.
func (c *Context) WithMenu(items []Item) *Context {
	c.Menu = items
	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// Visible keeps the items whose requirement evaluates to Allow. Menu checks are
// not counted as gate decisions.
func Visible(snap session.Snapshot, grants *gate.Grants, items []Item) []Item {
	out := make([]Item, 0, len(items))

	for _, it := range items {
		if gate.Allowed(snap, it.Requirement, grants) {
			out = append(out, it)
		}
	}

	return out
}

// Filter is Visible with the permission set resolved at most once. When the
// set cannot be resolved, permission-gated items are hidden.
func Filter(ctx context.Context, r gate.Resolver, snap session.Snapshot, items []Item) []Item {
	return FilterWith(ctx, r, snap, nil, items)
}

// FilterWith is Filter reusing known when it was resolved at snap's
// generation.
func FilterWith(ctx context.Context, r gate.Resolver, snap session.Snapshot, known *gate.Grants, items []Item) []Item {
	grants := known
	if grants != nil && grants.Generation != snap.Generation {
		grants = nil
	}

	for _, it := range items {
		if grants != nil || !gate.NeedsGrants(snap, it.Requirement) {
			continue
		}

		grants, _ = gate.Lookup(ctx, r, snap)

		break
	}

	return Visible(snap, grants, items)
}
