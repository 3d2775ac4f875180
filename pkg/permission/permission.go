// Package permission decides whether the current user may see the data a
// widget depends on.
//
// Permission computation belongs to the host application. This package
// defines the collaborator interface the layout engine consumes plus a
// default entity checker that understands grants on tables and on views
// resolved through their base tables.
package permission

import (
	"maps"
	"slices"
	"sort"
)

// Wildcard grants access to every entity.
const Wildcard = "*"

// Set is the set of entities the user was granted.
type Set map[string]bool

// NewSet builds a Set from entity names.
func NewSet(entities ...string) Set {
	s := make(Set, len(entities))
	for _, e := range entities {
		s[e] = true
	}
	return s
}

// Has reports whether entity was granted directly or through the wildcard.
func (s Set) Has(entity string) bool {
	return s[entity] || s[Wildcard]
}

// Names returns the granted entity names, sorted.
func (s Set) Names() []string {
	names := slices.Collect(maps.Keys(s))
	sort.Strings(names)
	return names
}

// ViewBaseTableMap maps a view name to the base tables it reads from.
type ViewBaseTableMap map[string][]string

// Checker answers access questions for a single entity.
type Checker interface {
	HasAccessToEntity(entity string, perms Set, views ViewBaseTableMap) bool
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(entity string, perms Set, views ViewBaseTableMap) bool

// HasAccessToEntity implements Checker.
func (f CheckerFunc) HasAccessToEntity(entity string, perms Set, views ViewBaseTableMap) bool {
	return f(entity, perms, views)
}

// EntityChecker is the default Checker.
//
// An entity is accessible when it is granted directly, or when it is a view
// and every one of its base tables is accessible. Views may be built on other
// views; cycles deny access.
type EntityChecker struct{}

// HasAccessToEntity implements Checker.
func (EntityChecker) HasAccessToEntity(entity string, perms Set, views ViewBaseTableMap) bool {
	return hasAccess(entity, perms, views, map[string]bool{})
}

func hasAccess(entity string, perms Set, views ViewBaseTableMap, visiting map[string]bool) bool {
	if perms.Has(entity) {
		return true
	}
	bases, ok := views[entity]
	if !ok || len(bases) == 0 || visiting[entity] {
		return false
	}
	visiting[entity] = true
	defer delete(visiting, entity)
	for _, base := range bases {
		if !hasAccess(base, perms, views, visiting) {
			return false
		}
	}
	return true
}

// Allowed reports whether every entity in required is accessible.
func Allowed(c Checker, required []string, perms Set, views ViewBaseTableMap) bool {
	return Denied(c, required, perms, views) == ""
}

// Denied returns the first inaccessible entity in required, or "".
func Denied(c Checker, required []string, perms Set, views ViewBaseTableMap) string {
	for _, entity := range required {
		if !c.HasAccessToEntity(entity, perms, views) {
			return entity
		}
	}
	return ""
}

var (
	_ Checker = EntityChecker{}
	_ Checker = CheckerFunc(nil)
)
