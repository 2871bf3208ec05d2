// Package relation defines the closed relationship-type vocabulary, the
// inverse-type table, and the per-type category defaults.
//
// Relationships are stored in one direction only; the view for the
// other endpoint is synthesized at read time with Inverse. The table is
// an involution: Inverse(Inverse(t)) == t for every type.
package relation

// Type is a relationship type. The vocabulary is closed; values outside
// it may still arrive in imported snapshots and are carried verbatim.
type Type string

// Relationship type vocabulary.
const (
	Spouse   Type = "spouse"
	Partner  Type = "partner"
	Parent   Type = "parent"
	Child    Type = "child"
	Sibling  Type = "sibling"
	Friend   Type = "friend"
	Coworker Type = "coworker"
	Manager  Type = "manager"
	Report   Type = "report"
	Client   Type = "client"
	Vendor   Type = "vendor"
)

// Category groups relationship types for display.
const (
	CategoryPersonal = "personal"
	CategoryBusiness = "business"
)

type entry struct {
	inverse  Type
	category string
}

// Symmetric types map to themselves; asymmetric types form pairs.
var table = map[Type]entry{
	Spouse:   {Spouse, CategoryPersonal},
	Partner:  {Partner, CategoryPersonal},
	Parent:   {Child, CategoryPersonal},
	Child:    {Parent, CategoryPersonal},
	Sibling:  {Sibling, CategoryPersonal},
	Friend:   {Friend, CategoryPersonal},
	Coworker: {Coworker, CategoryBusiness},
	Manager:  {Report, CategoryBusiness},
	Report:   {Manager, CategoryBusiness},
	Client:   {Vendor, CategoryBusiness},
	Vendor:   {Client, CategoryBusiness},
}

// Types returns the full vocabulary in a stable order.
func Types() []Type {
	return []Type{
		Spouse, Partner, Parent, Child, Sibling, Friend,
		Coworker, Manager, Report, Client, Vendor,
	}
}

// Inverse returns the semantic inverse of t. A type absent from the
// table is its own inverse; that identity fallback keeps the involution
// property for any type a snapshot can carry.
func Inverse(t Type) Type {
	if e, ok := table[t]; ok {
		return e.inverse
	}
	return t
}

// DefaultCategory returns the category a type belongs to when the
// caller does not override it. Unknown types default to personal.
func DefaultCategory(t Type) string {
	if e, ok := table[t]; ok {
		return e.category
	}
	return CategoryPersonal
}

// Known reports whether t is part of the closed vocabulary.
func Known(t Type) bool {
	_, ok := table[t]
	return ok
}
