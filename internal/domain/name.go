package domain

import "strings"

// PersonName is the value object behind a seller's display name. The full
// name is stored as two columns (first/last); this type owns the split and
// join rules so no hidden derivation happens in the model or the handlers.
type PersonName struct {
	First string
	Last  string
}

// SplitName decomposes a full display name. A single word becomes the first
// name with an empty last name; everything after the first word joins into
// the last name. Surrounding and repeated whitespace is ignored.
func SplitName(full string) PersonName {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return PersonName{}
	case 1:
		return PersonName{First: parts[0]}
	default:
		return PersonName{First: parts[0], Last: strings.Join(parts[1:], " ")}
	}
}

// Full joins the name parts back into a display name.
func (n PersonName) Full() string {
	if n.Last == "" {
		return n.First
	}
	return n.First + " " + n.Last
}
