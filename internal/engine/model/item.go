package model

import (
	"maps"
	"slices"
)

// Kind is the variant tag of an [Item].
type Kind uint8

const (
	// KindElement is a named container with attributes and children.
	KindElement Kind = iota

	// KindText is a single character with attributes.
	KindText

	// KindEmbed is an opaque reference to external content.
	KindEmbed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// Attributes maps attribute keys to values. An empty value means unset.
type Attributes map[string]string

// Clone returns a copy of a. A nil map stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return maps.Clone(a)
}

// Equal reports whether a and other hold the same keys and values.
func (a Attributes) Equal(other Attributes) bool {
	return maps.Equal(a, other)
}

// Keys returns the attribute keys in sorted order.
func (a Attributes) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Changed returns the sorted keys whose values differ between a and other.
func (a Attributes) Changed(other Attributes) []string {
	var keys []string
	for k, v := range a {
		if other[k] != v {
			keys = append(keys, k)
		}
	}
	for k := range other {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// set stores value under key, deleting the key when value is empty.
func (a Attributes) set(key, value string) Attributes {
	if value == "" {
		delete(a, key)
		return a
	}
	if a == nil {
		a = make(Attributes)
	}
	a[key] = value
	return a
}

// Item is the content held by a tree slot.
type Item struct {
	Kind  Kind
	Name  string // element name
	Char  rune   // text character
	Ref   string // embed reference
	Attrs Attributes
}

// Cloneable reports whether the item is copied structurally when cloned.
// Embeds are opaque references and keep sharing their attributes.
func (it Item) Cloneable() bool {
	return it.Kind != KindEmbed
}

// clone returns a copy of the item honoring its capability.
func (it Item) clone() Item {
	if it.Cloneable() {
		it.Attrs = it.Attrs.Clone()
	}
	return it
}

// equal reports whether two items hold the same content.
func (it Item) equal(other Item) bool {
	return it.Kind == other.Kind &&
		it.Name == other.Name &&
		it.Char == other.Char &&
		it.Ref == other.Ref &&
		it.Attrs.Equal(other.Attrs)
}
