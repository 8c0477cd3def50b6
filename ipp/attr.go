/* ippd - a library for building IPP printer servers
 *
 * Attributes
 */

package ipp

import "fmt"

// Attribute is a named sequence of one or more values.
type Attribute struct {
	Name   string
	Values Values
}

// MakeAttribute creates an Attribute from a name and an already-built
// Values sequence.
func MakeAttribute(name string, values Values) Attribute {
	return Attribute{Name: name, Values: values}
}

// MakeAttr creates a single-value Attribute.
func MakeAttr(name string, t Tag, value Value) Attribute {
	return Attribute{
		Name:   name,
		Values: Values{{T: t, V: value}},
	}
}

// MakeAttrCollection creates a single-value Attribute wrapping a
// Collection.
func MakeAttrCollection(name string, collection Collection) Attribute {
	return MakeAttr(name, TagBeginCollection, collection)
}

func (attr Attribute) String() string {
	return fmt.Sprintf("%s=%s", attr.Name, attr.Values)
}

// Attributes is an ordered sequence of Attribute. Order is preserved
// on encode: senders that care about attribute ordering (this library
// doesn't) get back exactly what they put in.
type Attributes []Attribute

// Add appends an Attribute.
func (attrs *Attributes) Add(attr Attribute) { *attrs = append(*attrs, attr) }

// Equal performs a deep, order-sensitive comparison.
func (attrs Attributes) Equal(attrs2 Attributes) bool {
	if len(attrs) != len(attrs2) {
		return false
	}
	for i, a := range attrs {
		a2 := attrs2[i]
		if a.Name != a2.Name || !a.Values.Equal(a2.Values) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of attrs: the slice is new, but Values
// and nested Collections are shared with the original.
func (attrs Attributes) Clone() Attributes {
	clone := make(Attributes, len(attrs))
	copy(clone, attrs)
	return clone
}

// DeepCopy returns a full recursive copy of attrs, including nested
// Collections.
func (attrs Attributes) DeepCopy() Attributes {
	clone := make(Attributes, len(attrs))
	for i, a := range attrs {
		values := make(Values, len(a.Values))
		for j, v := range a.Values {
			if c, ok := v.V.(Collection); ok {
				v.V = Collection(Attributes(c).DeepCopy())
			}
			values[j] = v
		}
		clone[i] = Attribute{Name: a.Name, Values: values}
	}
	return clone
}

// Get returns the first attribute with the given name and reports
// whether it was found.
func (attrs Attributes) Get(name string) (Attribute, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}
