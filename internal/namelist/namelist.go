// Package namelist provides an ordered set of member names.
package namelist

// List is an ordered collection of member names.
//
// Names keep their insertion order. Add ignores a name already present, so a
// List built from an archive scan holds each name once, in first-occurrence
// order. The zero value is an empty list ready to use.
type List struct {
	names []string
	index map[string]struct{}
}

// New returns a list holding names in order, skipping repeats.
func New(names ...string) *List {
	l := &List{}
	for _, name := range names {
		l.Add(name)
	}
	return l
}

// Add appends name unless it is already present.
// It reports whether name was added.
func (l *List) Add(name string) bool {
	if l.index == nil {
		l.index = make(map[string]struct{})
	}
	if _, ok := l.index[name]; ok {
		return false
	}
	l.index[name] = struct{}{}
	l.names = append(l.names, name)
	return true
}

// Contains reports whether name is in the list.
func (l *List) Contains(name string) bool {
	_, ok := l.index[name]
	return ok
}

// SubsetOf reports whether every name in l is also in other.
// An empty list is a subset of any list.
func (l *List) SubsetOf(other *List) bool {
	for _, name := range l.names {
		if !other.Contains(name) {
			return false
		}
	}
	return true
}

// Missing returns the names in l that are absent from other, in order.
func (l *List) Missing(other *List) []string {
	var missing []string
	for _, name := range l.names {
		if !other.Contains(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names returns a copy of the names in insertion order.
func (l *List) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of names.
func (l *List) Len() int {
	return len(l.names)
}
