package label

// Entry maps a canonical label slug to its registered synonyms.
type Entry struct {
	Canonical string
	Synonyms  []string
}

// Table is an ordered sequence of synonym entries. Declaration order is
// significant: when several entries could match a slug, the first declared
// entry wins. An empty table is valid and resolves nothing.
type Table struct {
	entries []Entry
}

// NewTable builds a table preserving the declared entry order.
func NewTable(entries ...Entry) Table {
	t := Table{entries: make([]Entry, len(entries))}
	copy(t.entries, entries)
	return t
}

// Len returns the number of entries in the table.
func (t Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in declaration order.
func (t Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Resolve returns the canonical slug for s, scanning entries in declaration
// order. A slug matches an entry when it equals the canonical key or appears
// in the entry's synonym list. Returns false when no entry matches.
func (t Table) Resolve(s string) (string, bool) {
	for _, e := range t.entries {
		if s == e.Canonical {
			return e.Canonical, true
		}
		for _, syn := range e.Synonyms {
			if s == syn {
				return e.Canonical, true
			}
		}
	}
	return "", false
}
