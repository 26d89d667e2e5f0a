package listfile

import "strings"

// Wildcard as an item name matches every item of the referenced collection.
const Wildcard = "*"

// Ref names an item inside a collection, as written in filter and playlist files:
// either a bare item name or "_<collection>:<item>".
type Ref struct {
	Collection string
	Name       string
}

// ParseRef decodes entry. Bare names belong to defaultCollection.
func ParseRef(entry, defaultCollection string) Ref {
	if strings.HasPrefix(entry, "_") {
		if idx := strings.IndexByte(entry, ':'); idx > 0 {
			return Ref{Collection: entry[1:idx], Name: entry[idx+1:]}
		}
	}
	return Ref{Collection: defaultCollection, Name: entry}
}

func (r Ref) IsWildcard() bool { return r.Name == Wildcard }

// Matches reports whether an item named name in collection coll is referenced.
func (r Ref) Matches(coll, name string) bool {
	return r.Collection == coll && (r.IsWildcard() || r.Name == name)
}

// Key is the always-prefixed composite form used by the play-history store.
func (r Ref) Key() string {
	return Key(r.Collection, r.Name)
}

// Format writes r relative to owner, dropping the prefix when r lives in owner.
func (r Ref) Format(owner string) string {
	if r.Collection == owner {
		return r.Name
	}
	return r.Key()
}

// Key builds "_<collection>:<name>".
func Key(collection, name string) string {
	return "_" + collection + ":" + name
}
