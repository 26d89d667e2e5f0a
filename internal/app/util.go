package app

import (
	"fmt"

	"github.com/xxxsen/retrolist/internal/collection"
	"github.com/xxxsen/retrolist/internal/listfile"
)

// findItem resolves "name" or "_<collection>:name" against the leaf items of c.
// A bare name is looked up in c first, then in its merged sub-collections.
func findItem(c *collection.Collection, arg string) (*collection.Item, error) {
	ref := listfile.ParseRef(arg, c.Name)
	if ref.IsWildcard() {
		return nil, fmt.Errorf("item %q: wildcard not allowed", arg)
	}
	if it := c.FindItem(ref.Collection, ref.Name); it != nil && it.Leaf {
		return it, nil
	}
	if ref.Collection == c.Name {
		for _, it := range c.Items() {
			if it.Leaf && it.Name == ref.Name {
				return it, nil
			}
		}
	}
	return nil, fmt.Errorf("item %q not found in collection %s", arg, c.Name)
}
