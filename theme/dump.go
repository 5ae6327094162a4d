package theme

import (
	"github.com/xlab/treeprint"
)

// Dump renders themes and their properties as a tree:
//
//	.
//	├── [:root] Fallback
//	│   ├── --bg: #0E0E10
//	...
func Dump(set Set, selector string) string {
	tree := treeprint.New()
	for _, t := range set {
		meta := selector
		if t.Condition != "" {
			meta = t.Condition + " " + selector
		}
		if !t.Found {
			tree.AddMetaNode(meta, t.DisplayName()+" (not found)")
			continue
		}
		branch := tree.AddMetaBranch(meta, t.DisplayName())
		for _, name := range t.Properties.Names() {
			branch.AddNode(name + ": " + t.Properties.Value(name))
		}
	}
	return tree.String()
}
