package dom

// HTMLCollection is a live, ordered view over connected elements. Every
// access reflects the backing source at that moment; nothing is cached
// across mutations and no refresh call exists.
//
// Two backings are used. Tag-name collections on a document hold a
// pointer to the persistent tag-index entry the connect hooks maintain,
// so access is a slice read. Class and subtree-scoped collections hold a
// filter predicate and re-walk their root on access.
type HTMLCollection struct {
	entry  *tagEntry
	root   *Node
	filter func(*Element) bool
}

// newTagCollection backs a collection with a stable tag-index entry.
func newTagCollection(entry *tagEntry) *HTMLCollection {
	return &HTMLCollection{entry: entry}
}

// newFilterCollection backs a collection with a subtree traversal.
func newFilterCollection(root *Node, filter func(*Element) bool) *HTMLCollection {
	return &HTMLCollection{root: root, filter: filter}
}

func (hc *HTMLCollection) collect() []*Element {
	if hc.entry != nil {
		return hc.entry.elements
	}
	var elements []*Element
	collectFiltered(hc.root, hc.filter, &elements)
	return elements
}

func collectFiltered(node *Node, filter func(*Element) bool, out *[]*Element) {
	for child := node.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			el := (*Element)(child)
			if filter(el) {
				*out = append(*out, el)
			}
		}
		collectFiltered(child, filter, out)
	}
}

// Length returns the current number of elements in the collection.
func (hc *HTMLCollection) Length() int {
	return len(hc.collect())
}

// Item returns the element at the given index, or nil if out of bounds.
func (hc *HTMLCollection) Item(index int) *Element {
	elements := hc.collect()
	if index < 0 || index >= len(elements) {
		return nil
	}
	return elements[index]
}

// NamedItem returns the first element whose id equals name, or nil.
func (hc *HTMLCollection) NamedItem(name string) *Element {
	if name == "" {
		return nil
	}
	for _, el := range hc.collect() {
		if el.ID() == name {
			return el
		}
	}
	return nil
}

// ToSlice returns the current elements as a fresh slice.
func (hc *HTMLCollection) ToSlice() []*Element {
	return append([]*Element(nil), hc.collect()...)
}
