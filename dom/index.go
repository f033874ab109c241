package dom

// docIndex holds the per-document lookup structures. It is maintained
// synchronously by the node store's connect/disconnect hooks and is never
// touched by queries, which only read it.
type docIndex struct {
	doc   *Document
	byID  map[string]*idEntry
	byTag map[string]*tagEntry
}

// idEntry tracks the connected elements bearing one id value.
//
// Identifiers are expected to be unique among connected elements, but
// nothing enforces that, so the entry keeps a count of all holders and a
// cached pointer to the first one in document order. When the cached
// holder disconnects while others remain, the cache goes stale and is
// re-resolved lazily by a document-order scan on the next lookup.
type idEntry struct {
	el    *Element
	count int
}

// tagEntry is the independently-allocated, persistent backing for one tag
// name: the connected elements with that tag, in document order.
//
// Entries are created the first time a tag name is requested or connected
// and are never removed, even when emptied. A live collection holds a
// pointer to the entry itself, so a collection obtained before any
// matching element exists observes the same slice the connect hook later
// populates.
type tagEntry struct {
	tag      string
	elements []*Element
}

func newDocIndex(doc *Document) *docIndex {
	return &docIndex{
		doc:   doc,
		byID:  make(map[string]*idEntry),
		byTag: make(map[string]*tagEntry),
	}
}

// connectSubtree registers every element of the subtree rooted at n, in
// document order, as one logical step of the mutation that linked it.
func (ix *docIndex) connectSubtree(n *Node) {
	if n.nodeType == ElementNode {
		ix.connectElement((*Element)(n))
	}
	for child := n.firstChild; child != nil; child = child.nextSibling {
		ix.connectSubtree(child)
	}
}

// disconnectSubtree deregisters every element of the subtree rooted at n.
func (ix *docIndex) disconnectSubtree(n *Node) {
	if n.nodeType == ElementNode {
		ix.disconnectElement((*Element)(n))
	}
	for child := n.firstChild; child != nil; child = child.nextSibling {
		ix.disconnectSubtree(child)
	}
}

func (ix *docIndex) connectElement(el *Element) {
	if id := el.ID(); id != "" {
		ix.addID(id, el)
	}
	ix.tagEntryFor(el.LocalName()).insert(el)
}

func (ix *docIndex) disconnectElement(el *Element) {
	if id := el.ID(); id != "" {
		ix.removeID(id, el)
	}
	if entry := ix.byTag[el.LocalName()]; entry != nil {
		entry.remove(el)
	}
	// The tag entry itself stays, even when empty: collections hold it.
}

// addID registers a connected element under an id. The cached holder is
// always the first in document order among those seen, so lookup stays
// deterministic when duplicate ids coexist.
func (ix *docIndex) addID(id string, el *Element) {
	e := ix.byID[id]
	if e == nil {
		ix.byID[id] = &idEntry{el: el, count: 1}
		return
	}
	e.count++
	if e.el != nil && compareOrder(el.asNode(), e.el.asNode()) < 0 {
		e.el = el
	}
}

// removeID drops one holder of an id. Removing the cached holder while
// duplicates remain leaves the entry stale for lazy re-resolution.
func (ix *docIndex) removeID(id string, el *Element) {
	e := ix.byID[id]
	if e == nil {
		return
	}
	e.count--
	if e.count <= 0 {
		delete(ix.byID, id)
		return
	}
	if e.el == el {
		e.el = nil
	}
}

// lookupID returns the first connected element in document order bearing
// the id, or nil.
func (ix *docIndex) lookupID(id string) *Element {
	e := ix.byID[id]
	if e == nil {
		return nil
	}
	if e.el == nil {
		e.el = ix.scanFirstID(id)
	}
	return e.el
}

// scanFirstID re-resolves a stale id entry with a pre-order walk.
func (ix *docIndex) scanFirstID(id string) *Element {
	return findFirstID(ix.doc.asNode(), id)
}

func findFirstID(n *Node, id string) *Element {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			el := (*Element)(child)
			if el.ID() == id {
				return el
			}
		}
		if found := findFirstID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// updateID re-registers a connected element whose id attribute changed.
func (ix *docIndex) updateID(el *Element, oldID, newID string) {
	if oldID != "" {
		ix.removeID(oldID, el)
	}
	if newID != "" {
		ix.addID(newID, el)
	}
}

// tagEntryFor returns the persistent entry for a tag name, creating it if
// absent. Both the connect hook and GetElementsByTagName go through this
// path, so a requested-before-populated entry and a populated one are the
// same object.
func (ix *docIndex) tagEntryFor(tag string) *tagEntry {
	entry := ix.byTag[tag]
	if entry == nil {
		entry = &tagEntry{tag: tag}
		ix.byTag[tag] = entry
	}
	return entry
}

// insert adds an element preserving document order. Connect hooks run in
// document order, so the common case is an append and the scan from the
// tail terminates immediately.
func (t *tagEntry) insert(el *Element) {
	i := len(t.elements)
	for i > 0 && compareOrder(el.asNode(), t.elements[i-1].asNode()) < 0 {
		i--
	}
	t.elements = append(t.elements, nil)
	copy(t.elements[i+1:], t.elements[i:])
	t.elements[i] = el
}

// remove drops an element by identity.
func (t *tagEntry) remove(el *Element) {
	for i, e := range t.elements {
		if e == el {
			t.elements = append(t.elements[:i], t.elements[i+1:]...)
			return
		}
	}
}
