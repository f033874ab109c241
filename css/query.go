package css

import "github.com/quiverhq/domtree/dom"

// Matches reports whether the element matches the selector text.
func Matches(el *dom.Element, selector string) (bool, error) {
	sel, err := Compile(selector)
	if err != nil {
		return false, err
	}
	return sel.Match(el), nil
}

// QuerySelector returns the first descendant of root matching the
// selector, in document (pre-order) position, or nil. Malformed selector
// text returns a SyntaxError.
func QuerySelector(root *dom.Node, selector string) (*dom.Element, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.QueryFirst(root), nil
}

// QuerySelectorAll returns all descendants of root matching the selector,
// in document order with no duplicates. The result is a snapshot: it does
// not change when the tree mutates afterwards.
func QuerySelectorAll(root *dom.Node, selector string) ([]*dom.Element, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return sel.QueryAll(root), nil
}

// QueryFirst returns the first descendant of root matching the compiled
// selector, or nil.
//
// Three fast paths are tried before the general traversal: a lone id test
// is answered from the document's id index (verified to be within root's
// subtree), a lone type test from the persistent tag-index entry, and a
// lone class test by a bloom-pruned walk. Everything else falls back to a
// pre-order walk with right-to-left matching.
func (s *Selector) QueryFirst(root *dom.Node) *dom.Element {
	if lone := s.loneCompound(); lone != nil {
		if id, ok := loneID(lone); ok {
			if doc := root.ConnectedDocument(); doc != nil {
				el := doc.GetElementById(id)
				if el == nil {
					return nil
				}
				if el.AsNode() != root && root.Contains(el.AsNode()) {
					return el
				}
				// The index holder sits outside root; a duplicate id
				// may still live inside. Fall through to the walk.
			}
		}
		if tag, ok := loneType(lone); ok {
			if doc := root.ConnectedDocument(); doc != nil {
				for _, el := range doc.GetElementsByTagName(tag).ToSlice() {
					if el.AsNode() != root && root.Contains(el.AsNode()) {
						return el
					}
				}
				return nil
			}
		}
		// A lone class test is the general walk below: the compound's
		// class check already goes through the bloom summary.
	}
	return queryWalk(root, s, true, nil)
}

// QueryAll returns all descendants of root matching the compiled
// selector, in document order with no duplicates. Snapshot semantics:
// the returned slice is not a live view.
func (s *Selector) QueryAll(root *dom.Node) []*dom.Element {
	if lone := s.loneCompound(); lone != nil {
		if tag, ok := loneType(lone); ok {
			if doc := root.ConnectedDocument(); doc != nil {
				var results []*dom.Element
				for _, el := range doc.GetElementsByTagName(tag).ToSlice() {
					if el.AsNode() != root && root.Contains(el.AsNode()) {
						results = append(results, el)
					}
				}
				return results
			}
		}
	}
	var results []*dom.Element
	queryWalk(root, s, false, &results)
	return results
}

// loneCompound returns the selector's only compound when the selector is
// a single complex selector with no combinators, else nil.
func (s *Selector) loneCompound() *CompoundSelector {
	if len(s.Complex) != 1 || len(s.Complex[0].Compounds) != 1 {
		return nil
	}
	return s.Complex[0].Compounds[0]
}

// loneID reports the id of a compound that is exactly one id test.
func loneID(c *CompoundSelector) (string, bool) {
	if c.Type == "" && len(c.IDs) == 1 &&
		len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0 {
		return c.IDs[0], true
	}
	return "", false
}

// loneType reports the tag of a compound that is exactly one type test.
func loneType(c *CompoundSelector) (string, bool) {
	if c.Type != "" && c.Type != "*" && len(c.IDs) == 0 &&
		len(c.Classes) == 0 && len(c.Attrs) == 0 && len(c.Pseudos) == 0 {
		return c.Type, true
	}
	return "", false
}

// queryWalk is the pre-order traversal fallback. Each candidate is
// pre-screened against the rightmost compound's type and class tests
// (the class tests ride the bloom summary) before full right-to-left
// matching. When firstOnly is set the first match is returned and the
// walk stops.
func queryWalk(node *dom.Node, sel *Selector, firstOnly bool, results *[]*dom.Element) *dom.Element {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if el := child.AsElement(); el != nil {
			if quickReject(sel, el) {
				// Descendants may still match.
			} else if sel.Match(el) {
				if firstOnly {
					return el
				}
				*results = append(*results, el)
			}
		}
		if found := queryWalk(child, sel, firstOnly, results); found != nil {
			return found
		}
	}
	return nil
}

// quickReject rejects a candidate when no complex selector's rightmost
// compound can match its type and classes. Cheap over-approximation: a
// false here skips the full match, a true proves nothing.
func quickReject(s *Selector, el *dom.Element) bool {
	for _, cs := range s.Complex {
		last := cs.Compounds[len(cs.Compounds)-1]
		if last.Type != "" && last.Type != "*" && el.LocalName() != last.Type {
			continue
		}
		ok := true
		for _, class := range last.Classes {
			if !el.HasClass(class) {
				ok = false
				break
			}
		}
		if ok {
			return false
		}
	}
	return true
}
