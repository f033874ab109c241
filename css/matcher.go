package css

import (
	"strconv"
	"strings"

	"github.com/quiverhq/domtree/dom"
)

// Match tests the selector against an element. It is total: any compiled
// selector against any element yields true or false, never an error.
func (s *Selector) Match(el *dom.Element) bool {
	for _, cs := range s.Complex {
		if cs.Match(el) {
			return true
		}
	}
	return false
}

// Match evaluates a complex selector right to left: the rightmost
// compound against the subject element first, then the remaining chain
// against the appropriate relative per combinator, short-circuiting on
// the first compound failure.
func (cs *ComplexSelector) Match(el *dom.Element) bool {
	if len(cs.Compounds) == 0 {
		return false
	}
	if !cs.Compounds[len(cs.Compounds)-1].Match(el) {
		return false
	}
	return matchChain(cs.Compounds[:len(cs.Compounds)-1], el)
}

// matchChain matches the remaining compounds against relatives of el. The
// last compound in rest carries the combinator joining it to the element
// already matched.
func matchChain(rest []*CompoundSelector, el *dom.Element) bool {
	if len(rest) == 0 {
		return true
	}
	compound := rest[len(rest)-1]
	head := rest[:len(rest)-1]

	switch compound.Combinator {
	case CombinatorDescendant:
		for anc := el.AsNode().ParentElement(); anc != nil; anc = anc.AsNode().ParentElement() {
			if compound.Match(anc) && matchChain(head, anc) {
				return true
			}
		}
		return false

	case CombinatorChild:
		parent := el.AsNode().ParentElement()
		if parent == nil || !compound.Match(parent) {
			return false
		}
		return matchChain(head, parent)

	case CombinatorNextSibling:
		prev := el.PreviousElementSibling()
		if prev == nil || !compound.Match(prev) {
			return false
		}
		return matchChain(head, prev)

	case CombinatorSubsequentSibling:
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if compound.Match(prev) && matchChain(head, prev) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// Match tests a compound selector against an element. Class tests go
// through the element's bloom summary before exact comparison.
func (c *CompoundSelector) Match(el *dom.Element) bool {
	if c.Type != "" && c.Type != "*" && el.LocalName() != c.Type {
		return false
	}
	for _, id := range c.IDs {
		if el.ID() != id {
			return false
		}
	}
	for _, class := range c.Classes {
		if !el.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.Attrs {
		if !matchAttr(attr, el) {
			return false
		}
	}
	for _, pc := range c.Pseudos {
		if !matchPseudoClass(pc, el) {
			return false
		}
	}
	return true
}

func matchAttr(attr *AttrMatcher, el *dom.Element) bool {
	if !el.HasAttribute(attr.Name) {
		return false
	}
	if attr.Op == AttrExists {
		return true
	}

	attrValue := el.GetAttribute(attr.Name)
	matchValue := attr.Value
	if attr.CaseInsensitive {
		attrValue = strings.ToLower(attrValue)
		matchValue = strings.ToLower(matchValue)
	}

	switch attr.Op {
	case AttrEquals:
		return attrValue == matchValue
	case AttrIncludes:
		if matchValue == "" {
			return false
		}
		for _, word := range strings.Fields(attrValue) {
			if word == matchValue {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return attrValue == matchValue || strings.HasPrefix(attrValue, matchValue+"-")
	case AttrPrefix:
		return matchValue != "" && strings.HasPrefix(attrValue, matchValue)
	case AttrSuffix:
		return matchValue != "" && strings.HasSuffix(attrValue, matchValue)
	case AttrSubstring:
		return matchValue != "" && strings.Contains(attrValue, matchValue)
	default:
		return false
	}
}

func matchPseudoClass(pc *PseudoClass, el *dom.Element) bool {
	switch pc.Name {
	case "root":
		parent := el.AsNode().ParentNode()
		return parent != nil && parent.NodeType() == dom.DocumentNode

	case "empty":
		return !el.AsNode().HasChildNodes()

	case "first-child":
		return el.PreviousElementSibling() == nil

	case "last-child":
		return el.NextElementSibling() == nil

	case "only-child":
		return el.PreviousElementSibling() == nil && el.NextElementSibling() == nil

	case "first-of-type":
		return nthPosition(el, false, true) == 1

	case "last-of-type":
		return nthPosition(el, true, true) == 1

	case "only-of-type":
		return nthPosition(el, false, true) == 1 && nthPosition(el, true, true) == 1

	case "nth-child":
		return matchNth(pc.Argument, el, false, false)

	case "nth-last-child":
		return matchNth(pc.Argument, el, true, false)

	case "nth-of-type":
		return matchNth(pc.Argument, el, false, true)

	case "nth-last-of-type":
		return matchNth(pc.Argument, el, true, true)

	case "not":
		return pc.Selector != nil && !pc.Selector.Match(el)

	case "is", "where":
		return pc.Selector != nil && pc.Selector.Match(el)

	case "has":
		return pc.Selector != nil && hasMatchingDescendant(el, pc.Selector)

	default:
		// Unknown pseudo-classes never match.
		return false
	}
}

// nthPosition returns the element's 1-based position among its siblings,
// counted from the end when fromLast is set and restricted to the same
// tag when ofType is set.
func nthPosition(el *dom.Element, fromLast, ofType bool) int {
	pos := 1
	tag := el.LocalName()
	if fromLast {
		for next := el.NextElementSibling(); next != nil; next = next.NextElementSibling() {
			if !ofType || next.LocalName() == tag {
				pos++
			}
		}
	} else {
		for prev := el.PreviousElementSibling(); prev != nil; prev = prev.PreviousElementSibling() {
			if !ofType || prev.LocalName() == tag {
				pos++
			}
		}
	}
	return pos
}

// matchNth implements the nth-* family against an An+B argument.
func matchNth(arg string, el *dom.Element, fromLast, ofType bool) bool {
	a, b, ok := parseAnPlusB(arg)
	if !ok {
		return false
	}
	pos := nthPosition(el, fromLast, ofType)
	if a == 0 {
		return pos == b
	}
	// pos = a*n + b for some n >= 0
	diff := pos - b
	if a > 0 {
		return diff >= 0 && diff%a == 0
	}
	return diff <= 0 && diff%a == 0
}

// parseAnPlusB parses an An+B expression ("2n+1", "odd", "-n+3", "4").
func parseAnPlusB(s string) (a, b int, ok bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	switch s {
	case "":
		return 0, 0, false
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	}

	if n, err := strconv.Atoi(s); err == nil {
		return 0, n, true
	}

	nIdx := strings.Index(s, "n")
	if nIdx < 0 {
		return 0, 0, false
	}

	aStr := s[:nIdx]
	switch aStr {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aStr)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}

	bStr := s[nIdx+1:]
	if bStr == "" {
		return a, 0, true
	}
	v, err := strconv.Atoi(bStr)
	if err != nil {
		return 0, 0, false
	}
	return a, v, true
}

func hasMatchingDescendant(el *dom.Element, sel *Selector) bool {
	for child := el.FirstElementChild(); child != nil; child = child.NextElementSibling() {
		if sel.Match(child) || hasMatchingDescendant(child, sel) {
			return true
		}
	}
	return false
}
