package css

import (
	"fmt"
	"testing"

	"github.com/quiverhq/domtree/dom"
)

func localNames(els []*dom.Element) []string {
	names := make([]string, len(els))
	for i, el := range els {
		names[i] = el.LocalName()
	}
	return names
}

func TestQuerySelector_First(t *testing.T) {
	f := buildFixture(t)

	el, err := QuerySelector(f.doc.AsNode(), "p")
	if err != nil {
		t.Fatalf("QuerySelector failed: %v", err)
	}
	if el != f.intro {
		t.Error("expected the first p in document order")
	}

	el, err = QuerySelector(f.doc.AsNode(), "nav")
	if err != nil || el != nil {
		t.Errorf("no match should yield nil, nil; got %v, %v", el, err)
	}
}

func TestQuerySelector_SyntaxError(t *testing.T) {
	_, err := QuerySelector(dom.NewDocument().AsNode(), "div >")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	domErr, ok := err.(*dom.DOMError)
	if !ok || domErr.Name != "SyntaxError" {
		t.Errorf("expected SyntaxError, got %v", err)
	}
}

func TestQuerySelectorAll_DocumentOrder(t *testing.T) {
	f := buildFixture(t)

	els, err := QuerySelectorAll(f.doc.AsNode(), "div, p, a")
	if err != nil {
		t.Fatalf("QuerySelectorAll failed: %v", err)
	}
	want := []string{"div", "p", "p", "a", "div"}
	got := localNames(els)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQuerySelectorAll_NoDuplicates(t *testing.T) {
	f := buildFixture(t)

	// Both alternatives match the same element.
	els, err := QuerySelectorAll(f.doc.AsNode(), ".intro, p.intro.lead")
	if err != nil {
		t.Fatalf("QuerySelectorAll failed: %v", err)
	}
	if len(els) != 1 {
		t.Errorf("an element matching several alternatives appears once, got %d", len(els))
	}
}

func TestQuerySelectorAll_Snapshot(t *testing.T) {
	f := buildFixture(t)

	snapshot, err := QuerySelectorAll(f.doc.AsNode(), "li")
	if err != nil {
		t.Fatalf("QuerySelectorAll failed: %v", err)
	}
	if len(snapshot) != 4 {
		t.Fatalf("expected 4 items, got %d", len(snapshot))
	}

	ul := f.items[0].AsNode().ParentNode()
	mkel(t, f.doc, ul, "li")

	if len(snapshot) != 4 {
		t.Error("query results are a snapshot and must not grow")
	}
	live := f.doc.GetElementsByTagName("li")
	if live.Length() != 5 {
		t.Errorf("the live collection must see the new element, got %d", live.Length())
	}
}

func TestQueryFirst_IDFastPath(t *testing.T) {
	f := buildFixture(t)

	if el := MustCompile("#main").QueryFirst(f.doc.AsNode()); el != f.main {
		t.Error("lone-id query should find the indexed element")
	}
	if el := MustCompile("#missing").QueryFirst(f.doc.AsNode()); el != nil {
		t.Error("unknown id should yield nil")
	}

	// Scoped below the id holder: the index answer sits outside root, so
	// the query must not return it.
	if el := MustCompile("#main").QueryFirst(f.sidebar.AsNode()); el != nil {
		t.Error("id holder outside the query root must not match")
	}
	// The root itself never matches its own query.
	if el := MustCompile("#main").QueryFirst(f.main.AsNode()); el != nil {
		t.Error("the query root is not its own descendant")
	}
}

func TestQueryFirst_IDFastPath_DuplicateInsideRoot(t *testing.T) {
	doc := dom.NewDocument()
	defer doc.AsNode().Release()
	root := mkel(t, doc, doc.AsNode(), "html")
	left := mkel(t, doc, root.AsNode(), "div")
	right := mkel(t, doc, root.AsNode(), "div")

	mkel(t, doc, left.AsNode(), "span", "id", "dup")
	inRight := mkel(t, doc, right.AsNode(), "span", "id", "dup")

	// The index answers with the first holder, which lives under left;
	// scoped to right the walk must still find the duplicate inside.
	if el := MustCompile("#dup").QueryFirst(right.AsNode()); el != inRight {
		t.Error("a duplicate id inside the root must be found even when the index holder is elsewhere")
	}
}

func TestQueryAll_TagFastPath(t *testing.T) {
	f := buildFixture(t)

	sel := MustCompile("li")
	all := sel.QueryAll(f.doc.AsNode())
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}
	for i, li := range f.items {
		if all[i] != li {
			t.Errorf("position %d: tag results out of document order", i)
		}
	}

	// Scoped: only the subtree's elements, excluding the root itself.
	scoped := MustCompile("div").QueryAll(f.body.AsNode())
	if len(scoped) != 2 {
		t.Errorf("expected both divs under body, got %d", len(scoped))
	}
	if els := MustCompile("div").QueryAll(f.main.AsNode()); len(els) != 0 {
		t.Errorf("the query root itself must not be returned, got %d", len(els))
	}
}

func TestQuery_DetachedSubtree(t *testing.T) {
	doc := dom.NewDocument()
	defer doc.AsNode().Release()

	// A free-floating subtree has no connected document, so every fast
	// path is skipped and the traversal still answers.
	wrapper := doc.CreateElement("div")
	defer wrapper.AsNode().Release()
	inner := mkel(t, doc, wrapper.AsNode(), "span", "id", "x", "class", "y")

	if el := MustCompile("#x").QueryFirst(wrapper.AsNode()); el != inner {
		t.Error("id query must work on detached subtrees")
	}
	if els := MustCompile("span").QueryAll(wrapper.AsNode()); len(els) != 1 {
		t.Errorf("tag query must work on detached subtrees, got %d", len(els))
	}
	if els := MustCompile(".y").QueryAll(wrapper.AsNode()); len(els) != 1 {
		t.Errorf("class query must work on detached subtrees, got %d", len(els))
	}
}

func TestMatches(t *testing.T) {
	f := buildFixture(t)

	ok, err := Matches(f.intro, "div > p.intro")
	if err != nil || !ok {
		t.Errorf("expected a match, got %v, %v", ok, err)
	}
	ok, err = Matches(f.intro, "span")
	if err != nil || ok {
		t.Errorf("expected no match, got %v, %v", ok, err)
	}
	if _, err = Matches(f.intro, "p >"); err == nil {
		t.Error("malformed text should surface the syntax error")
	}
}

// TestQuery_FastPathsAgreeWithTraversal cross-checks every query path
// against a plain filter of the full traversal using the same compiled
// matcher: the fast paths may only change the cost, never the answer.
func TestQuery_FastPathsAgreeWithTraversal(t *testing.T) {
	doc := dom.NewDocument()
	defer doc.AsNode().Release()
	root := mkel(t, doc, doc.AsNode(), "html")
	body := mkel(t, doc, root.AsNode(), "body")

	// A tree with duplicate ids, repeated tags and shared classes, deep
	// enough to exercise every combinator.
	section := mkel(t, doc, body.AsNode(), "section", "id", "s1", "class", "block")
	for i := 0; i < 3; i++ {
		art := mkel(t, doc, section.AsNode(), "article", "class", "block item")
		mkel(t, doc, art.AsNode(), "h2", "id", "title")
		p := mkel(t, doc, art.AsNode(), "p", "class", "body-text")
		mkel(t, doc, p.AsNode(), "em")
	}
	aside := mkel(t, doc, body.AsNode(), "aside", "id", "s1")
	mkel(t, doc, aside.AsNode(), "p", "class", "body-text small")

	selectors := []string{
		"p", "em", "#s1", "#title", ".block", ".body-text",
		"article p", "section > article", "article > h2 + p",
		"h2 ~ p", "p em", ".block .body-text", "article:first-child p",
		"p:not(.small)", "*",
	}
	roots := []*dom.Node{doc.AsNode(), body.AsNode(), section.AsNode(), aside.AsNode()}

	for _, selText := range selectors {
		sel := MustCompile(selText)
		for ri, queryRoot := range roots {
			t.Run(fmt.Sprintf("%s/root%d", selText, ri), func(t *testing.T) {
				var want []*dom.Element
				walkElements(queryRoot, func(el *dom.Element) {
					if sel.Match(el) {
						want = append(want, el)
					}
				})

				got := sel.QueryAll(queryRoot)
				if len(got) != len(want) {
					t.Fatalf("QueryAll found %d, traversal filter found %d", len(got), len(want))
				}
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("result %d differs from the traversal filter", i)
					}
				}

				first := sel.QueryFirst(queryRoot)
				if len(want) == 0 && first != nil {
					t.Error("QueryFirst found a match the traversal filter did not")
				}
				if len(want) > 0 && first != want[0] {
					t.Error("QueryFirst disagrees with the first traversal match")
				}
			})
		}
	}
}

// walkElements visits every element strictly below root in pre-order.
func walkElements(root *dom.Node, visit func(*dom.Element)) {
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		if el := child.AsElement(); el != nil {
			visit(el)
		}
		walkElements(child, visit)
	}
}
