package dom

import "testing"

func TestRelease_DestroysTree(t *testing.T) {
	before := LiveNodes()

	doc := NewDocument()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())
	for i := 0; i < 10; i++ {
		el := doc.CreateElement("div")
		appendOwned(t, root.AsNode(), el.AsNode())
		appendOwned(t, el.AsNode(), doc.CreateTextNode("x"))
	}

	if LiveNodes() == before {
		t.Fatal("building a tree should raise the live-node count")
	}

	doc.AsNode().Release()

	if got := LiveNodes(); got != before {
		t.Errorf("releasing the document should destroy every node, %d leaked", got-before)
	}
}

func TestRelease_AttachDetachCycleDoesNotLeak(t *testing.T) {
	before := LiveNodes()

	doc := NewDocument()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())

	for i := 0; i < 100; i++ {
		el := doc.CreateElement("div")
		root.AsNode().AppendChild(el.AsNode())
		// Move the node to keep it alive across the detach, then drop both
		// references.
		el.AsNode().Retain()
		root.AsNode().RemoveChild(el.AsNode())
		el.AsNode().Release() // creator reference
		el.AsNode().Release() // temporary reference
	}

	doc.AsNode().Release()

	if got := LiveNodes(); got != before {
		t.Errorf("attach/detach churn leaked %d nodes", got-before)
	}
}

func TestRemoveChild_ReleasedNodeDiesWithoutHolder(t *testing.T) {
	before := LiveNodes()

	doc := NewDocument()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())
	child := doc.CreateElement("div")
	appendOwned(t, root.AsNode(), child.AsNode())

	// No caller-held reference: removal releases the parent's reference and
	// the node is destroyed inside the call.
	root.AsNode().RemoveChild(child.AsNode())

	doc.AsNode().Release()
	if got := LiveNodes(); got != before {
		t.Errorf("leaked %d nodes", got-before)
	}
}

func TestRetain_SurvivesRemoval(t *testing.T) {
	doc := NewDocument()
	defer doc.AsNode().Release()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())

	child := doc.CreateElement("div")
	child.SetAttribute("data-kept", "yes")
	appendOwned(t, root.AsNode(), child.AsNode())

	child.AsNode().Retain()
	root.AsNode().RemoveChild(child.AsNode())

	// The retained handle still reads valid state.
	if child.GetAttribute("data-kept") != "yes" {
		t.Error("retained node must stay readable after removal")
	}
	if child.AsNode().ParentNode() != nil {
		t.Error("removed node must be detached")
	}
	child.AsNode().Release()
}

func TestReparent_KeepsNodeAlive(t *testing.T) {
	before := LiveNodes()

	doc := NewDocument()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())
	from := doc.CreateElement("div")
	appendOwned(t, root.AsNode(), from.AsNode())
	to := doc.CreateElement("div")
	appendOwned(t, root.AsNode(), to.AsNode())

	// The moved node's only reference is its parent's; the move must not
	// let the count touch zero in between.
	child := doc.CreateElement("span")
	appendOwned(t, from.AsNode(), child.AsNode())
	to.AsNode().AppendChild(child.AsNode())

	if child.AsNode().ParentNode() != to.AsNode() {
		t.Error("node should be under the new parent")
	}

	doc.AsNode().Release()
	if got := LiveNodes(); got != before {
		t.Errorf("leaked %d nodes", got-before)
	}
}

func TestRelease_WhileLinkedPanics(t *testing.T) {
	doc := NewDocument()
	defer doc.AsNode().Release()
	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())
	child := doc.CreateElement("div")
	appendOwned(t, root.AsNode(), child.AsNode())

	defer func() {
		if recover() == nil {
			t.Error("releasing a linked node to zero must panic")
		}
		// Repair the count so teardown does not trip the same check.
		child.AsNode().Retain()
	}()
	child.AsNode().Release()
}

func TestRelease_DoubleReleasePanics(t *testing.T) {
	el := NewDocument().CreateElement("div")
	// Tear down the parent document reference path first.
	el.AsNode().OwnerDocument().AsNode().Release()

	el.AsNode().Release()
	defer func() {
		if recover() == nil {
			t.Error("releasing a destroyed node must panic")
		}
	}()
	el.AsNode().Release()
}

func TestRefCount_Accounting(t *testing.T) {
	doc := NewDocument()
	defer doc.AsNode().Release()

	el := doc.CreateElement("div")
	if el.AsNode().RefCount() != 1 {
		t.Fatalf("creation should yield one reference, got %d", el.AsNode().RefCount())
	}

	root := doc.CreateElement("html")
	appendOwned(t, doc.AsNode(), root.AsNode())
	root.AsNode().AppendChild(el.AsNode())
	if el.AsNode().RefCount() != 2 {
		t.Errorf("linking should add the parent's reference, got %d", el.AsNode().RefCount())
	}

	el.AsNode().Release()
	if el.AsNode().RefCount() != 1 {
		t.Errorf("dropping the creator reference should leave the parent's, got %d", el.AsNode().RefCount())
	}
}
