package dom

// MutationCallback receives a record after each successful mutation. The
// tree delivers records synchronously, in mutation order, before the
// mutating call returns; queueing and replay are the observer's business.
type MutationCallback interface {
	// OnChildListMutation is called when children are added or removed.
	// added and removed are in the order the nodes were inserted or
	// removed; previousSibling and nextSibling bracket the mutation site.
	OnChildListMutation(target *Node, added, removed []*Node, previousSibling, nextSibling *Node)

	// OnAttributeMutation is called after an attribute write.
	OnAttributeMutation(target *Node, attributeName, oldValue string)

	// OnCharacterDataMutation is called after text or comment data changes.
	OnCharacterDataMutation(target *Node, oldValue string)
}

// RegisterMutationCallback registers a callback for a document's
// mutations. The registration lives on the document and dies with it.
func RegisterMutationCallback(doc *Document, callback MutationCallback) {
	if doc == nil || callback == nil {
		return
	}
	data := doc.asNode().docData
	data.callbacks = append(data.callbacks, callback)
}

// UnregisterMutationCallback removes a previously registered callback.
func UnregisterMutationCallback(doc *Document, callback MutationCallback) {
	if doc == nil {
		return
	}
	data := doc.asNode().docData
	for i, cb := range data.callbacks {
		if cb == callback {
			data.callbacks = append(data.callbacks[:i], data.callbacks[i+1:]...)
			return
		}
	}
}

// ownerCallbacks returns the callbacks registered on the node's owning
// document, or nil for nodes without one.
func (n *Node) ownerCallbacks() []MutationCallback {
	if n.ownerDoc == nil {
		return nil
	}
	return n.ownerDoc.asNode().docData.callbacks
}

func notifyChildListMutation(target *Node, added, removed []*Node, previousSibling, nextSibling *Node) {
	for _, cb := range target.ownerCallbacks() {
		cb.OnChildListMutation(target, added, removed, previousSibling, nextSibling)
	}
}

func notifyAttributeMutation(target *Node, attributeName, oldValue string) {
	for _, cb := range target.ownerCallbacks() {
		cb.OnAttributeMutation(target, attributeName, oldValue)
	}
}

func notifyCharacterDataMutation(target *Node, oldValue string) {
	for _, cb := range target.ownerCallbacks() {
		cb.OnCharacterDataMutation(target, oldValue)
	}
}
