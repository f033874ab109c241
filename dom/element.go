package dom

import "strings"

// Element is a Node of kind element: a tag name, an attribute map with
// unique names, the id value and the class set, plus the class bloom
// summary the query engine uses for pruning.
type Element Node

// Attr is one attribute: a unique lowercased name and its value.
type Attr struct {
	Name  string
	Value string
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// AsElement returns the node viewed as an Element, or nil if the node is
// not of element kind.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

func (e *Element) asNode() *Node {
	return (*Node)(e)
}

func (e *Element) data() *elementData {
	return e.asNode().elementData
}

// TagName returns the uppercased tag name.
func (e *Element) TagName() string {
	return strings.ToUpper(e.data().localName)
}

// LocalName returns the lowercased tag name.
func (e *Element) LocalName() string {
	return e.data().localName
}

// ID returns the value of the id attribute, or "".
func (e *Element) ID() string {
	return e.data().id
}

// SetID sets the id attribute.
func (e *Element) SetID(id string) {
	e.SetAttribute("id", id)
}

// ClassName returns the value of the class attribute.
func (e *Element) ClassName() string {
	return e.GetAttribute("class")
}

// SetClassName sets the class attribute.
func (e *Element) SetClassName(className string) {
	e.SetAttribute("class", className)
}

// ClassList returns a copy of the element's class names in attribute
// order.
func (e *Element) ClassList() []string {
	return append([]string(nil), e.data().classes...)
}

// HasClass reports whether the element carries the given class. The bloom
// summary rejects most non-members in O(1) before the exact scan.
func (e *Element) HasClass(class string) bool {
	ed := e.data()
	if !ed.bloom.mayContain(class) {
		return false
	}
	for _, c := range ed.classes {
		if c == class {
			return true
		}
	}
	return false
}

// GetAttribute returns the attribute value, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	name = strings.ToLower(name)
	for _, a := range e.data().attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// HasAttribute reports whether the attribute is present.
func (e *Element) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, a := range e.data().attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Attributes returns a copy of the attribute list.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.data().attrs...)
}

// SetAttribute sets an attribute, replacing any previous value. Setting
// id on a connected element re-registers it in the document's id index;
// setting class recomputes the class set and its bloom summary. Either
// way the document's mutation counter advances and an attribute mutation
// record is delivered.
func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	ed := e.data()

	var oldValue string
	found := false
	for i := range ed.attrs {
		if ed.attrs[i].Name == name {
			oldValue = ed.attrs[i].Value
			ed.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		ed.attrs = append(ed.attrs, Attr{Name: name, Value: value})
	}

	e.attributeChanged(name, oldValue, value)
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	ed := e.data()
	for i := range ed.attrs {
		if ed.attrs[i].Name == name {
			oldValue := ed.attrs[i].Value
			ed.attrs = append(ed.attrs[:i], ed.attrs[i+1:]...)
			e.attributeChanged(name, oldValue, "")
			return
		}
	}
}

// attributeChanged maintains the derived element state and the document
// indices after an attribute write.
func (e *Element) attributeChanged(name, oldValue, newValue string) {
	ed := e.data()
	switch name {
	case "id":
		ed.id = newValue
		if doc := e.asNode().connectedDocument(); doc != nil {
			doc.index().updateID(e, oldValue, newValue)
		}
	case "class":
		ed.classes = strings.Fields(newValue)
		ed.bloom = makeClassBloom(ed.classes)
	}
	e.asNode().bumpVersion()
	notifyAttributeMutation(e.asNode(), name, oldValue)
}

// FirstElementChild returns the first child that is an element, or nil.
func (e *Element) FirstElementChild() *Element {
	return firstElementFrom(e.asNode().firstChild)
}

// LastElementChild returns the last child that is an element, or nil.
func (e *Element) LastElementChild() *Element {
	for child := e.asNode().lastChild; child != nil; child = child.prevSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// PreviousElementSibling returns the closest preceding sibling that is an
// element, or nil.
func (e *Element) PreviousElementSibling() *Element {
	for sib := e.asNode().prevSibling; sib != nil; sib = sib.prevSibling {
		if sib.nodeType == ElementNode {
			return (*Element)(sib)
		}
	}
	return nil
}

// NextElementSibling returns the closest following sibling that is an
// element, or nil.
func (e *Element) NextElementSibling() *Element {
	return firstElementFrom(e.asNode().nextSibling)
}

func firstElementFrom(n *Node) *Element {
	for ; n != nil; n = n.nextSibling {
		if n.nodeType == ElementNode {
			return (*Element)(n)
		}
	}
	return nil
}

// ChildElementCount returns the number of element children.
func (e *Element) ChildElementCount() int {
	count := 0
	for child := e.asNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			count++
		}
	}
	return count
}

// Children returns a live collection of the element's child elements.
func (e *Element) Children() *HTMLCollection {
	self := e.asNode()
	return newFilterCollection(self, func(el *Element) bool {
		return el.asNode().parentNode == self
	})
}

// GetElementsByTagName returns a live, traversal-backed collection of the
// descendants with the given tag name, in document order.
func (e *Element) GetElementsByTagName(tagName string) *HTMLCollection {
	tag := strings.ToLower(tagName)
	return newFilterCollection(e.asNode(), func(el *Element) bool {
		return tag == "*" || el.LocalName() == tag
	})
}

// GetElementsByClassName returns a live collection of the descendants
// carrying all the given space-separated class names.
func (e *Element) GetElementsByClassName(classNames string) *HTMLCollection {
	classes := strings.Fields(classNames)
	return newFilterCollection(e.asNode(), func(el *Element) bool {
		for _, class := range classes {
			if !el.HasClass(class) {
				return false
			}
		}
		return len(classes) > 0
	})
}
