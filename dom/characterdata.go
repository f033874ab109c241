package dom

// Text is a Node of kind text.
type Text Node

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node { return (*Node)(t) }

// Data returns the text content.
func (t *Text) Data() string { return (*Node)(t).NodeValue() }

// SetData replaces the text content.
func (t *Text) SetData(data string) { (*Node)(t).setCharacterData(data) }

// Comment is a Node of kind comment.
type Comment Node

// AsNode returns the underlying Node.
func (c *Comment) AsNode() *Node { return (*Node)(c) }

// Data returns the comment text.
func (c *Comment) Data() string { return (*Node)(c).NodeValue() }

// SetData replaces the comment text.
func (c *Comment) SetData(data string) { (*Node)(c).setCharacterData(data) }
