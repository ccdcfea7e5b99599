package syntax

type (
	// NodeID indexes Tree nodes (1-based, 0 means none).
	NodeID uint32
	// TokenID indexes Tree.Tokens (0-based).
	TokenID uint32
)

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Element is one child of a node: either a nested node or a token.
type Element struct {
	Node  NodeID
	Token TokenID
}

// NodeElem wraps a node child.
func NodeElem(id NodeID) Element { return Element{Node: id} }

// TokenElem wraps a token child.
func TokenElem(id TokenID) Element { return Element{Token: id} }

func (e Element) IsNode() bool { return e.Node != NoNodeID }

// Node is an immutable tree node. First and Last delimit the tokens it covers.
type Node struct {
	Kind     Kind
	Parent   NodeID
	Children []Element
	First    TokenID
	Last     TokenID
}
