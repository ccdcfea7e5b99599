package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// CheckLossless verifies that trivia and tokens tile the file content:
// 1) every span starts where the previous one ended and points into file
// 2) the text of each piece equals the bytes under its span
// 3) the last token is EOF and ends at the end of the content
func CheckLossless(file *source.File, toks []token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var cursor uint32
	piece := func(what string, sp source.Span, text string) error {
		if sp.File != file.ID {
			return fmt.Errorf("%s span points to file %d, want %d", what, sp.File, file.ID)
		}
		if sp.Start != cursor {
			return fmt.Errorf("%s starts at %d, previous piece ended at %d", what, sp.Start, cursor)
		}
		if sp.End < sp.Start || sp.End > size {
			return fmt.Errorf("%s span %d..%d out of bounds (%d bytes)", what, sp.Start, sp.End, size)
		}
		if got := string(file.Content[sp.Start:sp.End]); got != text {
			return fmt.Errorf("%s text %q differs from source %q", what, text, got)
		}
		cursor = sp.End
		return nil
	}

	for i := range toks {
		tok := &toks[i]
		for _, tr := range tok.Leading {
			if err := piece(fmt.Sprintf("token %d leading trivia", i), tr.Span, tr.Text); err != nil {
				return err
			}
		}
		if err := piece(fmt.Sprintf("token %d (%s)", i, tok.Kind), tok.Span, tok.Text); err != nil {
			return err
		}
		for _, tr := range tok.Trailing {
			if err := piece(fmt.Sprintf("token %d trailing trivia", i), tr.Span, tr.Text); err != nil {
				return err
			}
		}
	}
	if cursor != size {
		return fmt.Errorf("tokens cover %d of %d bytes", cursor, size)
	}
	return nil
}

// CheckTreeInvariants runs structural checks on a parsed tree: the root
// spans the whole token stream, parent links match the children lists and
// children are ordered inside their parent.
func CheckTreeInvariants(tree *syntax.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	if err := CheckLossless(tree.File, tree.Tokens); err != nil {
		return err
	}
	root := tree.Node(tree.Root)
	if root == nil {
		return fmt.Errorf("root node %d not found", tree.Root)
	}
	last, err := safecast.Conv[syntax.TokenID](len(tree.Tokens) - 1)
	if err != nil {
		return err
	}
	if root.First != 0 || root.Last != last {
		return fmt.Errorf("root covers tokens %d..%d, want 0..%d", root.First, root.Last, last)
	}
	if tree.Parent(tree.Root) != syntax.NoNodeID {
		return fmt.Errorf("root has a parent")
	}

	var walkErr error
	tree.Walk(tree.Root, func(id syntax.NodeID) bool {
		if walkErr != nil {
			return false
		}
		walkErr = checkNode(tree, id)
		return walkErr == nil
	})
	return walkErr
}

func checkNode(tree *syntax.Tree, id syntax.NodeID) error {
	n := tree.Node(id)
	if n.First > n.Last {
		return fmt.Errorf("node %d (%s) has first token %d after last %d", id, n.Kind, n.First, n.Last)
	}
	if len(n.Children) == 0 {
		return nil
	}
	var prevHi syntax.TokenID
	for i, e := range n.Children {
		lo, hi := e.Token, e.Token
		if e.IsNode() {
			child := tree.Node(e.Node)
			if child == nil {
				return fmt.Errorf("node %d (%s): child %d missing", id, n.Kind, e.Node)
			}
			if child.Parent != id {
				return fmt.Errorf("node %d (%s): child %d has parent %d", id, n.Kind, e.Node, child.Parent)
			}
			lo, hi = child.First, child.Last
		}
		if lo < n.First || hi > n.Last {
			return fmt.Errorf("node %d (%s): child %d covers %d..%d outside %d..%d", id, n.Kind, i, lo, hi, n.First, n.Last)
		}
		// пустые узлы стоят на следующем токене, поэтому равенство допустимо
		if i > 0 && lo < prevHi {
			return fmt.Errorf("node %d (%s): child %d starts at token %d before %d", id, n.Kind, i, lo, prevHi)
		}
		prevHi = hi
	}
	return nil
}

// CheckSameTokens compares kinds and texts of two token streams, the
// guarantee every fix has to keep.
func CheckSameTokens(before, after []token.Token) error {
	n := min(len(before), len(after))
	for i := range n {
		if before[i].Kind != after[i].Kind || before[i].Text != after[i].Text {
			return fmt.Errorf("token %d changed: %s %q -> %s %q", i, before[i].Kind, before[i].Text, after[i].Kind, after[i].Text)
		}
	}
	if len(before) != len(after) {
		return fmt.Errorf("token count changed: %d -> %d", len(before), len(after))
	}
	return nil
}
