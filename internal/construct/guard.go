package construct

import (
	"strings"

	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// GuardFamily groups the throw helpers a guard clause may call.
type GuardFamily uint8

const (
	GuardNone GuardFamily = iota
	GuardNull
	GuardEmpty
	GuardRange
	GuardDisposed
)

func (f GuardFamily) String() string {
	switch f {
	case GuardNull:
		return "null"
	case GuardEmpty:
		return "empty"
	case GuardRange:
		return "range"
	case GuardDisposed:
		return "disposed"
	}
	return "none"
}

// guardFamily — по имени исключения и метода.
func guardFamily(typeName, method string) GuardFamily {
	if !strings.HasPrefix(method, "ThrowIf") {
		return GuardNone
	}
	switch typeName {
	case "ArgumentNullException":
		return GuardNull
	case "ArgumentException":
		if method == "ThrowIfNullOrEmpty" || method == "ThrowIfNullOrWhiteSpace" {
			return GuardEmpty
		}
	case "ArgumentOutOfRangeException":
		return GuardRange
	case "ObjectDisposedException":
		return GuardDisposed
	}
	return GuardNone
}

// GuardFamilyOf classifies an expression statement calling T.ThrowIf*(...),
// where T may be qualified (System.ArgumentNullException).
func GuardFamilyOf(t *syntax.Tree, id syntax.NodeID) GuardFamily {
	if t.Kind(id) != syntax.ExpressionStmt {
		return GuardNone
	}
	call := t.ChildOfKind(id, syntax.Invocation)
	if !call.IsValid() {
		return GuardNone
	}
	callee := t.Children(call)
	if len(callee) == 0 || t.Kind(callee[0]) != syntax.MemberAccess {
		return GuardNone
	}
	access := t.Children(callee[0])
	if len(access) != 2 {
		return GuardNone
	}
	if _, ok := t.ChildToken(callee[0], token.Dot); !ok {
		return GuardNone
	}
	method := lastIdent(t, access[1])
	typeName := lastIdent(t, access[0])
	return guardFamily(typeName, method)
}

// lastIdent — последний сегмент имени: System.ArgumentNullException → ArgumentNullException.
func lastIdent(t *syntax.Tree, id syntax.NodeID) string {
	switch t.Kind(id) {
	case syntax.Name, syntax.GenericName:
		return t.Token(t.Node(id).First).Text
	case syntax.MemberAccess, syntax.QualifiedName, syntax.AliasQualifiedName:
		ch := t.Children(id)
		if len(ch) == 0 {
			return ""
		}
		return lastIdent(t, ch[len(ch)-1])
	}
	return ""
}

func isGuardClause(t *syntax.Tree, id syntax.NodeID) bool {
	return GuardFamilyOf(t, id) != GuardNone
}

// GuardRun returns the maximal run of adjacent guard clauses containing id.
// Families may interleave freely.
func GuardRun(t *syntax.Tree, id syntax.NodeID) []syntax.NodeID {
	if !isGuardClause(t, id) {
		return nil
	}
	first := id
	for {
		prev, _ := Neighbours(t, first)
		if !prev.IsValid() || !isGuardClause(t, prev) {
			break
		}
		first = prev
	}
	run := []syntax.NodeID{first}
	for cur := first; ; {
		_, next := Neighbours(t, cur)
		if !next.IsValid() || !isGuardClause(t, next) {
			return run
		}
		run = append(run, next)
		cur = next
	}
}

// IsRunEnd reports whether id is the last member of its guard run.
func IsRunEnd(t *syntax.Tree, id syntax.NodeID) bool {
	if !isGuardClause(t, id) {
		return false
	}
	_, next := Neighbours(t, id)
	return !next.IsValid() || !isGuardClause(t, next)
}
