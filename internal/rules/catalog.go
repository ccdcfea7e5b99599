package rules

import (
	"slices"
	"strings"
	"sync"

	"cslayout/internal/construct"
)

func blank(id, name string, prio int, target construct.Kind, rel Relation, summary string) *blankLineRule {
	return &blankLineRule{
		meta:     meta{id: id, name: name, family: BlankLine, priority: prio, summary: summary},
		target:   target,
		relation: rel,
	}
}

func align(id, name string, prio int, summary string) meta {
	return meta{id: id, name: name, family: Alignment, priority: prio, summary: summary}
}

// Приоритет решает, чья правка выживет при конфликте в одном проходе.
func buildCatalog() []Rule {
	usings := blank("LY1001", "using-group-separation", 100, construct.UsingDirective, PrecededBy,
		"using directive groups are separated by a blank line")
	usings.exemptBefore = sameUsingGroup
	locals := blank("LY1002", "local-declaration-separation", 95, construct.LocalDeclaration, PrecededBy,
		"a local declaration is preceded by a blank line unless it follows another declaration")
	locals.exemptBefore = afterLocalDeclaration
	guards := blank("LY1010", "guard-clause-separation", 115, construct.GuardClause, FollowedBy,
		"a run of guard clauses is followed by a blank line")
	guards.exemptAfter = insideGuardRun
	guards.annotate = guardRunNote

	catalog := []Rule{
		usings,
		locals,
		blank("LY1003", "try-separation", 110, construct.TryStatement, SurroundedBy,
			"a try statement is surrounded by blank lines"),
		blank("LY1004", "foreach-separation", 105, construct.ForeachStatement, SurroundedBy,
			"a foreach loop is surrounded by blank lines"),
		blank("LY1005", "for-separation", 105, construct.ForStatement, SurroundedBy,
			"a for loop is surrounded by blank lines"),
		blank("LY1006", "while-separation", 105, construct.WhileStatement, SurroundedBy,
			"a while loop is surrounded by blank lines"),
		blank("LY1007", "do-separation", 105, construct.DoStatement, SurroundedBy,
			"a do-while loop is surrounded by blank lines"),
		blank("LY1008", "break-separation", 90, construct.BreakStatement, PrecededBy,
			"a break statement is preceded by a blank line"),
		blank("LY1009", "throw-separation", 90, construct.ThrowStatement, PrecededBy,
			"a throw statement is preceded by a blank line"),
		guards,
		&blockEdgeRule{meta: meta{id: "LY1011", name: "block-edge-blank-lines", family: BlankLine, priority: 120,
			summary: "no blank line right after '{' or right before '}'"}},

		&listRule{meta: align("LY2001", "parameter-alignment", 50,
			"continuation parameters sit one indent right of the owner"), target: construct.ParameterList, entry: "parameter"},
		&listRule{meta: align("LY2002", "argument-alignment", 50,
			"continuation arguments sit one indent right of the owner"), target: construct.ArgumentList, entry: "argument"},
		&braceRule{meta: align("LY2003", "case-block-braces", 45,
			"case block braces on their own lines align with the case label"), target: construct.CaseBlock, locate: caseBlockBraces},
		&braceRule{meta: align("LY2004", "lambda-block-braces", 45,
			"lambda braces on their own lines align with '=>'"), target: construct.LambdaBody, locate: lambdaBraces},
		&operatorRule{meta: align("LY2005", "binary-operator-placement", 55,
			"a binary operator starts the line of its right operand")},
		&dotRule{meta: align("LY2006", "member-access-placement", 55,
			"a member access dot shares the line of the member name")},
		&sameLineRule{meta: align("LY2007", "cast-operand-placement", 40,
			"a cast operand follows ')' on the same line"),
			target: construct.Cast, locate: castOperand, what: "cast operand", sep: ""},
		&sameLineRule{meta: align("LY2008", "return-value-placement", 40,
			"a returned value follows 'return' on the same line"),
			target: construct.Return, locate: returnValue, what: "returned value", sep: " "},
		&sameLineRule{meta: align("LY2009", "assignment-value-placement", 40,
			"an assigned value follows the assignment operator on the same line"),
			target: construct.Assignment, locate: assignedValue, what: "assigned value", sep: " "},
		&sameLineRule{meta: align("LY2010", "new-type-placement", 40,
			"the created type follows 'new' on the same line"),
			target: construct.NewExpression, locate: newType, what: "type", sep: " "},
		&initializerRule{meta: align("LY2011", "initializer-alignment", 50,
			"initializer elements sit one indent right of the open bracket")},
		&braceRule{meta: align("LY2012", "switch-expression-braces", 45,
			"switch expression braces on their own lines align with 'switch'"), target: construct.SwitchExpression, locate: switchExprBraces},
	}
	slices.SortFunc(catalog, func(a, b Rule) int { return strings.Compare(a.ID(), b.ID()) })
	return catalog
}

var catalog = sync.OnceValue(buildCatalog)

// Catalog returns every rule ordered by ID. The slice is shared; callers
// must not modify it.
func Catalog() []Rule {
	return catalog()
}

// Lookup finds a rule by ID ("LY1003") or name ("try-separation").
func Lookup(key string) (Rule, bool) {
	for _, r := range catalog() {
		if r.ID() == key || r.Name() == key {
			return r, true
		}
	}
	return nil, false
}
