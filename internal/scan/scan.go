// Package scan walks a syntax tree once and runs the enabled layout rules on
// every classified node.
package scan

import (
	"fmt"
	"slices"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/rules"
	"cslayout/internal/syntax"
	"cslayout/internal/trace"
)

// Options configure one scan.
type Options struct {
	Layout layout.Options
	Tracer trace.Tracer // nil means no tracing
}

// Scan runs every rule of set on every node of tree in one depth-first walk
// and returns the violations sorted by position, then rule ID. Bad subtrees
// are skipped. A panicking rule is recorded as an OBS6002 violation and the
// walk goes on.
func Scan(tree *syntax.Tree, set *rules.Set, opts Options) []diag.Violation {
	if tree == nil || set == nil || set.Len() == 0 {
		return nil
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	ctx := &rules.Context{Tree: tree, Options: opts.Layout, Enabled: set.Has}
	s := scanner{ctx: ctx, set: set, tracer: tracer}
	tree.Walk(tree.Root, s.visit)
	slices.SortStableFunc(s.out, func(a, b diag.Violation) int {
		switch {
		case diag.Less(&a, &b):
			return -1
		case diag.Less(&b, &a):
			return 1
		}
		return 0
	})
	return s.out
}

type scanner struct {
	ctx    *rules.Context
	set    *rules.Set
	tracer trace.Tracer
	out    []diag.Violation
	failed map[string]bool
}

func (s *scanner) visit(id syntax.NodeID) bool {
	if s.ctx.Tree.Kind(id) == syntax.Bad {
		return false
	}
	kind, ok := construct.Classify(s.ctx.Tree, id)
	if !ok {
		return true
	}
	n := rules.Node{ID: id, Kind: kind}
	for _, r := range s.set.Rules() {
		s.run(r, n)
	}
	return true
}

// run evaluates one rule on one node. A panic is reported once per rule;
// the rule still runs on the remaining nodes.
func (s *scanner) run(r rules.Rule, n rules.Node) {
	defer func() {
		if p := recover(); p != nil {
			msg := fmt.Sprintf("rule %s panicked on %s: %v", r.ID(), n.Kind, p)
			trace.RuleEvent(s.tracer, trace.ScopeError, r.ID(), msg)
			if s.failed[r.ID()] {
				return
			}
			if s.failed == nil {
				s.failed = make(map[string]bool)
			}
			s.failed[r.ID()] = true
			s.out = append(s.out, diag.New(diag.SevError, diag.ObsRulePanic, s.ctx.Tree.Span(n.ID), msg))
		}
	}()
	if !r.Applies(s.ctx, n) {
		return
	}
	vs := r.Evaluate(s.ctx, n)
	if len(vs) == 0 {
		return
	}
	sev := s.set.Severity(r.ID())
	for i := range vs {
		vs[i].Severity = sev
	}
	trace.RuleEvent(s.tracer, trace.ScopeRule, r.ID(), fmt.Sprintf("%d violation(s) at %s", len(vs), n.Kind))
	s.out = append(s.out, vs...)
}
