// Package construct maps syntax nodes to the construct kinds layout rules
// target. Classification is purely structural: node kind, parent relation
// and token text. It also locates anchor tokens, statement neighbours and
// guard-clause runs.
package construct
