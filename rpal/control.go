package rpal

import "fmt"

// Delta is a numbered control list (spec.md §3/§4.2): the flattened body of
// one LAMBDA or of the program's top level, plus bookkeeping the CSE machine
// needs when it is later turned into a closure.
type Delta struct {
	Index     int
	Body      []*ASTNode
	BoundVars []string // nil for delta 0 and conditional branches; a LAMBDA delta's parameter name(s), several for a COMMA pattern
	// The defining environment is not stored here: the machine records it in
	// the Closure it builds at Rule 2 — a delta is a static artifact shared by
	// every closure built from it, while the environment differs per call.
}

// controlBuilder turns a standardized AST into a flat slice of Deltas via
// the pending-worklist algorithm spec.md §4.2 describes: delta 0 holds the
// top-level expression; every LAMBDA encountered allocates a fresh delta for
// its body and is replaced, at the level it was found, by a <LAMBDA δk>
// token — the body itself is NOT walked until its own delta is processed.
type controlBuilder struct {
	deltas []*Delta
}

// BuildControl is the entry point: standardize the parsed tree, then flatten
// it into control structures.
func BuildControl(root *ASTNode) []*Delta {
	return BuildControlFromStandardized(Standardize(root))
}

// BuildControlSafe is BuildControl wrapped in Try.
func BuildControlSafe(root *ASTNode) (deltas []*Delta, err error) {
	err = Try(func() { deltas = BuildControl(root) })
	return
}

// BuildControlFromStandardized flattens an already-standardized tree,
// skipping the redundant re-standardization pass BuildControl would do —
// useful to callers (like the CLI's -st dump) that already hold the
// standardized tree and want to build control structures from that exact
// value. Standardize is idempotent, so calling either entry point on the
// same source yields identical deltas.
func BuildControlFromStandardized(std *ASTNode) []*Delta {
	b := &controlBuilder{}
	b.newDelta(nil, std)
	for i := 0; i < len(b.deltas); i++ {
		b.fill(b.deltas[i])
	}
	return b.deltas
}

// newDelta reserves the next index and records it as pending (its Body is
// filled in later by fill, once all earlier pending deltas have been
// flattened — this is what keeps delta numbering a simple counter instead of
// needing a two-pass renumbering step).
func (b *controlBuilder) newDelta(boundVars []string, body *ASTNode) *Delta {
	d := &Delta{Index: len(b.deltas), BoundVars: boundVars, Body: []*ASTNode{body}}
	b.deltas = append(b.deltas, d)
	return d
}

// fill flattens d.Body's single placeholder root into its final linear
// control sequence, recursing into every node except LAMBDA (which instead
// allocates a new pending delta and leaves a <LAMBDA δk> marker node behind).
func (b *controlBuilder) fill(d *Delta) {
	root := d.Body[0]
	d.Body = nil
	b.flatten(d, root)
}

func (b *controlBuilder) flatten(d *Delta, n *ASTNode) {
	if n == nil {
		return
	}
	switch n.Type {
	case LAMBDA:
		param := n.Child
		body := n.Child.Sibling
		inner := b.newDelta(boundVarsOf(param), body)
		marker := NewNode(DELTA, "")
		marker.deltaRef = inner
		d.Body = append(d.Body, marker)

	case CONDITIONAL:
		kids := n.Children()
		cond, then, els := kids[0], kids[1], kids[2]
		thenDelta := b.newDelta(nil, then)
		elsDelta := b.newDelta(nil, els)
		b.flatten(d, cond)
		betaNode := NewNode(BETA, "")
		betaNode.thenRef = thenDelta
		betaNode.elseRef = elsDelta
		d.Body = append(d.Body, betaNode)

	case TAU:
		kids := n.Children()
		for _, c := range kids {
			b.flatten(d, c)
		}
		tauNode := NewNode(TAU, fmt.Sprint(len(kids)))
		d.Body = append(d.Body, tauNode)

	default:
		for _, c := range n.Children() {
			b.flatten(d, c)
		}
		d.Body = append(d.Body, leafOf(n))
	}
}

// leafOf strips a node down to just what the control list needs to carry:
// its own type/value, with children discarded (they were already flattened
// and appended before it, per the worklist's post-order emission order).
func leafOf(n *ASTNode) *ASTNode {
	return &ASTNode{Type: n.Type, Value: n.Value}
}

// boundVarsOf reads a LAMBDA's parameter node into the name list Rule 11
// needs: a bare IDENTIFIER is a single-name binding, a COMMA node is a
// tuple pattern bound positionally against the argument tuple.
func boundVarsOf(param *ASTNode) []string {
	if param.Type == COMMA {
		var names []string
		for _, c := range param.Children() {
			names = append(names, c.Value)
		}
		return names
	}
	return []string{param.Value}
}
