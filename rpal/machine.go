package rpal

// Machine is the CSE (Control-Stack-Environment) machine: the three
// components spec.md §4.4 names, advanced one rule application at a time by
// Step until Control empties and Stack holds exactly the program's result.
type Machine struct {
	Control []ctrlItem
	Stack   []Value
	Env     *Env

	Steps uint64
	trace *Tracer // optional; nil unless -trace is requested (§4.6)
}

// ctrlItem is one of *ASTNode (a leaf/operator/runtime-marker node from a
// Delta's Body), envMarker (restores the calling environment — Rule 5), or
// pushVal (a pre-computed Value spliced directly onto the Stack, used by the
// eta-closure unrolling in applyGamma's R13 case).
type ctrlItem interface{}

type envMarker struct{ prevEnv *Env }
type pushVal struct{ v Value }

// NewMachine seeds the machine with delta 0's body and the primitive
// environment — the starting configuration spec.md §4.4 describes.
func NewMachine(deltas []*Delta) *Machine {
	return &Machine{
		Control: deltaControl(deltas[0]),
		Env:     NewPrimitiveEnv(),
	}
}

// NewMachineTraced is NewMachine plus an optional step tracer (§4.6); pass
// nil to get an untraced machine identical to NewMachine's.
func NewMachineTraced(deltas []*Delta, tracer *Tracer) *Machine {
	m := NewMachine(deltas)
	m.trace = tracer
	return m
}

// deltaControl converts a Delta's Body into control-stack items.
func deltaControl(d *Delta) []ctrlItem {
	items := make([]ctrlItem, len(d.Body))
	for i, n := range d.Body {
		items[i] = n
	}
	return items
}

// RunSafe is Run wrapped in Try, for callers (tests, embedders) that want an
// error return instead of a process-ending panic.
func RunSafe(deltas []*Delta) (result Value, err error) {
	err = Try(func() { result = Run(deltas) })
	return
}

// Run drives the machine to completion and returns the single resulting
// value (spec.md §8: "a well-formed program's machine always terminates with
// exactly one value on the Stack").
func Run(deltas []*Delta) Value {
	m := NewMachine(deltas)
	return m.Run()
}

func (m *Machine) Run() Value {
	for len(m.Control) > 0 {
		m.Step()
	}
	if len(m.Stack) != 1 {
		fail(MalformedTree, "machine halted with %d values on the stack, expected 1", len(m.Stack))
	}
	return m.Stack[0]
}

// Step applies exactly one CSEM rule: it pops the front of Control and
// dispatches on its runtime type/ASTNodeType.
func (m *Machine) Step() {
	item := m.pop()
	m.Steps++
	if m.trace != nil {
		m.trace.before(m, item)
	}

	switch v := item.(type) {
	case envMarker:
		m.Env = v.prevEnv // Rule 5
	case pushVal:
		m.push(v.v)
	case *ASTNode:
		m.stepNode(v)
	default:
		fail(MalformedTree, "unrecognized control item %T", item)
	}

	if m.trace != nil {
		m.trace.after(m)
	}
}

func (m *Machine) pop() ctrlItem {
	item := m.Control[0]
	m.Control = m.Control[1:]
	return item
}

func (m *Machine) prepend(items ...ctrlItem) {
	m.Control = append(items, m.Control...)
}

func (m *Machine) push(v Value) { m.Stack = append(m.Stack, v) }

func (m *Machine) popValue() Value {
	if len(m.Stack) == 0 {
		fail(MalformedTree, "stack underflow")
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v
}

func (m *Machine) stepNode(n *ASTNode) {
	switch n.Type {
	case IDENTIFIER:
		m.push(m.Env.Lookup(n.Value)) // Rule 1

	case DELTA:
		// Rule 2: a LAMBDA token captures the current environment.
		m.push(NewClosureVal(&Closure{Delta: n.deltaRef, Env: m.Env}))

	case INTEGER:
		iv := parseRpalInt(n.Value)
		m.push(iv)
	case STRING:
		m.push(NewVString(n.Value))
	case TRUE:
		m.push(NewVBool(true))
	case FALSE:
		m.push(NewVBool(false))
	case NIL:
		m.push(NewVNil())
	case DUMMY:
		m.push(NewDummy())
	case YSTAR:
		m.push(NewYStar())

	case GAMMA:
		rand := m.popValue()
		rator := m.popValue()
		m.applyGamma(rator, rand)

	case BETA:
		cond := m.popValue()
		if cond.Kind != VBool {
			fail(TypeError, "conditional guard must be a boolean")
		}
		var chosen *Delta
		if cond.Bool {
			chosen = n.thenRef
		} else {
			chosen = n.elseRef
		}
		m.prepend(deltaControl(chosen)...) // Rule 8

	case TAU:
		count := int(parseArity(n.Value))
		elems := make([]Value, count)
		for i := count - 1; i >= 0; i-- {
			elems[i] = m.popValue()
		}
		m.push(NewTuple(elems)) // Rule 9

	case NOT:
		a := m.popValue()
		requireBool(a, "not")
		m.push(NewVBool(!a.Bool)) // Rule 7
	case NEG:
		a := m.popValue()
		requireInt(a, "neg")
		m.push(NewInt(-a.Int)) // Rule 7

	case OR, AND, GR, GE, LS, LE, EQ, NE, PLUS, MINUS, MULT, DIV, EXP:
		b := m.popValue()
		a := m.popValue()
		m.push(binaryOp(n.Type, a, b)) // Rule 6

	default:
		fail(MalformedTree, "unexpected control node %s", n.Type)
	}
}

// applyGamma dispatches Rules 3/4/10/12/13 by the rator's kind; tuple
// formation (Rule 9) is handled directly in stepNode since it never reaches
// a GAMMA control item.
func (m *Machine) applyGamma(rator, rand Value) {
	switch rator.Kind {
	case VClosure:
		m.applyClosure(rator.Closure, rand) // Rules 3 & 11

	case VBuiltin:
		result := curryBuiltin(rator.Builtin, rand) // Rule 4
		m.push(result)

	case VTuple:
		// Rule 10: tuple selection, "T n" where n is a 1-based index.
		requireInt(rand, "tuple selection")
		idx := int(rand.Int)
		if idx < 1 || idx > len(rator.Tuple) {
			fail(TupleIndexOutOfRange, "index %d out of range for tuple of size %d", idx, len(rator.Tuple))
		}
		m.push(rator.Tuple[idx-1])

	case VYStar:
		// Rule 12: Y* applied to a closure yields an eta-closure.
		if rand.Kind != VClosure {
			fail(TypeError, "Y* must be applied to a function")
		}
		m.push(NewEta(rand.Closure))

	case VEta:
		// Rule 13: unroll one level — gamma(eta(c), x) = gamma(gamma(c, eta(c)), x).
		c := rator.Closure
		etaVal := NewEta(c)
		gammaOp := &ASTNode{Type: GAMMA}
		m.prepend(
			pushVal{c.asValue()},
			pushVal{etaVal},
			gammaOp,
			pushVal{rand},
			gammaOp,
		)

	default:
		fail(TypeError, "cannot apply a value of kind %d", rator.Kind)
	}
}

// applyClosure performs Rules 3 (single name) and 11 (tuple destructuring):
// create a fresh environment binding the closure's parameter(s) to rand,
// splice its delta body onto Control, and schedule an environment restore
// once that body finishes (Rule 5).
func (m *Machine) applyClosure(c *Closure, rand Value) {
	newEnv := NewEnv(c.Env)
	bindParams(newEnv, c.Delta.BoundVars, rand)
	prevEnv := m.Env
	m.Env = newEnv
	body := deltaControl(c.Delta)
	items := make([]ctrlItem, 0, len(body)+1)
	items = append(items, body...)
	items = append(items, envMarker{prevEnv})
	m.prepend(items...)
}

func bindParams(env *Env, names []string, rand Value) {
	if len(names) == 1 {
		env.Define(names[0], rand)
		return
	}
	if rand.Kind != VTuple {
		fail(ArityMismatch, "expected a %d-tuple argument, got a single value", len(names))
	}
	if len(rand.Tuple) != len(names) {
		fail(ArityMismatch, "expected %d values, got %d", len(names), len(rand.Tuple))
	}
	for i, name := range names {
		env.Define(name, rand.Tuple[i])
	}
}

// asValue wraps a Closure back into a Value so it can travel through
// pushVal/Stack uniformly.
func (c *Closure) asValue() Value { return NewClosureVal(c) }
