package rpal

// ValueKind tags the runtime stack values named in spec.md §3: integers,
// strings, booleans, nil, dummy, tuples, closures, the YSTAR combinator, and
// eta-closures. A builtin kind is added so primitives live on the stack the
// same way user closures do.
//
// The teacher's Scmer packs all of this into a 16-byte struct with raw
// pointer tricks (scm/scmer.go) to win allocation-free hot paths in a
// database engine. This interpreter has no such hot path — the CSE machine
// touches one node per step, not a billion rows — so Value uses plain,
// GC-friendly Go fields and a tag byte instead of unsafe packing.
type ValueKind int

const (
	VInt ValueKind = iota
	VString
	VBool
	VNil
	VDummy
	VTuple
	VClosure
	VYStar
	VEta
	VBuiltin
)

// Closure pairs a delta with the environment in effect when the LAMBDA token
// that produced it was stacked (CSEM Rule 2) — "definingEnv... populated at
// evaluation time" per spec.md §3.
type Closure struct {
	Delta *Delta
	Env   *Env
}

// Builtin is a primitive operator (spec.md §4.5): each Rule 4 application
// consumes one Stack value, and Fn runs once Arity arguments are collected.
type Builtin struct {
	Name  string
	Arity int
	Args  []Value // already-supplied arguments, for curried partial application
	Fn    func(args []Value) Value
}

// Value is the tagged runtime value flowing through the CSE machine's Stack.
type Value struct {
	Kind    ValueKind
	Int     int64
	Str     string
	Bool    bool
	Tuple   []Value
	Closure *Closure
	Builtin *Builtin
}

func NewInt(i int64) Value        { return Value{Kind: VInt, Int: i} }
func NewVString(s string) Value   { return Value{Kind: VString, Str: s} }
func NewVBool(b bool) Value       { return Value{Kind: VBool, Bool: b} }
func NewVNil() Value              { return Value{Kind: VNil} }
func NewDummy() Value             { return Value{Kind: VDummy} }
func NewTuple(vs []Value) Value   { return Value{Kind: VTuple, Tuple: vs} }
func NewYStar() Value             { return Value{Kind: VYStar} }
func NewClosureVal(c *Closure) Value {
	return Value{Kind: VClosure, Closure: c}
}
func NewEta(c *Closure) Value { return Value{Kind: VEta, Closure: c} }
func NewBuiltin(b *Builtin) Value {
	return Value{Kind: VBuiltin, Builtin: b}
}

// ComputeSize approximates the live memory behind a Value, including
// referenced environments for closures. It exists to satisfy the same
// "Sizable" accounting contract the teacher's Scmer.ComputeSize fulfills
// for storage (scm/scmer.go) — here it feeds the `-mem-stats` diagnostic
// instead of a page cache.
func (v Value) ComputeSize() uint {
	const overhead = uint(32)
	switch v.Kind {
	case VString:
		return overhead + uint(len(v.Str))
	case VTuple:
		size := overhead
		for _, el := range v.Tuple {
			size += el.ComputeSize()
		}
		return size
	case VClosure, VEta:
		if v.Closure == nil {
			return overhead
		}
		return overhead + v.Closure.Env.ComputeSize()
	default:
		return overhead
	}
}

