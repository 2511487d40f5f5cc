package rpal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/btree"
	"golang.org/x/text/unicode/norm"
)

// builtinEntry backs the ordered registry below. The teacher registers
// primitives one at a time via Declare() into a plain map (scm/declare.go);
// here the registry is a google/btree.BTreeG ordered by name so the primitive
// environment's deterministic bring-up enumerates builtins in a stable order
// instead of Go's randomized map order.
type builtinEntry struct {
	name string
	fn   func(args []Value) Value
	arity int
}

func (e builtinEntry) Less(other builtinEntry) bool { return e.name < other.name }

var builtinRegistry = btree.NewG(32, builtinEntry.Less)

func registerBuiltin(name string, arity int, fn func(args []Value) Value) {
	builtinRegistry.ReplaceOrInsert(builtinEntry{name: name, fn: fn, arity: arity})
}

// curryBuiltin applies one more argument to a (possibly partial) builtin,
// grounding Conc's classical curried two-argument form (spec.md §4.5): an
// arity-2 primitive invoked with one argument yields a new arity-1 builtin
// closing over it, rather than erroring.
func curryBuiltin(b *Builtin, arg Value) Value {
	args := append(append([]Value{}, b.Args...), arg)
	if len(args) == b.Arity {
		return b.Fn(args)
	}
	return NewBuiltin(&Builtin{Name: b.Name, Arity: b.Arity, Args: args, Fn: b.Fn})
}

// NewPrimitiveEnv builds the root environment (spec.md §4.3's "primitive
// environment") pre-populated with every registered builtin.
func NewPrimitiveEnv() *Env {
	e := NewEnv(nil)
	builtinRegistry.Ascend(func(b builtinEntry) bool {
		e.Define(b.name, NewBuiltin(&Builtin{Name: b.name, Arity: b.arity, Fn: b.fn}))
		return true
	})
	return e
}

func init() {
	registerBuiltin("Print", 1, func(a []Value) Value {
		fmt.Print(Stringify(a[0]))
		return NewDummy()
	})
	registerBuiltin("Stem", 1, func(a []Value) Value {
		s := requireString(a[0], "Stem")
		if s == "" {
			return NewVString("")
		}
		n := norm.NFC.String(s)
		r := []rune(n)
		return NewVString(string(r[0]))
	})
	registerBuiltin("Stern", 1, func(a []Value) Value {
		s := requireString(a[0], "Stern")
		if s == "" {
			return NewVString("")
		}
		n := norm.NFC.String(s)
		r := []rune(n)
		return NewVString(string(r[1:]))
	})
	registerBuiltin("Conc", 2, func(a []Value) Value {
		return NewVString(requireString(a[0], "Conc") + requireString(a[1], "Conc"))
	})
	registerBuiltin("Order", 1, func(a []Value) Value {
		if a[0].Kind != VTuple {
			fail(TypeError, "Order: expected a tuple")
		}
		return NewInt(int64(len(a[0].Tuple)))
	})
	registerBuiltin("Null", 1, func(a []Value) Value {
		// Null(t) is true iff t equals nil (spec.md §4.5). The classic
		// tuple-recursion idiom (Rec f t = Null(t) -> ... | ...) walks a
		// tuple down to its empty case, so an empty tuple or string also
		// counts as null here rather than raising a type error.
		switch a[0].Kind {
		case VNil:
			return NewVBool(true)
		case VTuple:
			return NewVBool(len(a[0].Tuple) == 0)
		case VString:
			return NewVBool(a[0].Str == "")
		default:
			fail(TypeError, "Null: expected a tuple, string, or nil")
			panic("unreachable")
		}
	})
	registerBuiltin("Isinteger", 1, func(a []Value) Value { return NewVBool(a[0].Kind == VInt) })
	registerBuiltin("Istruthvalue", 1, func(a []Value) Value { return NewVBool(a[0].Kind == VBool) })
	registerBuiltin("Isstring", 1, func(a []Value) Value { return NewVBool(a[0].Kind == VString) })
	registerBuiltin("Istuple", 1, func(a []Value) Value { return NewVBool(a[0].Kind == VTuple) })
	registerBuiltin("Isfunction", 1, func(a []Value) Value {
		k := a[0].Kind
		return NewVBool(k == VClosure || k == VEta || k == VBuiltin)
	})
	registerBuiltin("Isdummy", 1, func(a []Value) Value { return NewVBool(a[0].Kind == VDummy) })
	registerBuiltin("ItoS", 1, func(a []Value) Value {
		if a[0].Kind != VInt {
			fail(TypeError, "ItoS: expected an integer")
		}
		return NewVString(strconv.FormatInt(a[0].Int, 10))
	})
}

func requireString(v Value, who string) string {
	if v.Kind != VString {
		fail(TypeError, "%s: expected a string", who)
	}
	return v.Str
}

// Stringify renders a Value the way Print writes it: tuples print
// parenthesized and comma-separated, booleans as lowercase "true"/"false".
func Stringify(v Value) string {
	switch v.Kind {
	case VInt:
		return strconv.FormatInt(v.Int, 10)
	case VString:
		return v.Str
	case VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VNil:
		return "nil"
	case VDummy:
		return "dummy"
	case VTuple:
		parts := make([]string, len(v.Tuple))
		for i, el := range v.Tuple {
			parts[i] = Stringify(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case VClosure, VEta:
		return "[function]"
	case VBuiltin:
		return "[function " + v.Builtin.Name + "]"
	default:
		return "?"
	}
}
