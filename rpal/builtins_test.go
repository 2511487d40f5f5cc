package rpal

import "testing"

func callBuiltin(t *testing.T, name string, args ...Value) Value {
	t.Helper()
	env := NewPrimitiveEnv()
	v := env.Lookup(name)
	if v.Kind != VBuiltin {
		t.Fatalf("%s is not a builtin", name)
	}
	cur := v
	for _, a := range args {
		cur = curryBuiltin(cur.Builtin, a)
	}
	return cur
}

func TestStemStern(t *testing.T) {
	if got := callBuiltin(t, "Stem", NewVString("hello")); got.Str != "h" {
		t.Errorf("Stem: got %q", got.Str)
	}
	if got := callBuiltin(t, "Stern", NewVString("hello")); got.Str != "ello" {
		t.Errorf("Stern: got %q", got.Str)
	}
}

func TestConcIsCurried(t *testing.T) {
	env := NewPrimitiveEnv()
	conc := env.Lookup("Conc")
	partial := curryBuiltin(conc.Builtin, NewVString("foo"))
	if partial.Kind != VBuiltin {
		t.Fatalf("applying Conc to one argument should yield a partial builtin, got kind %d", partial.Kind)
	}
	result := curryBuiltin(partial.Builtin, NewVString("bar"))
	if result.Kind != VString || result.Str != "foobar" {
		t.Errorf("got %+v, want string \"foobar\"", result)
	}
}

func TestOrderAndNull(t *testing.T) {
	tup := NewTuple([]Value{NewInt(1), NewInt(2)})
	if got := callBuiltin(t, "Order", tup); got.Int != 2 {
		t.Errorf("Order: got %d, want 2", got.Int)
	}
	empty := NewTuple(nil)
	if got := callBuiltin(t, "Null", empty); !got.Bool {
		t.Errorf("Null on empty tuple should be true")
	}
	if got := callBuiltin(t, "Null", tup); got.Bool {
		t.Errorf("Null on non-empty tuple should be false")
	}
	if got := callBuiltin(t, "Null", NewVNil()); !got.Bool {
		t.Errorf("Null(nil) should be true")
	}
}

func TestTypePredicates(t *testing.T) {
	if !callBuiltin(t, "Isinteger", NewInt(1)).Bool {
		t.Error("Isinteger(1) should be true")
	}
	if callBuiltin(t, "Isinteger", NewVString("x")).Bool {
		t.Error("Isinteger('x') should be false")
	}
	if !callBuiltin(t, "Isstring", NewVString("x")).Bool {
		t.Error("Isstring('x') should be true")
	}
	if !callBuiltin(t, "Istuple", NewTuple(nil)).Bool {
		t.Error("Istuple(()) should be true")
	}
	if !callBuiltin(t, "Isdummy", NewDummy()).Bool {
		t.Error("Isdummy(dummy) should be true")
	}
	if !callBuiltin(t, "Istruthvalue", NewVBool(true)).Bool {
		t.Error("Istruthvalue(true) should be true")
	}
}

func TestItoS(t *testing.T) {
	if got := callBuiltin(t, "ItoS", NewInt(42)); got.Str != "42" {
		t.Errorf("ItoS(42): got %q", got.Str)
	}
}

func TestStringify(t *testing.T) {
	tup := NewTuple([]Value{NewInt(1), NewVString("a")})
	if got := Stringify(tup); got != "(1, a)" {
		t.Errorf("got %q", got)
	}
	if got := Stringify(NewVBool(true)); got != "true" {
		t.Errorf("got %q", got)
	}
}
