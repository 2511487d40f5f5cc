package rpal

import "testing"

func noSurfaceNodes(t *testing.T, n *ASTNode) {
	t.Helper()
	if n == nil {
		return
	}
	if n.Type.IsSurface() {
		t.Errorf("surface node %s survived standardization", n.Type)
	}
	noSurfaceNodes(t, n.Child)
	noSurfaceNodes(t, n.Sibling)
}

func astEqual(a, b *ASTNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Value != b.Value {
		return false
	}
	return astEqual(a.Child, b.Child) && astEqual(a.Sibling, b.Sibling)
}

func TestStandardizeLet(t *testing.T) {
	ast := Parse("let x = 5 in Print(x)")
	std := Standardize(ast)
	if std.Type != GAMMA {
		t.Fatalf("got %s, want GAMMA", std.Type)
	}
	lambda := std.Children()[0]
	if lambda.Type != LAMBDA {
		t.Fatalf("got %s, want LAMBDA", lambda.Type)
	}
	noSurfaceNodes(t, std)
}

func TestStandardizeWhereMatchesLet(t *testing.T) {
	letForm := Standardize(Parse("let x = 5 in Print(x)"))
	whereForm := Standardize(Parse("Print(x) where x = 5"))
	if !astEqual(letForm, whereForm) {
		t.Errorf("where should standardize identically to the equivalent let")
	}
}

func TestStandardizeFcnForm(t *testing.T) {
	ast := Parse("let f x y = x+y in Print(f 2 3)")
	std := Standardize(ast)
	noSurfaceNodes(t, std)
	// f = lambda(x, lambda(y, x+y))
	eq := std.Children()[0]
	if eq.Type != LAMBDA {
		// standardizeLet wraps EQUAL's RHS/LHS into a gamma/lambda already
		t.Fatalf("unexpected top shape: %s", std.Type)
	}
	fDef := std.Children()[1]
	if fDef.Type != LAMBDA || fDef.Child.Value != "x" || fDef.Children()[1].Type != LAMBDA {
		t.Fatalf("f should standardize to lambda(x, lambda(y, ...)), got %s", DumpAST(fDef))
	}
}

func TestStandardizeRecCopiesBoundName(t *testing.T) {
	ast := Parse("let rec f n = n in Print(f 1)")
	std := Standardize(ast)
	noSurfaceNodes(t, std)
	lambdaOuter := std.Children()[0]
	eq := lambdaOuter.Child // parameter position holds the bound EQUAL's LHS identifier
	// rand is gamma(YSTAR, lambda(f, ...)); its lambda's parameter is the second copy of f
	recParam := std.Children()[1].Children()[1].Child
	if eq.Value != "f" || recParam.Value != "f" {
		t.Fatalf("both bound-name positions should hold f, got %q and %q", eq.Value, recParam.Value)
	}
	if eq == recParam {
		t.Fatal("REC must copy the bound name, not share one node")
	}
}

func TestStandardizeIsFixedPoint(t *testing.T) {
	sources := []string{
		"let x = 5 in Print(x)",
		"let rec f n = n eq 0 -> 1 | n*f(n-1) in Print(f 5)",
		"let x,y = 2,3 in Print(x+y)",
		"let f x y = x+y in Print(f 2 3)",
		"Print(x) where x = 5",
	}
	for _, src := range sources {
		once := Standardize(Parse(src))
		twice := Standardize(once)
		if !astEqual(once, twice) {
			t.Errorf("standardize not a fixed point for %q", src)
		}
	}
}

func TestStandardizeSimultdef(t *testing.T) {
	ast := Parse("let x = 1 and y = 2 in Print(x+y)")
	std := Standardize(ast)
	noSurfaceNodes(t, std)
}

func TestStandardizeWithin(t *testing.T) {
	ast := Parse("let x = 1 within y = x+1 in Print(y)")
	std := Standardize(ast)
	noSurfaceNodes(t, std)
}

func TestStandardizeAt(t *testing.T) {
	ast := Parse("Print(1 @ f 2)")
	std := Standardize(ast)
	noSurfaceNodes(t, std)
}

func TestStandardizeLambdaChain(t *testing.T) {
	ast := Parse("Print(fn x y . x+y)")
	std := Standardize(ast)
	fnNode := std.Children()[1]
	if fnNode.Type != LAMBDA {
		t.Fatalf("got %s, want LAMBDA", fnNode.Type)
	}
	if len(fnNode.Children()) != 2 {
		t.Fatalf("single-parameter lambda chain element should have 2 children, got %d", len(fnNode.Children()))
	}
	inner := fnNode.Children()[1]
	if inner.Type != LAMBDA {
		t.Fatalf("expected nested lambda, got %s", inner.Type)
	}
}

func TestStandardizeMalformedWithin(t *testing.T) {
	bad := NewNode(WITHIN, "", NewNode(IDENTIFIER, "x"), NewNode(IDENTIFIER, "y"))
	err := Try(func() { Standardize(bad) })
	if err == nil {
		t.Fatal("expected MalformedTree")
	}
	if re := err.(*RpalError); re.Kind != MalformedTree {
		t.Errorf("got %v, want MalformedTree", re.Kind)
	}
}
