package rpal

// Standardize rewrites a surface AST into canonical form per spec.md §4.1:
// every LET, WHERE, FCN_FORM, AT, WITHIN, SIMULTDEF and REC node is replaced
// by an equivalent built only from LAMBDA/GAMMA/EQUAL/COMMA/TAU/YSTAR and the
// leaf/operator types. Rewriting is post-order — children are standardized
// before the node itself is inspected — which is what makes a single pass a
// fixed point: by the time a rule looks at its children, no surface node can
// remain among them.
// StandardizeSafe is Standardize wrapped in Try.
func StandardizeSafe(n *ASTNode) (result *ASTNode, err error) {
	err = Try(func() { result = Standardize(n) })
	return
}

func Standardize(n *ASTNode) *ASTNode {
	if n == nil {
		return nil
	}
	children := n.Children()
	stdChildren := make([]*ASTNode, len(children))
	for i, c := range children {
		stdChildren[i] = Standardize(c)
	}

	switch n.Type {
	case LET:
		// let D in E  =>  gamma(lambda(boundVar(D), E), boundExpr(D))
		d, e := stdChildren[0], stdChildren[1]
		return standardizeLet(d, e)

	case WHERE:
		// E where D  =>  standardize(let D in E)
		e, d := stdChildren[0], stdChildren[1]
		return standardizeLet(d, e)

	case FCN_FORM:
		// name Vb+ = E  =>  name = lambda(Vb1, lambda(Vb2, ... E))
		name := stdChildren[0]
		vbs := stdChildren[1 : len(stdChildren)-1]
		body := stdChildren[len(stdChildren)-1]
		return NewNode(EQUAL, "", name, buildLambdaChain(vbs, body))

	case AT:
		// E1 @ N E2  =>  gamma(gamma(N, E1), E2)
		e1, name, e2 := stdChildren[0], stdChildren[1], stdChildren[2]
		return NewNode(GAMMA, "", NewNode(GAMMA, "", name, e1), e2)

	case WITHIN:
		// (X1=E1) within (X2=E2)  =>  X2 = gamma(lambda(X1, E2), E1)
		left, right := stdChildren[0], stdChildren[1]
		if left.Type != EQUAL || right.Type != EQUAL {
			fail(MalformedTree, "within: both sides must be equations")
		}
		x1, e1 := left.Children()[0], left.Children()[1]
		x2, e2 := right.Children()[0], right.Children()[1]
		return NewNode(EQUAL, "", x2, NewNode(GAMMA, "", NewNode(LAMBDA, "", x1, e2), e1))

	case SIMULTDEF:
		// D1 and D2 and ... and Dn  =>  COMMA(X1,...,Xn) = TAU(E1,...,En)
		var names, exprs []*ASTNode
		for _, d := range stdChildren {
			if d.Type != EQUAL {
				fail(MalformedTree, "simultdef: each branch must be an equation")
			}
			kids := d.Children()
			names = append(names, kids[0])
			exprs = append(exprs, kids[1])
		}
		return NewNode(EQUAL, "", NewNode(COMMA, "", names...), NewNode(TAU, "", exprs...))

	case LAMBDA:
		// The parser emits "fn v1 v2 . E" as one multi-parameter LAMBDA node
		// (params..., body); re-nest it into the single-parameter chain the
		// CSE machine's Rule 2/3 expect, same as FCN_FORM's chain above.
		params := stdChildren[:len(stdChildren)-1]
		body := stdChildren[len(stdChildren)-1]
		return buildLambdaChain(params, body)

	case REC:
		// rec (X=E)  =>  X = gamma(YSTAR, lambda(X, E))
		inner := stdChildren[0]
		if inner.Type != EQUAL {
			fail(MalformedTree, "rec: expected an equation")
		}
		x, e := inner.Children()[0], inner.Children()[1]
		xCopy := x.Clone()
		return NewNode(EQUAL, "", xCopy, NewNode(GAMMA, "", NewNode(YSTAR, ""), NewNode(LAMBDA, "", x.Clone(), e)))

	default:
		// Leaf or already-canonical/operator node: rebuild with standardized
		// children (value and type are unchanged).
		return NewNode(n.Type, n.Value, stdChildren...)
	}
}

// StandardizeSafe is Standardize wrapped in Try.
func StandardizeSafe(n *ASTNode) (result *ASTNode, err error) {
	err = Try(func() { result = Standardize(n) })
	return
}

// standardizeLet implements "let D in E" => gamma(lambda(boundVar(D), E), boundExpr(D)).
// D must be an EQUAL node (a possibly-SIMULTDEF-flattened binding); its
// standardized form is always EQUAL by construction, since SIMULTDEF and REC
// both standardize down to EQUAL themselves.
func standardizeLet(d, e *ASTNode) *ASTNode {
	if d.Type != EQUAL {
		fail(MalformedTree, "let: expected an equation, got %s", d.Type)
	}
	kids := d.Children()
	x, boundExpr := kids[0], kids[1]
	return NewNode(GAMMA, "", NewNode(LAMBDA, "", x, e), boundExpr)
}

// buildLambdaChain folds a parameter list into nested single-parameter
// LAMBDA nodes: lambda(v1, lambda(v2, ... lambda(vn, body))). Shared by
// FCN_FORM standardization and the surface "fn v1 v2 . E" form, which the
// parser already built as a single multi-child LAMBDA — this helper re-nests
// that into the strict single-parameter shape the CSE machine's Rule 2/3
// expect (one LAMBDA == one GAMMA application).
func buildLambdaChain(params []*ASTNode, body *ASTNode) *ASTNode {
	if len(params) == 0 {
		return body
	}
	return NewNode(LAMBDA, "", params[0], buildLambdaChain(params[1:], body))
}
