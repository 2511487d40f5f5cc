package rpal

import (
	"strings"
)

// DumpAST renders n in the dotted-depth format spec.md §6 specifies for
// -ast/-st, e.g.:
//
//	let
//	.equal
//	..<ID:x>
//	..<INT:1>
//	.gamma
//	..<ID:Print>
//	..<ID:x>
func DumpAST(n *ASTNode) string {
	var sb strings.Builder
	n.Dump(&sb)
	return strings.TrimRight(sb.String(), "\n")
}
