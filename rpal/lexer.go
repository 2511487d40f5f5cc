package rpal

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TokenKind distinguishes the three lexical categories spec.md §6 names
// (identifiers, integers, strings) from everything else, which is kept as
// raw symbol text and matched against by the parser — the same trick the
// teacher's tokenize()/readFrom() use in scm/parser.go (tokens are either
// Number, Symbol, or string; keywords and punctuation are just Symbols
// compared by value).
type TokenKind int

const (
	TokIdent TokenKind = iota
	TokInt
	TokString
	TokSymbol // punctuation/operator, matched by Text (keywords lex as TokIdent)
)

type Token struct {
	Kind TokenKind
	Text string
}

var stringEscapes = strings.NewReplacer(`\t`, "\t", `\n`, "\n", `\\`, `\`, `\'`, "'")

// tokenize runs the scanner: a small state machine over bytes, mirroring
// the teacher's tokenize() in scm/parser.go, adapted to RPAL's lexical
// rules (spec.md §6) — '...' strings instead of "...", // line comments
// instead of /* */, and a fixed multi-char operator set.
func tokenize(src string) []Token {
	src = norm.NFC.String(src)
	var toks []Token
	i, n := 0, len(src)
	for i < n {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			i++
		case ch == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case ch == '\'':
			j := i + 1
			var sb strings.Builder
			closed := false
			for j < n {
				if src[j] == '\\' && j+1 < n {
					sb.WriteByte(src[j])
					sb.WriteByte(src[j+1])
					j += 2
					continue
				}
				if src[j] == '\'' {
					closed = true
					break
				}
				sb.WriteByte(src[j])
				j++
			}
			if !closed {
				fail(LexError, "unterminated string literal")
			}
			toks = append(toks, Token{TokString, stringEscapes.Replace(sb.String())})
			i = j + 1
		case isDigit(ch):
			j := i
			for j < n && isDigit(src[j]) {
				j++
			}
			toks = append(toks, Token{TokInt, src[i:j]})
			i = j
		case isLetter(ch):
			j := i
			for j < n && (isLetter(src[j]) || isDigit(src[j]) || src[j] == '_') {
				j++
			}
			toks = append(toks, Token{TokIdent, src[i:j]})
			i = j
		default:
			sym, width := matchSymbol(src[i:])
			if width == 0 {
				fail(LexError, "illegal character %q", ch)
			}
			toks = append(toks, Token{TokSymbol, sym})
			i += width
		}
	}
	return toks
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// multiCharSymbols must be tried longest-first so "**" doesn't lex as "*","*".
var multiCharSymbols = []string{"->", "**", "<=", ">=", "(", ")", ",", ".", "=", "|", "+", "-", "*", "/", "<", ">", "&", "@"}

func matchSymbol(s string) (string, int) {
	for _, sym := range multiCharSymbols {
		if strings.HasPrefix(s, sym) {
			return sym, len(sym)
		}
	}
	return "", 0
}

var keywords = map[string]bool{
	"let": true, "in": true, "where": true, "rec": true, "fn": true,
	"within": true, "and": true, "or": true, "not": true, "true": true,
	"false": true, "nil": true, "dummy": true, "aug": true, "gr": true,
	"ge": true, "ls": true, "le": true, "eq": true, "ne": true,
}
