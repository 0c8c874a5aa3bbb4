// Package token defines the lexical tokens of minilang.
package token

import "fmt"

type TokenType string

// Token is a lexical token with its 1-based source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Literal, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + Literals
	IDENT  = "IDENT"  // x, main
	NUMBER = "NUMBER" // 1, 2.5

	// Operators and Delimiters
	ASSIGN    = "="
	PLUS      = "+"
	MINUS     = "-"
	ASTERISK  = "*"
	SLASH     = "/"
	CARET     = "^"
	COMMA     = ","
	SEMICOLON = ";"
	COLON     = ":"
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"

	BANG = "!"
	EQ   = "=="
	LT   = "<"
	GT   = ">"
	AND  = "&&"
	OR   = "||"

	// Keywords
	LET     = "LET"
	PRINT   = "PRINT"
	IF      = "IF"
	ELSE    = "ELSE"
	WHILE   = "WHILE"
	SWITCH  = "SWITCH"
	CASE    = "CASE"
	DEFAULT = "DEFAULT"
	RETURN  = "RETURN"
	INPUT   = "INPUT"
	TRUE    = "TRUE"
	FALSE   = "FALSE"
	NUM     = "NUM"
	BOOL    = "BOOL"
	VOID    = "VOID"
)

var keywords = map[string]TokenType{
	"let":     LET,
	"print":   PRINT,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"switch":  SWITCH,
	"case":    CASE,
	"default": DEFAULT,
	"return":  RETURN,
	"input":   INPUT,
	"true":    TRUE,
	"false":   FALSE,
	"num":     NUM,
	"bool":    BOOL,
	"void":    VOID,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
