package quicksilver

// Position is a 1-indexed location in a source string.
type Position struct {
	Line   int
	Column int
	Offset int // byte offset, 0-indexed
}

// tokenType is the kind of a lexical token.
type tokenType int

const (
	tokEOF tokenType = iota

	// Literals and identifiers
	tokNumber
	tokString
	tokTemplate
	tokIdent

	// Keywords
	tokTrue
	tokFalse
	tokNull
	tokUndefined
	tokLet
	tokConst
	tokVar
	tokIf
	tokElse
	tokWhile
	tokTypeof

	// Punctuation
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokDot
	tokSemi
	tokColon
	tokQuestion

	// Operators
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokAssign
	tokEq       // ==
	tokStrictEq // ===
	tokNeq      // !=
	tokStrictNeq
	tokLess
	tokLessEq
	tokGreater
	tokGreaterEq
	tokNot
	tokAnd // &&
	tokOr  // ||
)

var tokenNames = map[tokenType]string{
	tokEOF:       "end of input",
	tokNumber:    "number",
	tokString:    "string",
	tokTemplate:  "template literal",
	tokIdent:     "identifier",
	tokTrue:      "'true'",
	tokFalse:     "'false'",
	tokNull:      "'null'",
	tokUndefined: "'undefined'",
	tokLet:       "'let'",
	tokConst:     "'const'",
	tokVar:       "'var'",
	tokIf:        "'if'",
	tokElse:      "'else'",
	tokWhile:     "'while'",
	tokTypeof:    "'typeof'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokComma:     "','",
	tokDot:       "'.'",
	tokSemi:      "';'",
	tokColon:     "':'",
	tokQuestion:  "'?'",
	tokPlus:      "'+'",
	tokMinus:     "'-'",
	tokStar:      "'*'",
	tokSlash:     "'/'",
	tokPercent:   "'%'",
	tokAssign:    "'='",
	tokEq:        "'=='",
	tokStrictEq:  "'==='",
	tokNeq:       "'!='",
	tokStrictNeq: "'!=='",
	tokLess:      "'<'",
	tokLessEq:    "'<='",
	tokGreater:   "'>'",
	tokGreaterEq: "'>='",
	tokNot:       "'!'",
	tokAnd:       "'&&'",
	tokOr:        "'||'",
}

func (t tokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "token"
}

var keywords = map[string]tokenType{
	"true":      tokTrue,
	"false":     tokFalse,
	"null":      tokNull,
	"undefined": tokUndefined,
	"let":       tokLet,
	"const":     tokConst,
	"var":       tokVar,
	"if":        tokIf,
	"else":      tokElse,
	"while":     tokWhile,
	"typeof":    tokTypeof,
}

// templatePart is one segment of a template literal: either cooked text or
// the raw source of a ${...} substitution.
type templatePart struct {
	isExpr bool
	text   string   // cooked text when !isExpr, expression source otherwise
	pos    Position // start of the segment, for substitution diagnostics
}

// token is a lexical token with its decoded payload.
type token struct {
	typ    tokenType
	lexeme string
	num    float64        // decoded value for tokNumber
	str    string         // decoded value for tokString
	parts  []templatePart // segments for tokTemplate
	pos    Position
}
