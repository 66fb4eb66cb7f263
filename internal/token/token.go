// Package token defines the token kinds, keyword table, punctuator table
// and binary-operator precedence table the lexer and parser share.
package token

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL
	IDENT
	INT_CONST

	// keywords
	KW_INT
	KW_VOID
	KW_RETURN
	KW_IF
	KW_ELSE
	KW_GOTO
	KW_DO
	KW_WHILE
	KW_FOR
	KW_BREAK
	KW_CONTINUE
	KW_SWITCH
	KW_CASE
	KW_DEFAULT

	// punctuators / operators
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	SEMI      // ;
	COLON     // :
	QUESTION  // ?
	COMMA     // ,
	PLUS      // +
	MINUS     // -
	TILDE     // ~
	STAR      // *
	SLASH     // /
	PERCENT   // %
	LT        // <
	GT        // >
	ASSIGN    // =
	AMP       // &
	PIPE      // |
	CARET     // ^
	BANG      // !
	INC       // ++
	DEC       // --
	SHL       // <<
	SHR       // >>
	EQ        // ==
	NE        // !=
	LE        // <=
	GE        // >=
	AND       // &&
	OR        // ||
	PLUS_EQ   // +=
	MINUS_EQ  // -=
	STAR_EQ   // *=
	SLASH_EQ  // /=
	PERCENT_EQ // %=
	AMP_EQ    // &=
	PIPE_EQ   // |=
	CARET_EQ  // ^=
	SHL_EQ    // <<=
	SHR_EQ    // >>=
)

// Token is a (kind, spelling) pair plus its source position. Lex is a new
// string holding a copy of the token's source text, not a slice of the
// source string.
type Token struct {
	Kind Kind
	Lex  string
	Line int
	Col  int
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Keywords maps reserved identifier spellings to their keyword Kind.
var Keywords = map[string]Kind{
	"int":      KW_INT,
	"void":     KW_VOID,
	"return":   KW_RETURN,
	"if":       KW_IF,
	"else":     KW_ELSE,
	"goto":     KW_GOTO,
	"do":       KW_DO,
	"while":    KW_WHILE,
	"for":      KW_FOR,
	"break":    KW_BREAK,
	"continue": KW_CONTINUE,
	"switch":   KW_SWITCH,
	"case":     KW_CASE,
	"default":  KW_DEFAULT,
}

// punctSpelling pairs every non-identifier, non-constant, non-keyword
// token spelling with its Kind. Punctuators is derived from this, sorted by
// decreasing spelling length so the lexer's greedy longest-match scan tries
// "<<=" before "<<" before "<".
var punctSpelling = []struct {
	lex  string
	kind Kind
}{
	{"<<=", SHL_EQ},
	{">>=", SHR_EQ},
	{"++", INC},
	{"--", DEC},
	{"<<", SHL},
	{">>", SHR},
	{"==", EQ},
	{"!=", NE},
	{"<=", LE},
	{">=", GE},
	{"&&", AND},
	{"||", OR},
	{"+=", PLUS_EQ},
	{"-=", MINUS_EQ},
	{"*=", STAR_EQ},
	{"/=", SLASH_EQ},
	{"%=", PERCENT_EQ},
	{"&=", AMP_EQ},
	{"|=", PIPE_EQ},
	{"^=", CARET_EQ},
	{"(", LPAREN},
	{")", RPAREN},
	{"{", LBRACE},
	{"}", RBRACE},
	{";", SEMI},
	{":", COLON},
	{"?", QUESTION},
	{",", COMMA},
	{"+", PLUS},
	{"-", MINUS},
	{"~", TILDE},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"<", LT},
	{">", GT},
	{"=", ASSIGN},
	{"&", AMP},
	{"|", PIPE},
	{"^", CARET},
	{"!", BANG},
}

// Punctuators is punctSpelling sorted by descending spelling length,
// computed once at init so the lexer never re-sorts per call.
var Punctuators []struct {
	Lex  string
	Kind Kind
}

func init() {
	Punctuators = make([]struct {
		Lex  string
		Kind Kind
	}, len(punctSpelling))
	for i, p := range punctSpelling {
		Punctuators[i] = struct {
			Lex  string
			Kind Kind
		}{p.lex, p.kind}
	}
	// insertion sort by descending length; the table is small and static.
	for i := 1; i < len(Punctuators); i++ {
		for j := i; j > 0 && len(Punctuators[j].Lex) > len(Punctuators[j-1].Lex); j-- {
			Punctuators[j], Punctuators[j-1] = Punctuators[j-1], Punctuators[j]
		}
	}
}

// Precedence returns the binary-operator precedence of k, and whether k is
// a binary operator at all (includes the assignment family at precedence 1
// and the conditional operator at precedence 3, per the grammar's
// precedence-climbing table).
func Precedence(k Kind) (int, bool) {
	switch k {
	case STAR, SLASH, PERCENT:
		return 50, true
	case PLUS, MINUS:
		return 45, true
	case SHL, SHR:
		return 40, true
	case LT, GT, LE, GE:
		return 35, true
	case EQ, NE:
		return 30, true
	case AMP:
		return 25, true
	case CARET:
		return 20, true
	case PIPE:
		return 15, true
	case AND:
		return 10, true
	case OR:
		return 5, true
	case QUESTION:
		return 3, true
	case ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, AMP_EQ, PIPE_EQ, CARET_EQ, SHL_EQ, SHR_EQ:
		return 1, true
	default:
		return 0, false
	}
}

// IsAssignment reports whether k is the plain or a compound assignment
// operator.
func IsAssignment(k Kind) bool {
	switch k {
	case ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, AMP_EQ, PIPE_EQ, CARET_EQ, SHL_EQ, SHR_EQ:
		return true
	default:
		return false
	}
}

var kindNames = map[Kind]string{
	EOF: "EOF", ILLEGAL: "ILLEGAL", IDENT: "IDENT", INT_CONST: "INT_CONST",
	KW_INT: "int", KW_VOID: "void", KW_RETURN: "return", KW_IF: "if", KW_ELSE: "else",
	KW_GOTO: "goto", KW_DO: "do", KW_WHILE: "while", KW_FOR: "for", KW_BREAK: "break",
	KW_CONTINUE: "continue", KW_SWITCH: "switch", KW_CASE: "case", KW_DEFAULT: "default",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", SEMI: ";", COLON: ":",
	QUESTION: "?", COMMA: ",", PLUS: "+", MINUS: "-", TILDE: "~", STAR: "*",
	SLASH: "/", PERCENT: "%", LT: "<", GT: ">", ASSIGN: "=", AMP: "&", PIPE: "|",
	CARET: "^", BANG: "!", INC: "++", DEC: "--", SHL: "<<", SHR: ">>", EQ: "==",
	NE: "!=", LE: "<=", GE: ">=", AND: "&&", OR: "||", PLUS_EQ: "+=", MINUS_EQ: "-=",
	STAR_EQ: "*=", SLASH_EQ: "/=", PERCENT_EQ: "%=", AMP_EQ: "&=", PIPE_EQ: "|=",
	CARET_EQ: "^=", SHL_EQ: "<<=", SHR_EQ: ">>=",
}
