package compiler

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"int":    INT,
	"void":   VOID,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
	"print":  PRINT,
}

// Lexer holds all mutable state for a single scanning pass over src.
// Tokens are produced on demand by Next; Reset rewinds to the start.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	errs []*LexicalError
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// Reset rewinds the lexer so the same token sequence can be produced again.
func (l *Lexer) Reset() {
	l.pos = 0
	l.line = 1
	l.errs = nil
}

// Errors returns the lexical errors seen so far in this pass.
func (l *Lexer) Errors() []*LexicalError {
	return l.errs
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() {
	startLine := l.line
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return
		}
		l.advance()
	}
	l.errs = append(l.errs, &LexicalError{Line: startLine, Msg: "Unterminated block comment"})
}

func isLetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanInt collects a run of decimal digits.
func (l *Lexer) scanInt() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.advance()
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// Next skips whitespace/comments and returns the next Token. Once the input
// is exhausted every call returns an EOF token.
func (l *Lexer) Next() Token {
	for {
		for {
			l.skipWhitespace()
			if l.peek() == '/' && l.peek2() == '/' {
				l.advance()
				l.advance()
				l.skipLineComment()
				continue
			}
			if l.peek() == '/' && l.peek2() == '*' {
				l.advance()
				l.advance()
				l.skipBlockComment()
				continue
			}
			break
		}
		if l.pos >= len(l.src) {
			return Token{Type: EOF, Lexeme: "", Line: l.line}
		}

		ch := l.peek()
		line := l.line

		if isLetter(ch) {
			return l.scanIdent()
		}
		if isDigit(ch) {
			return l.scanInt()
		}

		l.advance() // consume the character before the switch
		switch ch {
		case '{':
			return Token{LBRACE, "{", line}
		case '}':
			return Token{RBRACE, "}", line}
		case '(':
			return Token{LPAREN, "(", line}
		case ')':
			return Token{RPAREN, ")", line}
		case ';':
			return Token{SEMICOLON, ";", line}
		case ',':
			return Token{COMMA, ",", line}
		case '+':
			return Token{PLUS, "+", line}
		case '-':
			return Token{MINUS, "-", line}
		case '*':
			return Token{STAR, "*", line}
		case '/':
			return Token{SLASH, "/", line}
		case '%':
			return Token{PERCENT, "%", line}
		case '!':
			if l.peek() == '=' {
				l.advance()
				return Token{NOT_EQ, "!=", line}
			}
			// a lone '!' is not an operator of the language
		case '<':
			if l.peek() == '=' {
				l.advance()
				return Token{LESS_EQ, "<=", line}
			}
			return Token{LESS, "<", line}
		case '>':
			if l.peek() == '=' {
				l.advance()
				return Token{GREATER_EQ, ">=", line}
			}
			return Token{GREATER, ">", line}
		case '=':
			if l.peek() == '=' { // lookahead: distinguish = vs ==
				l.advance()
				return Token{EQUALS, "==", line}
			}
			return Token{ASSIGN, "=", line}
		}

		l.errs = append(l.errs, &LexicalError{Char: ch, Line: line})
	}
}

// Lex tokenises src and returns all tokens including the final EOF token,
// along with any illegal characters that were skipped on the way.
func Lex(src string) ([]Token, []*LexicalError) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, l.Errors()
		}
	}
}
