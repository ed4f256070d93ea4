package query

// lexer splits query text into words and the punctuation the clause scanner
// cares about. Quoted literals ('..', "..") and bracketed identifiers ([..])
// are kept inside a single word so their content never opens a clause.
type lexer struct {
	src    string
	offset int
}

type token struct {
	pos int
	tok Token
	val string
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func newLexerAt(src string, offset int) *lexer {
	return &lexer{src: src, offset: offset}
}

// Scan returns the start offset, kind and raw text of the next token.
func (l *lexer) Scan() (int, Token, string) {
	for l.offset < len(l.src) && isSpace(l.src[l.offset]) {
		l.offset++
	}

	pos := l.offset
	if pos >= len(l.src) {
		return pos, eol, ""
	}

	switch l.src[pos] {
	case '(':
		l.offset++
		return pos, lbracket, "("
	case ')':
		l.offset++
		return pos, rbracket, ")"
	case ',':
		l.offset++
		return pos, comma, ","
	case '=':
		l.offset++
		return pos, equal, "="
	}

	for l.offset < len(l.src) && !isDelimiter(l.src[l.offset]) {
		switch ch := l.src[l.offset]; ch {
		case '\'', '"':
			if !l.skipUntil(ch) {
				return pos, illegal, "unclosed string"
			}
		case '[':
			if !l.skipUntil(']') {
				return pos, illegal, "unclosed bracket identifier"
			}
		default:
			l.offset++
		}
	}

	val := l.src[pos:l.offset]
	return pos, lookupKeyword(val), val
}

// skipUntil moves past the opening char at offset and everything up to and
// including the closing char. A doubled closing char is an escape.
func (l *lexer) skipUntil(closing byte) bool {
	l.offset++
	for l.offset < len(l.src) {
		ch := l.src[l.offset]
		l.offset++
		if ch != closing {
			continue
		}
		if l.offset < len(l.src) && l.src[l.offset] == closing && closing != ']' {
			l.offset++
			continue
		}
		return true
	}
	return false
}

// tokenize scans src to the end. It panics with a MalformedQueryError on
// illegal input.
func tokenize(src string) []token {
	l := newLexer(src)
	toks := make([]token, 0, 32)
	for {
		pos, tok, val := l.Scan()
		switch tok {
		case eol:
			return toks
		case illegal:
			fail(malformed(pos, "%s", val))
		}
		toks = append(toks, token{pos: pos, tok: tok, val: val})
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || ch == '(' || ch == ')' || ch == ',' || ch == '='
}

func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_'
}
