// Package lexer turns SQL text into a flat token sequence.
//
// Keywords are case-insensitive; identifiers keep their original case.
// String literals accept single or double quotes and support no escape
// sequences: the first matching quote character closes the literal.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Lexer scans one input string. A Lexer is single-use.
type Lexer struct {
	src []rune
	pos int
}

func New(input string) *Lexer {
	return &Lexer{src: []rune(input)}
}

// Tokenize consumes the whole input and returns the token sequence,
// terminated by an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		l.skipWhitespace()
		if l.eof() {
			break
		}

		ch := l.src[l.pos]
		pos := l.pos

		switch {
		case ch == '\'' || ch == '"':
			s := l.readString()
			tokens = append(tokens, Token{Kind: STRING, Text: s, Val: s, Pos: pos})

		case unicode.IsDigit(ch):
			tok, err := l.readNumber(pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case unicode.IsLetter(ch) || ch == '_':
			word := l.readWord()
			if kind, ok := keywords[strings.ToUpper(word)]; ok {
				tokens = append(tokens, Token{Kind: kind, Text: word, Pos: pos})
			} else {
				tokens = append(tokens, Token{Kind: IDENT, Text: word, Pos: pos})
			}

		default:
			tok, err := l.readOperator(pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
	}

	tokens = append(tokens, Token{Kind: EOF, Text: "", Pos: l.pos})
	return tokens, nil
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
}

// readString consumes a quoted literal. Content is copied verbatim up to the
// first matching quote; an unterminated literal runs to end of input.
func (l *Lexer) readString() string {
	quote := l.src[l.pos]
	l.pos++

	start := l.pos
	for !l.eof() && l.src[l.pos] != quote {
		l.pos++
	}
	s := string(l.src[start:l.pos])
	if !l.eof() {
		l.pos++ // closing quote
	}
	return s
}

// readNumber consumes digits with at most one '.'. A literal containing a
// '.' decodes to float64, otherwise int64.
func (l *Lexer) readNumber(pos int) (Token, error) {
	start := l.pos
	sawDot := false
	for !l.eof() {
		ch := l.src[l.pos]
		if unicode.IsDigit(ch) {
			l.pos++
			continue
		}
		if ch == '.' && !sawDot {
			sawDot = true
			l.pos++
			continue
		}
		break
	}

	text := string(l.src[start:l.pos])
	if sawDot {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, fmt.Errorf("lexer: invalid number %q at position %d", text, pos)
		}
		return Token{Kind: NUMBER, Text: text, Val: f, Pos: pos}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("lexer: invalid number %q at position %d", text, pos)
	}
	return Token{Kind: NUMBER, Text: text, Val: n, Pos: pos}, nil
}

func (l *Lexer) readWord() string {
	start := l.pos
	for !l.eof() {
		ch := l.src[l.pos]
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *Lexer) readOperator(pos int) (Token, error) {
	ch := l.src[l.pos]
	l.pos++

	switch ch {
	case '=':
		return Token{Kind: EQ, Text: "=", Pos: pos}, nil
	case '!':
		if !l.eof() && l.src[l.pos] == '=' {
			l.pos++
			return Token{Kind: NEQ, Text: "!=", Pos: pos}, nil
		}
		return Token{}, &LexError{Char: '!', Pos: pos}
	case '<':
		if !l.eof() && l.src[l.pos] == '=' {
			l.pos++
			return Token{Kind: LTE, Text: "<=", Pos: pos}, nil
		}
		return Token{Kind: LT, Text: "<", Pos: pos}, nil
	case '>':
		if !l.eof() && l.src[l.pos] == '=' {
			l.pos++
			return Token{Kind: GTE, Text: ">=", Pos: pos}, nil
		}
		return Token{Kind: GT, Text: ">", Pos: pos}, nil
	case ',':
		return Token{Kind: COMMA, Text: ",", Pos: pos}, nil
	case ';':
		return Token{Kind: SEMICOLON, Text: ";", Pos: pos}, nil
	case '(':
		return Token{Kind: LPAREN, Text: "(", Pos: pos}, nil
	case ')':
		return Token{Kind: RPAREN, Text: ")", Pos: pos}, nil
	case '*':
		return Token{Kind: ASTERISK, Text: "*", Pos: pos}, nil
	default:
		return Token{}, &LexError{Char: ch, Pos: pos}
	}
}
