package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind uint8

const (
	// Keywords
	SELECT Kind = iota
	FROM
	WHERE
	INSERT
	INTO
	VALUES
	CREATE
	TABLE
	UPDATE
	DELETE
	SET
	ORDER
	BY
	LIMIT
	AND
	OR

	// Data type keywords
	INT
	VARCHAR
	BOOLEAN
	TRUE
	FALSE

	// Literals and identifiers
	IDENT
	NUMBER
	STRING

	// Operators
	EQ
	NEQ
	LT
	GT
	LTE
	GTE

	// Punctuation
	COMMA
	SEMICOLON
	LPAREN
	RPAREN
	ASTERISK

	EOF
)

var kindNames = [...]string{
	SELECT:    "SELECT",
	FROM:      "FROM",
	WHERE:     "WHERE",
	INSERT:    "INSERT",
	INTO:      "INTO",
	VALUES:    "VALUES",
	CREATE:    "CREATE",
	TABLE:     "TABLE",
	UPDATE:    "UPDATE",
	DELETE:    "DELETE",
	SET:       "SET",
	ORDER:     "ORDER",
	BY:        "BY",
	LIMIT:     "LIMIT",
	AND:       "AND",
	OR:        "OR",
	INT:       "INT",
	VARCHAR:   "VARCHAR",
	BOOLEAN:   "BOOLEAN",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	EQ:        "=",
	NEQ:       "!=",
	LT:        "<",
	GT:        ">",
	LTE:       "<=",
	GTE:       ">=",
	COMMA:     ",",
	SEMICOLON: ";",
	LPAREN:    "(",
	RPAREN:    ")",
	ASTERISK:  "*",
	EOF:       "EOF",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// keywords maps the upper-cased spelling to its keyword kind.
var keywords = map[string]Kind{
	"SELECT":  SELECT,
	"FROM":    FROM,
	"WHERE":   WHERE,
	"INSERT":  INSERT,
	"INTO":    INTO,
	"VALUES":  VALUES,
	"CREATE":  CREATE,
	"TABLE":   TABLE,
	"UPDATE":  UPDATE,
	"DELETE":  DELETE,
	"SET":     SET,
	"ORDER":   ORDER,
	"BY":      BY,
	"LIMIT":   LIMIT,
	"AND":     AND,
	"OR":      OR,
	"INT":     INT,
	"VARCHAR": VARCHAR,
	"BOOLEAN": BOOLEAN,
	"TRUE":    TRUE,
	"FALSE":   FALSE,
}

// Token is a single lexical unit of a statement.
//
// Text holds the raw source spelling. Val holds the decoded value for
// literals: int64 or float64 for NUMBER, the unquoted content for STRING.
type Token struct {
	Kind Kind
	Text string
	Val  any
	Pos  int // rune offset into the input
}

// LexError reports a character that begins no valid token.
type LexError struct {
	Char rune
	Pos  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer: unexpected character %q at position %d", e.Char, e.Pos)
}
