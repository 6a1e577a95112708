// Package parser builds one statement AST from a token sequence by
// recursive descent, dispatching on the leading keyword.
package parser

import (
	"fmt"

	"github.com/tuannm99/topql/internal/sql/lexer"
)

// ParseError reports a grammar violation: the token kind the grammar
// required versus the kind actually found.
type ParseError struct {
	Expected lexer.Kind
	Found    lexer.Kind
	Pos      int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: expected %s, found %s at position %d", e.Expected, e.Found, e.Pos)
}

// Parser consumes a token sequence produced by the lexer. A Parser is
// single-use: one Parse call parses exactly one statement.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []lexer.Token{{Kind: lexer.EOF}}
	}
	return &Parser{tokens: tokens}
}

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, error) {
	tok := p.cur()
	if tok.Kind != kind {
		return lexer.Token{}, &ParseError{Expected: kind, Found: tok.Kind, Pos: tok.Pos}
	}
	p.advance()
	return tok, nil
}

// Parse dispatches on the first token. Tokens past the end of a complete
// statement (a trailing semicolon in particular) are ignored.
func (p *Parser) Parse() (Statement, error) {
	switch p.cur().Kind {
	case lexer.SELECT:
		return p.parseSelect()
	case lexer.INSERT:
		return p.parseInsert()
	case lexer.CREATE:
		return p.parseCreateTable()
	case lexer.UPDATE:
		return p.parseUpdate()
	case lexer.DELETE:
		return p.parseDelete()
	default:
		return nil, fmt.Errorf("parser: unexpected statement starting with %s", p.cur().Kind)
	}
}

func (p *Parser) parseCreateTable() (Statement, error) {
	if _, err := p.expect(lexer.CREATE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TABLE); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var cols []ColumnDef
	for p.cur().Kind != lexer.RPAREN {
		colName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}

		var colType string
		switch p.cur().Kind {
		case lexer.INT, lexer.VARCHAR, lexer.BOOLEAN:
			colType = p.cur().Kind.String()
			p.advance()
		default:
			return nil, fmt.Errorf("parser: expected data type, found %s", p.cur().Kind)
		}

		// VARCHAR(n): the size is parsed and discarded, not a constraint.
		if colType == "VARCHAR" && p.cur().Kind == lexer.LPAREN {
			p.advance()
			if _, err := p.expect(lexer.NUMBER); err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RPAREN); err != nil {
				return nil, err
			}
		}

		cols = append(cols, ColumnDef{Name: colName.Text, Type: colType})

		if p.cur().Kind == lexer.COMMA {
			p.advance()
		}
	}

	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &CreateTableStmt{TableName: name.Text, Columns: cols}, nil
}

func (p *Parser) parseInsert() (Statement, error) {
	if _, err := p.expect(lexer.INSERT); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.INTO); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	// Optional explicit column list.
	var cols []string
	if p.cur().Kind == lexer.LPAREN {
		p.advance()
		for p.cur().Kind != lexer.RPAREN {
			col, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col.Text)
			if p.cur().Kind == lexer.COMMA {
				p.advance()
			}
		}
		p.advance() // RPAREN
	}

	if _, err := p.expect(lexer.VALUES); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	var values []any
	for p.cur().Kind != lexer.RPAREN {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.cur().Kind == lexer.COMMA {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	return &InsertStmt{TableName: name.Text, Columns: cols, Values: values}, nil
}

func (p *Parser) parseSelect() (Statement, error) {
	if _, err := p.expect(lexer.SELECT); err != nil {
		return nil, err
	}

	var cols []string
	if p.cur().Kind == lexer.ASTERISK {
		cols = append(cols, "*")
		p.advance()
	} else {
		for {
			col, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			cols = append(cols, col.Text)
			if p.cur().Kind != lexer.COMMA {
				break
			}
			p.advance()
		}
	}

	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Columns: cols, TableName: name.Text, Limit: -1}

	if p.cur().Kind == lexer.WHERE {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.cur().Kind == lexer.ORDER {
		p.advance()
		if _, err := p.expect(lexer.BY); err != nil {
			return nil, err
		}
		col, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.OrderBy = col.Text
	}

	if p.cur().Kind == lexer.LIMIT {
		p.advance()
		num, err := p.expect(lexer.NUMBER)
		if err != nil {
			return nil, err
		}
		n, ok := num.Val.(int64)
		if !ok {
			return nil, fmt.Errorf("parser: LIMIT must be an integer, got %s", num.Text)
		}
		stmt.Limit = int(n)
	}

	return stmt, nil
}

func (p *Parser) parseUpdate() (Statement, error) {
	if _, err := p.expect(lexer.UPDATE); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SET); err != nil {
		return nil, err
	}

	var assigns []Assignment
	for {
		col, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.EQ); err != nil {
			return nil, err
		}
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, Assignment{Column: col.Text, Value: v})

		if p.cur().Kind != lexer.COMMA {
			break
		}
		p.advance()
	}

	stmt := &UpdateStmt{TableName: name.Text, Assignments: assigns}
	if p.cur().Kind == lexer.WHERE {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

func (p *Parser) parseDelete() (Statement, error) {
	if _, err := p.expect(lexer.DELETE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	stmt := &DeleteStmt{TableName: name.Text}
	if p.cur().Kind == lexer.WHERE {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}
	return stmt, nil
}

var operatorSpelling = map[lexer.Kind]string{
	lexer.EQ:  "=",
	lexer.NEQ: "!=",
	lexer.LT:  "<",
	lexer.GT:  ">",
	lexer.LTE: "<=",
	lexer.GTE: ">=",
}

// parseWhere parses "column op literal (AND|OR column op literal)*".
// Conditions and connectives come back as parallel flat lists; the
// connectives fold left to right with no precedence between AND and OR.
func (p *Parser) parseWhere() (*WhereClause, error) {
	if _, err := p.expect(lexer.WHERE); err != nil {
		return nil, err
	}

	w := &WhereClause{}
	for {
		col, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}

		op, ok := operatorSpelling[p.cur().Kind]
		if !ok {
			return nil, fmt.Errorf("parser: expected comparison operator, found %s", p.cur().Kind)
		}
		p.advance()

		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		w.Conditions = append(w.Conditions, Condition{Column: col.Text, Operator: op, Value: v})

		switch p.cur().Kind {
		case lexer.AND:
			w.Operators = append(w.Operators, OpAnd)
			p.advance()
		case lexer.OR:
			w.Operators = append(w.Operators, OpOr)
			p.advance()
		default:
			return w, nil
		}
	}
}

// parseLiteral accepts a number, string, TRUE or FALSE token.
func (p *Parser) parseLiteral() (any, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.NUMBER, lexer.STRING:
		p.advance()
		return tok.Val, nil
	case lexer.TRUE:
		p.advance()
		return true, nil
	case lexer.FALSE:
		p.advance()
		return false, nil
	default:
		return nil, fmt.Errorf("parser: unexpected value type %s", tok.Kind)
	}
}
