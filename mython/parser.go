package mython

import (
	"fmt"
	"strconv"
)

type parseError struct {
	pos Position
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

// parser is a recursive-descent parser over the lexer's Current/Next
// interface. Class names are resolved while parsing, so an instantiation
// site binds directly to its *Class and base classes must be defined
// before they are inherited from.
type parser struct {
	lex *Lexer

	cur  Token
	peek Token

	classes map[string]*Class
}

func newParser(input string, classes map[string]*Class) *parser {
	lex := NewLexer(input)
	if classes == nil {
		classes = make(map[string]*Class)
	}
	p := &parser{lex: lex, classes: classes}
	p.cur = lex.Current()
	p.peek = lex.Next()
	return p
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *parser) errorf(pos Position, format string, args ...any) error {
	return &parseError{pos: pos, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(tt TokenType) error {
	if p.cur.Type != tt {
		return p.errorf(p.cur.Pos, "expected %s, found %s", tt, describeToken(p.cur))
	}
	p.advance()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	if p.cur.Type != tokenIdent {
		return "", p.errorf(p.cur.Pos, "expected identifier, found %s", describeToken(p.cur))
	}
	name := p.cur.Literal
	p.advance()
	return name, nil
}

func describeToken(tok Token) string {
	if tok.Literal != "" {
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return string(tok.Type)
}

func (p *parser) parseProgram() ([]Statement, error) {
	var stmts []Statement
	for p.cur.Type != tokenEOF {
		if p.cur.Type == tokenNewline {
			p.advance()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur.Type {
	case tokenClass:
		return p.parseClassDefinition()
	case tokenIf:
		return p.parseIf()
	case tokenPrint:
		return p.parsePrint()
	case tokenReturn:
		return p.parseReturn()
	case tokenDef:
		return nil, p.errorf(p.cur.Pos, "method definitions are only allowed inside a class body")
	case tokenIndent, tokenDedent:
		return nil, p.errorf(p.cur.Pos, "unexpected change of indentation")
	default:
		return p.parseSimpleStatement()
	}
}

func (p *parser) endStatement() error {
	if p.cur.Type == tokenEOF {
		return nil
	}
	return p.expect(tokenNewline)
}

func (p *parser) parseSimpleStatement() (Statement, error) {
	pos := p.cur.Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur.Type == tokenAssign {
		target, ok := expr.(*VariableValue)
		if !ok {
			return nil, p.errorf(pos, "left side of assignment must be a name or a field")
		}
		p.advance()
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		if len(target.Path) == 1 {
			return &Assignment{Name: target.Path[0], Value: rhs, position: pos}, nil
		}
		object := &VariableValue{Path: target.Path[:len(target.Path)-1], position: target.position}
		return &FieldAssignment{
			Object:   object,
			Field:    target.Path[len(target.Path)-1],
			Value:    rhs,
			position: pos,
		}, nil
	}

	if err := p.endStatement(); err != nil {
		return nil, err
	}
	if stmt, ok := expr.(Statement); ok {
		return stmt, nil
	}
	return &ExprStmt{Expr: expr, position: pos}, nil
}

func (p *parser) parsePrint() (Statement, error) {
	pos := p.cur.Pos
	p.advance()

	var args []Expression
	if p.cur.Type != tokenNewline && p.cur.Type != tokenEOF {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type != tokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return &PrintStmt{Args: args, position: pos}, nil
}

func (p *parser) parseReturn() (Statement, error) {
	pos := p.cur.Pos
	p.advance()

	if p.cur.Type == tokenNewline || p.cur.Type == tokenEOF {
		if err := p.endStatement(); err != nil {
			return nil, err
		}
		return &ReturnStmt{position: pos}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.endStatement(); err != nil {
		return nil, err
	}
	return &ReturnStmt{Value: value, position: pos}, nil
}

func (p *parser) parseIf() (Statement, error) {
	pos := p.cur.Pos
	p.advance()

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var alt Statement
	if p.cur.Type == tokenElse {
		p.advance()
		alt, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &IfElseStmt{Condition: cond, Then: then, Else: alt, position: pos}, nil
}

// parseSuite parses `: NEWLINE INDENT statement+ DEDENT` into a Compound.
func (p *parser) parseSuite() (*Compound, error) {
	pos := p.cur.Pos
	if err := p.expect(tokenColon); err != nil {
		return nil, err
	}
	if err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.expect(tokenIndent); err != nil {
		return nil, err
	}

	var stmts []Statement
	for p.cur.Type != tokenDedent {
		if p.cur.Type == tokenNewline {
			p.advance()
			continue
		}
		if p.cur.Type == tokenEOF {
			return nil, p.errorf(p.cur.Pos, "unexpected end of input inside an indented block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.advance()

	if len(stmts) == 0 {
		return nil, p.errorf(pos, "indented block cannot be empty")
	}
	return &Compound{Statements: stmts, position: pos}, nil
}

func (p *parser) parseClassDefinition() (Statement, error) {
	pos := p.cur.Pos
	p.advance()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var parent *Class
	if p.cur.Type == tokenLParen {
		p.advance()
		parentName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		parent = p.classes[parentName]
		if parent == nil {
			return nil, p.errorf(pos, "base class %s is not defined", parentName)
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
	}

	class := &Class{Name: name, Parent: parent}
	p.classes[name] = class

	if err := p.expect(tokenColon); err != nil {
		return nil, err
	}
	if err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	if err := p.expect(tokenIndent); err != nil {
		return nil, err
	}

	for p.cur.Type != tokenDedent {
		if p.cur.Type == tokenNewline {
			p.advance()
			continue
		}
		if p.cur.Type != tokenDef {
			return nil, p.errorf(p.cur.Pos, "expected a method definition in class %s, found %s", name, describeToken(p.cur))
		}
		method, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, method)
	}
	p.advance()

	return &ClassDefinition{Class: class, position: pos}, nil
}

func (p *parser) parseMethod() (*Method, error) {
	pos := p.cur.Pos
	p.advance()

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokenLParen); err != nil {
		return nil, err
	}

	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if first != "self" {
		return nil, p.errorf(pos, "first parameter of method %s must be self", name)
	}

	var params []string
	for p.cur.Type == tokenComma {
		p.advance()
		param, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}

	body, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &Method{
		Name:         name,
		FormalParams: params,
		Body:         &MethodBody{Body: body, position: pos},
	}, nil
}

func (p *parser) parseExpression() (Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == tokenOr {
		pos := p.cur.Pos
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tokenOr, Left: left, Right: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == tokenAnd {
		pos := p.cur.Pos
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: tokenAnd, Left: left, Right: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseNot() (Expression, error) {
	if p.cur.Type == tokenNot {
		pos := p.cur.Pos
		p.advance()
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Arg: arg, position: pos}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch p.cur.Type {
	case tokenEQ, tokenNotEQ, tokenLT, tokenGT, tokenLTE, tokenGTE:
		op := p.cur.Type
		pos := p.cur.Pos
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{Op: op, Left: left, Right: right, position: pos}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expression, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == tokenPlus || p.cur.Type == tokenMinus {
		op := p.cur.Type
		pos := p.cur.Pos
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseTerm() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == tokenAsterisk || p.cur.Type == tokenSlash {
		op := p.cur.Type
		pos := p.cur.Pos
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expression, error) {
	if p.cur.Type == tokenMinus {
		pos := p.cur.Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{
			Op:       tokenMinus,
			Left:     &NumberLiteral{position: pos},
			Right:    operand,
			position: pos,
		}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.cur.Type == tokenDot {
		pos := p.cur.Pos
		p.advance()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if p.cur.Type == tokenLParen {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &MethodCallExpr{Object: expr, Method: name, Args: args, position: pos}
			continue
		}

		target, ok := expr.(*VariableValue)
		if !ok {
			return nil, p.errorf(pos, "expected a method call after .%s", name)
		}
		target.Path = append(target.Path, name)
	}
	return expr, nil
}

func (p *parser) parsePrimary() (Expression, error) {
	pos := p.cur.Pos

	switch p.cur.Type {
	case tokenNumber:
		n, err := strconv.ParseInt(p.cur.Literal, 10, 64)
		if err != nil {
			return nil, p.errorf(pos, "invalid number literal %s", p.cur.Literal)
		}
		p.advance()
		return &NumberLiteral{Value: n, position: pos}, nil

	case tokenString:
		s := p.cur.Literal
		p.advance()
		return &StringLiteral{Value: s, position: pos}, nil

	case tokenTrue:
		p.advance()
		return &BoolLiteral{Value: true, position: pos}, nil

	case tokenFalse:
		p.advance()
		return &BoolLiteral{position: pos}, nil

	case tokenNone:
		p.advance()
		return &NoneLiteral{position: pos}, nil

	case tokenLParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return expr, nil

	case tokenIdent:
		name := p.cur.Literal
		p.advance()

		if p.cur.Type == tokenLParen {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			if name == "str" {
				if len(args) != 1 {
					return nil, p.errorf(pos, "str expects exactly one argument")
				}
				return &StringifyExpr{Arg: args[0], position: pos}, nil
			}
			class := p.classes[name]
			if class == nil {
				return nil, p.errorf(pos, "class %s is not defined", name)
			}
			return &NewInstanceExpr{Class: class, Args: args, position: pos}, nil
		}
		return &VariableValue{Path: []string{name}, position: pos}, nil
	}

	return nil, p.errorf(pos, "unexpected %s", describeToken(p.cur))
}

func (p *parser) parseCallArgs() ([]Expression, error) {
	if err := p.expect(tokenLParen); err != nil {
		return nil, err
	}
	var args []Expression
	if p.cur.Type != tokenRParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur.Type != tokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}
