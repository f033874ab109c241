package css

import (
	"fmt"
	"strings"

	"github.com/quiverhq/domtree/dom"
)

// Selector is a compiled selector: a list of complex selectors separated
// by commas in the source text. It is immutable once built and safe to
// reuse across queries and documents.
type Selector struct {
	Complex []*ComplexSelector
}

// ComplexSelector is a chain of compound selectors joined by combinators.
type ComplexSelector struct {
	Compounds []*CompoundSelector
}

// CompoundSelector is one unit of a query: a sequence of simple-selector
// tests with no combinator inside it, plus the combinator that joins it
// to the next compound in the chain.
type CompoundSelector struct {
	Type       string // "" when absent, "*" for the universal selector
	IDs        []string
	Classes    []string
	Attrs      []*AttrMatcher
	Pseudos    []*PseudoClass
	Combinator Combinator // combinator following this compound
}

// Combinator joins two compound selectors.
type Combinator int

const (
	CombinatorNone              Combinator = iota
	CombinatorDescendant                   // whitespace
	CombinatorChild                        // >
	CombinatorNextSibling                  // +
	CombinatorSubsequentSibling            // ~
)

func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorSubsequentSibling:
		return "~"
	default:
		return ""
	}
}

// AttrMatcher is an attribute test.
type AttrMatcher struct {
	Name            string
	Op              AttrOp
	Value           string
	CaseInsensitive bool
}

// AttrOp is the operator of an attribute test.
type AttrOp int

const (
	AttrExists    AttrOp = iota // [attr]
	AttrEquals                  // [attr=value]
	AttrIncludes                // [attr~=value]
	AttrDashMatch               // [attr|=value]
	AttrPrefix                  // [attr^=value]
	AttrSuffix                  // [attr$=value]
	AttrSubstring               // [attr*=value]
)

// PseudoClass is a pseudo-class test. Selector-taking pseudo-classes
// (:not, :is, :where, :has) carry a compiled inner selector; the rest
// carry their raw argument text, if any.
type PseudoClass struct {
	Name     string
	Argument string
	Selector *Selector
}

// Compile tokenizes and parses selector text into a compiled selector.
// Malformed text returns a SyntaxError and no partial result.
func Compile(input string) (*Selector, error) {
	tokens := NewTokenizer(input).TokenizeAll()
	p := &parser{tokens: tokens}
	sel, err := p.parseSelector()
	if err != nil {
		return nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, syntaxErr("unexpected %s", p.current())
	}
	return sel, nil
}

// MustCompile is Compile that panics on malformed input, for selectors
// known valid at compile time.
func MustCompile(input string) *Selector {
	sel, err := Compile(input)
	if err != nil {
		panic(fmt.Sprintf("css: MustCompile(%q): %v", input, err))
	}
	return sel
}

func syntaxErr(format string, args ...interface{}) error {
	return dom.ErrSyntax(fmt.Sprintf(format, args...))
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(offset int) Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) || pos < 0 {
		return Token{Type: TokenEOF}
	}
	return p.tokens[pos]
}

func (p *parser) consume() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) skipWhitespace() bool {
	skipped := false
	for p.current().Type == TokenWhitespace {
		p.consume()
		skipped = true
	}
	return skipped
}

// parseSelector parses a comma-separated selector list.
func (p *parser) parseSelector() (*Selector, error) {
	sel := &Selector{}

	p.skipWhitespace()
	for {
		complex, err := p.parseComplexSelector()
		if err != nil {
			return nil, err
		}
		if complex == nil {
			return nil, syntaxErr("expected a selector, got %s", p.current())
		}
		sel.Complex = append(sel.Complex, complex)

		p.skipWhitespace()
		if p.current().Type == TokenComma {
			p.consume()
			p.skipWhitespace()
			continue
		}
		break
	}

	return sel, nil
}

// parseComplexSelector parses a chain of compound selectors. Whitespace
// between compounds is the descendant combinator; explicit combinators
// override it.
func (p *parser) parseComplexSelector() (*ComplexSelector, error) {
	complex := &ComplexSelector{}

	for {
		compound, err := p.parseCompoundSelector()
		if err != nil {
			return nil, err
		}
		if compound == nil {
			if len(complex.Compounds) > 0 {
				// A combinator was consumed but nothing followed it.
				return nil, syntaxErr("dangling combinator")
			}
			return nil, nil
		}
		complex.Compounds = append(complex.Compounds, compound)

		hadWhitespace := p.skipWhitespace()
		tok := p.current()

		if tok.Type == TokenDelim {
			switch tok.Delim {
			case '>':
				p.consume()
				compound.Combinator = CombinatorChild
				p.skipWhitespace()
				continue
			case '+':
				p.consume()
				compound.Combinator = CombinatorNextSibling
				p.skipWhitespace()
				continue
			case '~':
				p.consume()
				compound.Combinator = CombinatorSubsequentSibling
				p.skipWhitespace()
				continue
			}
		}
		if tok.Type == TokenEOF || tok.Type == TokenComma || tok.Type == TokenCloseParen {
			return complex, nil
		}
		if hadWhitespace {
			compound.Combinator = CombinatorDescendant
			continue
		}
		return complex, nil
	}
}

// parseCompoundSelector parses a sequence of simple selectors with no
// separating whitespace. Returns nil when the current token cannot start
// a compound selector.
func (p *parser) parseCompoundSelector() (*CompoundSelector, error) {
	compound := &CompoundSelector{}
	hasContent := false

	// Type or universal selector comes first if present.
	tok := p.current()
	if tok.Type == TokenIdent {
		compound.Type = strings.ToLower(p.consume().Value)
		hasContent = true
	} else if tok.Type == TokenDelim && tok.Delim == '*' {
		p.consume()
		compound.Type = "*"
		hasContent = true
	}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenHash:
			if tok.HashType != HashID {
				return nil, syntaxErr("invalid id selector #%s", tok.Value)
			}
			p.consume()
			compound.IDs = append(compound.IDs, tok.Value)
			hasContent = true

		case TokenDelim:
			if tok.Delim != '.' {
				goto done
			}
			p.consume()
			if p.current().Type != TokenIdent {
				return nil, syntaxErr("expected a class name after '.'")
			}
			compound.Classes = append(compound.Classes, p.consume().Value)
			hasContent = true

		case TokenColon:
			p.consume()
			if p.current().Type == TokenColon {
				return nil, syntaxErr("pseudo-elements are not supported")
			}
			pc, err := p.parsePseudoClass()
			if err != nil {
				return nil, err
			}
			compound.Pseudos = append(compound.Pseudos, pc)
			hasContent = true

		case TokenOpenSquare:
			attr, err := p.parseAttrMatcher()
			if err != nil {
				return nil, err
			}
			compound.Attrs = append(compound.Attrs, attr)
			hasContent = true

		case TokenBadString:
			return nil, syntaxErr("unterminated string")

		default:
			goto done
		}
	}

done:
	if !hasContent {
		return nil, nil
	}
	return compound, nil
}

// parseAttrMatcher parses an attribute test after the opening bracket.
func (p *parser) parseAttrMatcher() (*AttrMatcher, error) {
	p.consume() // [
	attr := &AttrMatcher{}

	p.skipWhitespace()
	if p.current().Type != TokenIdent {
		return nil, syntaxErr("expected an attribute name, got %s", p.current())
	}
	attr.Name = strings.ToLower(p.consume().Value)
	p.skipWhitespace()

	tok := p.current()
	if tok.Type == TokenCloseSquare {
		p.consume()
		attr.Op = AttrExists
		return attr, nil
	}

	if tok.Type != TokenDelim {
		return nil, syntaxErr("expected an attribute operator, got %s", tok)
	}
	switch tok.Delim {
	case '=':
		p.consume()
		attr.Op = AttrEquals
	case '~', '|', '^', '$', '*':
		p.consume()
		next := p.current()
		if next.Type != TokenDelim || next.Delim != '=' {
			return nil, syntaxErr("expected '=' after %q", string(tok.Delim))
		}
		p.consume()
		switch tok.Delim {
		case '~':
			attr.Op = AttrIncludes
		case '|':
			attr.Op = AttrDashMatch
		case '^':
			attr.Op = AttrPrefix
		case '$':
			attr.Op = AttrSuffix
		case '*':
			attr.Op = AttrSubstring
		}
	default:
		return nil, syntaxErr("unexpected %q in attribute selector", string(tok.Delim))
	}

	p.skipWhitespace()
	tok = p.current()
	switch tok.Type {
	case TokenString, TokenIdent:
		attr.Value = p.consume().Value
	case TokenBadString:
		return nil, syntaxErr("unterminated string in attribute selector")
	default:
		return nil, syntaxErr("expected an attribute value, got %s", tok)
	}

	p.skipWhitespace()
	if tok := p.current(); tok.Type == TokenIdent && len(tok.Value) == 1 {
		switch tok.Value {
		case "i", "I":
			attr.CaseInsensitive = true
			p.consume()
			p.skipWhitespace()
		case "s", "S":
			p.consume()
			p.skipWhitespace()
		}
	}

	if p.current().Type != TokenCloseSquare {
		return nil, syntaxErr("unterminated attribute selector")
	}
	p.consume()
	return attr, nil
}

// parsePseudoClass parses a pseudo-class after the colon.
func (p *parser) parsePseudoClass() (*PseudoClass, error) {
	pc := &PseudoClass{}

	tok := p.current()
	switch tok.Type {
	case TokenIdent:
		pc.Name = strings.ToLower(p.consume().Value)
		return pc, nil

	case TokenFunction:
		pc.Name = strings.ToLower(p.consume().Value)
		p.skipWhitespace()

		switch pc.Name {
		case "not", "is", "where", "has":
			inner, err := p.parseSelector()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			if p.current().Type != TokenCloseParen {
				return nil, syntaxErr("unterminated :%s()", pc.Name)
			}
			p.consume()
			pc.Selector = inner
			return pc, nil

		default:
			arg, err := p.consumeRawArgument()
			if err != nil {
				return nil, err
			}
			pc.Argument = arg
			return pc, nil
		}

	default:
		return nil, syntaxErr("expected a pseudo-class name, got %s", tok)
	}
}

// consumeRawArgument consumes the textual argument of a functional
// pseudo-class like :nth-child(2n+1) up to the balancing parenthesis.
func (p *parser) consumeRawArgument() (string, error) {
	var sb strings.Builder
	depth := 1
	for {
		tok := p.current()
		switch tok.Type {
		case TokenEOF:
			return "", syntaxErr("unterminated pseudo-class argument")
		case TokenOpenParen:
			depth++
			sb.WriteByte('(')
		case TokenCloseParen:
			depth--
			if depth == 0 {
				p.consume()
				return strings.TrimSpace(sb.String()), nil
			}
			sb.WriteByte(')')
		case TokenWhitespace:
			sb.WriteByte(' ')
		case TokenIdent, TokenNumber, TokenString:
			sb.WriteString(tok.Value)
		case TokenDimension:
			sb.WriteString(tok.Value)
			sb.WriteString(tok.Unit)
		case TokenDelim:
			sb.WriteRune(tok.Delim)
		case TokenBadString:
			return "", syntaxErr("unterminated string")
		}
		p.consume()
	}
}

// String reassembles an approximate textual form of the selector, for
// diagnostics.
func (s *Selector) String() string {
	parts := make([]string, len(s.Complex))
	for i, cs := range s.Complex {
		parts[i] = cs.String()
	}
	return strings.Join(parts, ", ")
}

func (cs *ComplexSelector) String() string {
	var sb strings.Builder
	for i, c := range cs.Compounds {
		if i > 0 {
			prev := cs.Compounds[i-1].Combinator
			if prev == CombinatorDescendant {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(' ')
				sb.WriteString(prev.String())
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

func (c *CompoundSelector) String() string {
	var sb strings.Builder
	sb.WriteString(c.Type)
	for _, id := range c.IDs {
		sb.WriteByte('#')
		sb.WriteString(id)
	}
	for _, class := range c.Classes {
		sb.WriteByte('.')
		sb.WriteString(class)
	}
	for _, a := range c.Attrs {
		sb.WriteByte('[')
		sb.WriteString(a.Name)
		sb.WriteByte(']')
	}
	for _, pc := range c.Pseudos {
		sb.WriteByte(':')
		sb.WriteString(pc.Name)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}
