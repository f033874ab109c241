package css

import "testing"

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizer_SimpleSelector(t *testing.T) {
	tokens := NewTokenizer("div.note#main").TokenizeAll()

	want := []struct {
		typ   TokenType
		value string
		delim rune
	}{
		{TokenIdent, "div", 0},
		{TokenDelim, "", '.'},
		{TokenIdent, "note", 0},
		{TokenHash, "main", 0},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ {
			t.Errorf("token %d: expected type %v, got %v", i, w.typ, tokens[i].Type)
		}
		if tokens[i].Value != w.value {
			t.Errorf("token %d: expected value %q, got %q", i, w.value, tokens[i].Value)
		}
		if tokens[i].Delim != w.delim {
			t.Errorf("token %d: expected delim %q, got %q", i, w.delim, tokens[i].Delim)
		}
	}
	if tokens[3].HashType != HashID {
		t.Error("#main should be an id-typed hash")
	}
}

func TestTokenizer_HashNotIdent(t *testing.T) {
	tokens := NewTokenizer("#123").TokenizeAll()
	if len(tokens) != 1 || tokens[0].Type != TokenHash {
		t.Fatalf("expected one hash token, got %v", tokens)
	}
	if tokens[0].HashType == HashID {
		t.Error("#123 does not start an identifier and must be unrestricted")
	}
}

func TestTokenizer_WhitespaceRuns(t *testing.T) {
	tokens := NewTokenizer("a \t\n b").TokenizeAll()
	got := tokenTypes(tokens)
	want := []TokenType{TokenIdent, TokenWhitespace, TokenIdent}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTokenizer_Strings(t *testing.T) {
	t.Run("double quoted", func(t *testing.T) {
		tokens := NewTokenizer(`"hello world"`).TokenizeAll()
		if len(tokens) != 1 || tokens[0].Type != TokenString || tokens[0].Value != "hello world" {
			t.Errorf("got %v", tokens)
		}
	})
	t.Run("single quoted", func(t *testing.T) {
		tokens := NewTokenizer(`'it'`).TokenizeAll()
		if len(tokens) != 1 || tokens[0].Type != TokenString || tokens[0].Value != "it" {
			t.Errorf("got %v", tokens)
		}
	})
	t.Run("escaped quote", func(t *testing.T) {
		tokens := NewTokenizer(`"a\"b"`).TokenizeAll()
		if len(tokens) != 1 || tokens[0].Value != `a"b` {
			t.Errorf("got %v", tokens)
		}
	})
	t.Run("unterminated", func(t *testing.T) {
		tokens := NewTokenizer(`"open`).TokenizeAll()
		if len(tokens) != 1 || tokens[0].Type != TokenBadString {
			t.Errorf("expected a bad-string token, got %v", tokens)
		}
	})
	t.Run("newline terminates badly", func(t *testing.T) {
		tokens := NewTokenizer("\"a\nb\"").TokenizeAll()
		if tokens[0].Type != TokenBadString {
			t.Errorf("a raw newline inside a string must yield bad-string, got %v", tokens[0])
		}
	})
}

func TestTokenizer_HexEscapes(t *testing.T) {
	tokens := NewTokenizer(`\41 b`).TokenizeAll()
	if len(tokens) != 1 || tokens[0].Type != TokenIdent {
		t.Fatalf("expected one ident, got %v", tokens)
	}
	// \41 is 'A'; the single space after a hex escape belongs to it.
	if tokens[0].Value != "Ab" {
		t.Errorf("expected 'Ab', got %q", tokens[0].Value)
	}
}

func TestTokenizer_Function(t *testing.T) {
	tokens := NewTokenizer("nth-child(2n+1)").TokenizeAll()
	if tokens[0].Type != TokenFunction || tokens[0].Value != "nth-child" {
		t.Fatalf("expected a function token, got %v", tokens[0])
	}
	// 2n lexes as a dimension with unit "n".
	if tokens[1].Type != TokenDimension || tokens[1].Value != "2" || tokens[1].Unit != "n" {
		t.Errorf("expected dimension 2n, got %v", tokens[1])
	}
	if tokens[2].Type != TokenNumber || tokens[2].Value != "+1" {
		t.Errorf("expected number +1, got %v", tokens[2])
	}
	if tokens[3].Type != TokenCloseParen {
		t.Errorf("expected close paren, got %v", tokens[3])
	}
}

func TestTokenizer_CommentsSkipped(t *testing.T) {
	tokens := NewTokenizer("a/* comment */b").TokenizeAll()
	got := tokenTypes(tokens)
	if len(got) != 2 || got[0] != TokenIdent || got[1] != TokenIdent {
		t.Errorf("comments must vanish between tokens, got %v", tokens)
	}

	tokens = NewTokenizer("a/* open").TokenizeAll()
	if len(tokens) != 1 {
		t.Errorf("an unterminated comment swallows the rest, got %v", tokens)
	}
}

func TestTokenizer_DashIdents(t *testing.T) {
	tokens := NewTokenizer("-custom --var").TokenizeAll()
	if tokens[0].Type != TokenIdent || tokens[0].Value != "-custom" {
		t.Errorf("-custom should lex as one ident, got %v", tokens[0])
	}
	if tokens[2].Type != TokenIdent || tokens[2].Value != "--var" {
		t.Errorf("--var should lex as one ident, got %v", tokens[2])
	}

	tokens = NewTokenizer("a - b").TokenizeAll()
	if tokens[2].Type != TokenDelim || tokens[2].Delim != '-' {
		t.Errorf("a lone hyphen is a delim, got %v", tokens[2])
	}
}

func TestTokenizer_Punctuation(t *testing.T) {
	tokens := NewTokenizer("[a], (b): >").TokenizeAll()
	want := []TokenType{
		TokenOpenSquare, TokenIdent, TokenCloseSquare, TokenComma,
		TokenWhitespace, TokenOpenParen, TokenIdent, TokenCloseParen,
		TokenColon, TokenWhitespace, TokenDelim,
	}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), tokens)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if last := tokens[len(tokens)-1]; last.Delim != '>' {
		t.Errorf("expected '>' delim, got %q", last.Delim)
	}
}

func TestTokenizer_Positions(t *testing.T) {
	tokens := NewTokenizer("ab cd").TokenizeAll()
	if tokens[0].Pos != 0 || tokens[1].Pos != 2 || tokens[2].Pos != 3 {
		t.Errorf("byte offsets wrong: %v", tokens)
	}
}
