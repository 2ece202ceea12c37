package scanner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/loopsim"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives an init function for
// regular expressions and a list of punctuators ('[', ';', "=>", …), which will
// be tokenized as Punct.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), punctuators []string) (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range punctuators {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeAction(Punct))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{
		scanner: s,
		Error:   logError,
		input:   input,
		lines:   loopsim.NewLineIndex(input),
	}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	input   string
	lines   *loopsim.LineIndex
	lastEnd int // end offset of the previous token
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface. Unconsumable input is reported
// to the error handler and skipped.
func (lms *LMScanner) NextToken() loopsim.Token {
	return lms.next()
}

func (lms *LMScanner) next() JSToken {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.Error(lms.lexError(ui))
			tc := ui.FailTC
			if tc <= ui.StartTC {
				tc = ui.StartTC + 1
			}
			lms.scanner.TC = tc
		} else if le, is := err.(*literalError); is {
			lms.Error(&LexError{
				Offset: le.at,
				Pos:    lms.lines.Position(le.at),
				Msg:    le.Error(),
			})
		} else {
			lms.Error(err)
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		end := len(lms.input)
		t := MakeToken(EOF, "", loopsim.Span{uint64(end), uint64(end)})
		t.Pos = lms.lines.Position(end)
		t.NewlineBefore = strings.ContainsRune(lms.input[lms.lastEnd:], '\n')
		tracer().Debugf("LMScanner reached end of input")
		return t
	}
	token := tok.(*lexmachine.Token)
	start := token.TC
	end := start + len(token.Lexeme)
	t := JSToken{
		kind:   loopsim.TokType(token.Type),
		lexeme: string(token.Lexeme),
		Val:    token.Value,
		span:   loopsim.Span{uint64(start), uint64(end)},
		Pos:    lms.lines.Position(start),
	}
	if start >= lms.lastEnd {
		t.NewlineBefore = strings.ContainsRune(lms.input[lms.lastEnd:start], '\n')
	}
	lms.lastEnd = end
	tracer().Debugf("token %s at %s", t, t.Pos)
	return t
}

func (lms *LMScanner) lexError(ui *machines.UnconsumedInput) *LexError {
	at := ui.StartTC
	msg := "unexpected character"
	if at < len(lms.input) {
		switch r, _ := utf8.DecodeRuneInString(lms.input[at:]); r {
		case '"', '\'', '`':
			msg = "unterminated string literal"
		default:
			msg = fmt.Sprintf("unexpected character %q", r)
		}
	}
	return &LexError{
		Offset: at,
		Pos:    lms.lines.Position(at),
		Msg:    msg,
	}
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeAction is a pre-defined action which wraps a scanned match into a token
// of category typ.
func MakeAction(typ loopsim.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}
