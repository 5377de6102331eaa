package tokenizer

import (
	"io"

	"github.com/kataks/rulex/machine"
)

// TypeInvalid tags a lexeme that never reached an accepting state.
const TypeInvalid = machine.TypeNone

// Token is one lexeme cut from the input. Row and Col are the 1-based
// position of the lexeme's first character. Negative types mark tokens the
// rule set deliberately classifies as malformed.
type Token struct {
	Type int
	Text string
	Row  int
	Col  int
}

// Tokenizer drives a machine over an input stream, cutting it into tokens
// with the longest-match policy: it keeps consuming while the machine has a
// transition and emits a token tagged with the last accept type seen.
type Tokenizer struct {
	machine   *machine.Machine
	ignored   map[int]struct{}
	numErrors uint
}

// New returns a tokenizer with an empty rule set.
func New() *Tokenizer {
	return NewWithMachine(machine.New())
}

// NewWithMachine wraps a previously built machine, typically one restored
// from a file.
func NewWithMachine(m *machine.Machine) *Tokenizer {
	return &Tokenizer{
		machine: m,
		ignored: map[int]struct{}{},
	}
}

// AddRule adds a token rule. Give malformed-superset rules a negative type so
// their tokens count as errors.
func (t *Tokenizer) AddRule(pattern string, typ int) error {
	return t.machine.AddRule(pattern, typ)
}

// AddSkipRule adds a rule whose tokens are dropped from the output.
func (t *Tokenizer) AddSkipRule(pattern string, typ int) error {
	err := t.machine.AddRule(pattern, typ)
	if err != nil {
		return err
	}
	t.IgnoreType(typ)
	return nil
}

// IgnoreType drops tokens of the given type from the output. Ignored tokens
// still advance the row and column counters.
func (t *Tokenizer) IgnoreType(typ int) {
	t.ignored[typ] = struct{}{}
}

// Machine returns the underlying machine.
func (t *Tokenizer) Machine() *machine.Machine {
	return t.machine
}

// Errors returns the number of error tokens seen by the last tokenize call.
func (t *Tokenizer) Errors() uint {
	return t.numErrors
}

// Tokenize reads src to the end and appends the recognized tokens. It returns
// true iff at least one error token was recorded; the error return is
// non-nil only when reading src fails.
func (t *Tokenizer) Tokenize(src io.Reader, tokens *[]Token) (bool, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return false, err
	}
	return t.tokenize(b, tokens), nil
}

// TokenizeString tokenizes src and appends the recognized tokens, returning
// true iff at least one error token was recorded.
func (t *Tokenizer) TokenizeString(src string, tokens *[]Token) bool {
	return t.tokenize([]byte(src), tokens)
}

func (t *Tokenizer) tokenize(src []byte, tokens *[]Token) bool {
	t.numErrors = 0
	row, col := 1, 1
	pos := 0
	for pos < len(src) {
		tokenRow, tokenCol := row, col
		begin := pos
		it := t.machine.Iterator()
		for pos < len(src) {
			it.Next(src[pos])
			if it.AtEnd() {
				break
			}
			if src[pos] == '\n' {
				row++
				col = 1
			} else {
				col++
			}
			pos++
		}

		if pos == begin {
			// Not even the first character has a transition. Consume it
			// anyway so unrecognized input cannot stall the loop.
			if src[pos] == '\n' {
				row++
				col = 1
			} else {
				col++
			}
			pos++
		}

		typ := it.Type()
		if _, ok := t.ignored[typ]; ok {
			continue
		}
		if typ < 0 {
			t.numErrors++
		}
		*tokens = append(*tokens, Token{
			Type: typ,
			Text: string(src[begin:pos]),
			Row:  tokenRow,
			Col:  tokenCol,
		})
	}
	return t.numErrors > 0
}
