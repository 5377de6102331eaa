package machine

import (
	"testing"
)

type rule struct {
	pattern string
	typ     int
}

var keywordPatterns = []string{
	"foobar",
	"fantastic",
	"funkalicious",
	"flubber",
	"erratic",
	"eric",
	"erroneous",
	"epic",
}

var intPatterns = []string{
	`0x[0-9a-fA-F]+`,
	`0b[01]+`,
	`0[0-7]*`,
	`-?[1-9][0-9]*`,
}

var assemblyPatterns = []string{
	`[a-zA-Z_][a-zA-Z0-9_]*`,
	`\.[a-z]+`,
	`$|(0x)[0-9a-fA-F]+`,
	`-?[1-9][0-9]*`,
	`0[0-7]*`,
	`0b[01]+`,
	`"((\\.)|[^\\"])*"`,
	`'((\\.)|[^\\'])'`,
	`\(`,
	`)`,
	`#`,
	`,`,
	`:`,
	`=`,
	";[^\n]*\n",
	`($|(0x)[0-9a-fA-F]+[g-zG-Z_]+)|(-?[1-9][0-9]*[a-zA-Z_]+)|(0[0-7]*[89ac-wyzA-Z_]+)|(0b[01]+[2-9a-zA-Z_]+)`,
	`"((\\.)|[^\\"])*`,
	`'((\\.)|[^\\'])((\\.)|[^\\'])+'`,
	`'((\\.)|[^\\'])`,
}

func TestAddRule(t *testing.T) {
	tests := []struct {
		caption  string
		patterns []string
	}{
		{
			caption:  "simple string",
			patterns: []string{"keyword"},
		},
		{
			caption:  "sequence group",
			patterns: []string{"(group)"},
		},
		{
			caption:  "bracket expression",
			patterns: []string{"[group]"},
		},
		{
			caption:  "quantifiers",
			patterns: []string{"a?b+c*"},
		},
		{
			caption:  "character class",
			patterns: []string{`\d`},
		},
		{
			caption:  "string pattern",
			patterns: []string{`"((\\.)|[^\\"])*"`},
		},
		{
			caption:  "multiple simple patterns",
			patterns: keywordPatterns,
		},
		{
			caption:  "multiple complex patterns",
			patterns: intPatterns,
		},
		{
			caption:  "assembly patterns",
			patterns: assemblyPatterns,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			m := New()
			for i, p := range tt.patterns {
				err := m.AddRule(p, i)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestAddRule_Errors(t *testing.T) {
	tests := []struct {
		caption string
		pattern string
	}{
		{
			caption: "empty pattern",
			pattern: "",
		},
		{
			caption: "unmatched bracket",
			pattern: "bad regex[",
		},
		{
			caption: "unmatched group",
			pattern: "bad regex(",
		},
		{
			caption: "trailing escape",
			pattern: `bad regex\`,
		},
		{
			caption: "bare quantifier",
			pattern: "*a",
		},
		{
			caption: "quantifier at start of group",
			pattern: "(?a)",
		},
		{
			caption: "empty group",
			pattern: "()",
		},
		{
			caption: "empty bracket expression",
			pattern: "[]",
		},
		{
			caption: "alternation without right operand",
			pattern: "a|",
		},
		{
			caption: "empty alternation branch",
			pattern: "a||b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			m := New()
			err := m.AddRule(tt.pattern, 5)
			if err == nil {
				t.Fatalf("expected error didn't occur")
			}
			if _, ok := err.(*CompileError); !ok {
				t.Fatalf("unexpected error type: %T", err)
			}
		})
	}
}

func TestAddRule_Idempotence(t *testing.T) {
	m := New()
	if err := m.AddRule("a?b+c*", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	states := m.StateCount()
	if err := m.AddRule("a?b+c*", 5); err != nil {
		t.Fatalf("adding the same rule twice must be a no-op; got: %v", err)
	}
	if m.StateCount() != states {
		t.Fatalf("adding the same rule twice must not create states; want: %v, got: %v", states, m.StateCount())
	}
}

func TestAddRule_TransitionConflict(t *testing.T) {
	m := New()
	if err := m.AddRule("ax", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddRule("bx", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Fanning x from the a-tail and the b-tail onto one shared state would
	// rewrite one of the transitions laid down above.
	if err := m.AddRule("(a|b)xy", 2); err == nil {
		t.Fatalf("expected error didn't occur")
	}
}

func TestAddRule_TypeConflict(t *testing.T) {
	m := New()
	if err := m.AddRule("same", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddRule("same", 2); err == nil {
		t.Fatalf("expected error didn't occur")
	}
}

func runIterator(m *Machine, src string) *Iterator {
	it := m.Iterator()
	for i := 0; i < len(src); i++ {
		it.Next(src[i])
	}
	return it
}

func TestIterator(t *testing.T) {
	tests := []struct {
		caption string
		rules   []rule
		src     string
		want    int
	}{
		{
			caption: "simple string",
			rules:   []rule{{"foobar", 5}},
			src:     "foobar",
			want:    5,
		},
		{
			caption: `\d`,
			rules:   []rule{{`\d`, 5}},
			src:     "6",
			want:    5,
		},
		{
			caption: `\w`,
			rules:   []rule{{`\w`, 5}},
			src:     "_",
			want:    5,
		},
		{
			caption: `\s`,
			rules:   []rule{{`\s`, 5}},
			src:     " ",
			want:    5,
		},
		{
			caption: `\l`,
			rules:   []rule{{`\l`, 5}},
			src:     "p",
			want:    5,
		},
		{
			caption: `\u`,
			rules:   []rule{{`\u`, 5}},
			src:     "P",
			want:    5,
		},
		{
			caption: `\h`,
			rules:   []rule{{`\h`, 5}},
			src:     "F",
			want:    5,
		},
		{
			caption: "? takes the optional path",
			rules:   []rule{{"a?b", 8}},
			src:     "ab",
			want:    8,
		},
		{
			caption: "? skips the optional path",
			rules:   []rule{{"a?b", 8}},
			src:     "b",
			want:    8,
		},
		{
			caption: "* takes many passes",
			rules:   []rule{{"a*b", 8}},
			src:     "aaaab",
			want:    8,
		},
		{
			caption: "* takes one pass",
			rules:   []rule{{"a*b", 8}},
			src:     "ab",
			want:    8,
		},
		{
			caption: "* takes no pass",
			rules:   []rule{{"a*b", 8}},
			src:     "b",
			want:    8,
		},
		{
			caption: "+ takes many passes",
			rules:   []rule{{"a+b", 8}},
			src:     "aaaab",
			want:    8,
		},
		{
			caption: "+ takes one pass",
			rules:   []rule{{"a+b", 8}},
			src:     "ab",
			want:    8,
		},
		{
			caption: "+ requires at least one pass",
			rules:   []rule{{"a+b", 8}},
			src:     "b",
			want:    TypeNone,
		},
		{
			caption: "bracket expression",
			rules:   []rule{{"[abc]", 5}},
			src:     "b ",
			want:    5,
		},
		{
			caption: "multiple bracket expressions",
			rules:   []rule{{"[abc][123][def]", 5}},
			src:     "b3d ",
			want:    5,
		},
		{
			caption: "bracket expression with a span",
			rules:   []rule{{"[a-z]", 5}},
			src:     "g ",
			want:    5,
		},
		{
			caption: "bracket expression with multiple spans",
			rules:   []rule{{"[a-zA-Z]", 5}},
			src:     "G ",
			want:    5,
		},
		{
			caption: "multiple span bracket expressions",
			rules:   []rule{{"[a-z][0-9][A-CT-Z]", 5}},
			src:     "l4U ",
			want:    5,
		},
		{
			caption: "negated bracket expression",
			rules:   []rule{{"[^abc]", 5}},
			src:     "d",
			want:    5,
		},
		{
			caption: "negated bracket expression rejects its members",
			rules:   []rule{{"[^abc]", 5}},
			src:     "a",
			want:    TypeNone,
		},
		{
			caption: "alternation of groups",
			rules:   []rule{{`$|(0x)[\h]+`, 7}},
			src:     "$fb",
			want:    7,
		},
		{
			caption: "string pattern",
			rules:   []rule{{`"((\\.)|[^\\"])*"`, 7}},
			src:     "\"Hey there, didn't\nnotice\tyou, \\\"FELLOW\\\"\" ",
			want:    7,
		},
		{
			caption: "string pattern with escapes and newlines",
			rules:   []rule{{`"((\\.)|[^\\"])*"`, 7}},
			src:     "\"Hi\n, \\tmy \\\\fellow companions!\"",
			want:    7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			m := New()
			for _, r := range tt.rules {
				err := m.AddRule(r.pattern, r.typ)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			it := runIterator(m, tt.src)
			if it.Type() != tt.want {
				t.Fatalf("unexpected type; want: %v, got: %v", tt.want, it.Type())
			}
		})
	}
}

func TestIterator_MultipleRules(t *testing.T) {
	t.Run("keywords", func(t *testing.T) {
		m, err := NewFromPatterns(keywordPatterns)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for want, kw := range keywordPatterns {
			it := runIterator(m, kw)
			if it.Type() != want {
				t.Fatalf("unexpected type for %v; want: %v, got: %v", kw, want, it.Type())
			}
		}
	})

	t.Run("integer patterns", func(t *testing.T) {
		m, err := NewFromPatterns(intPatterns)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		srcs := []string{
			"0x123abc ",
			"0b1010010010 ",
			"0572635 ",
			"-191837460 ",
		}
		for want, src := range srcs {
			it := runIterator(m, src)
			if it.Type() != want {
				t.Fatalf("unexpected type for %q; want: %v, got: %v", src, want, it.Type())
			}
		}
	})

	t.Run("escaped dot is distinct from classes", func(t *testing.T) {
		m, err := NewFromPatterns([]string{`[a-z]`, `[A-Z]`, `[0-9]`, `\.`})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		srcs := []string{"h", "U", "7", "."}
		for want, src := range srcs {
			it := runIterator(m, src)
			if it.Type() != want {
				t.Fatalf("unexpected type for %q; want: %v, got: %v", src, want, it.Type())
			}
		}
	})
}

func TestIterator_DeadStateIsSticky(t *testing.T) {
	m := New()
	if err := m.AddRule("ab", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := m.Iterator()
	it.Next('a')
	if it.AtEnd() {
		t.Fatalf("iterator must not be at the end after a valid prefix")
	}
	it.Next('x')
	if !it.AtEnd() {
		t.Fatalf("iterator must be at the end after an invalid character")
	}
	it.Next('b')
	if !it.AtEnd() {
		t.Fatalf("the dead state must be sticky")
	}
}

func TestInvariants(t *testing.T) {
	machines := map[string]*Machine{}
	{
		m, err := NewFromPatterns(assemblyPatterns)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		machines["assembly"] = m
	}
	{
		m, err := NewFromPatterns(keywordPatterns)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		machines["keywords"] = m
	}
	for caption, m := range machines {
		t.Run(caption, func(t *testing.T) {
			if m.AcceptType(StateDead) != TypeNone {
				t.Fatalf("the dead state must not accept")
			}
			if m.AcceptType(StateStart) != TypeNone {
				t.Fatalf("the start state must not accept")
			}
			if m.TransitionCount(StateDead) != 0 {
				t.Fatalf("the dead state must have no transitions")
			}
			for state := 0; state < m.StateCount(); state++ {
				for c := 1; c < 128; c++ {
					if m.Next(state, byte(c)) == StateStart {
						t.Fatalf("no transition may target the start state; state: %v, char: %q", state, string(rune(c)))
					}
				}
			}
		})
	}
}
