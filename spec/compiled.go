package spec

import (
	"fmt"

	"github.com/kataks/rulex/compressor"
	verr "github.com/kataks/rulex/error"
	"github.com/kataks/rulex/machine"
	"github.com/kataks/rulex/tokenizer"
)

// ColCount is the width of a flattened transition-table row. Transition keys
// are single bytes in 1..127; column 0 never holds a transition.
const ColCount = 128

const (
	// CompressionLevelMin doesn't compress the transition table at all.
	CompressionLevelMin = 0

	// CompressionLevelMax deduplicates the rows of the transition table and
	// packs the unique rows with the row-displacement scheme.
	CompressionLevelMax = 2
)

// CompiledSpec is the portable form of a compiled rule set.
type CompiledSpec struct {
	Name    string       `json:"name"`
	Kinds   []*KindSpec  `json:"kinds"`
	Machine *MachineSpec `json:"machine"`
}

// KindSpec names one token kind and its type tag.
type KindSpec struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	Skip bool   `json:"skip"`
}

// MachineSpec is a serialized machine. Exactly one transition representation
// is present, selected by CompressionLevel: the flattened table (level 0),
// deduplicated rows (level 1), or deduplicated rows packed by displacement
// (level 2).
type MachineSpec struct {
	StateCount       int   `json:"state_count"`
	CompressionLevel int   `json:"compression_level"`
	AcceptingTypes   []int `json:"accepting_types"`

	UncompressedTransition []int                         `json:"uncompressed_transition,omitempty"`
	RowNums                []int                         `json:"row_nums,omitempty"`
	UniqueRows             []int                         `json:"unique_rows,omitempty"`
	Displacement           *compressor.DisplacementTable `json:"displacement,omitempty"`
}

// Compile builds the machine for a rule set and serializes it at the given
// compression level.
func Compile(rs *RuleSet, compLv int) (*CompiledSpec, error) {
	if compLv < CompressionLevelMin || compLv > CompressionLevelMax {
		return nil, fmt.Errorf("compression level must be between %v and %v", CompressionLevelMin, CompressionLevelMax)
	}

	t := tokenizer.New()
	for _, e := range rs.Entries {
		err := t.AddRule(e.Pattern, e.Type)
		if err != nil {
			return nil, &verr.RuleError{
				Cause: err,
				Kind:  e.Kind,
				Row:   e.Row,
			}
		}
	}
	m := t.Machine()

	ms := &MachineSpec{
		StateCount:       m.StateCount(),
		CompressionLevel: compLv,
		AcceptingTypes:   acceptingTypes(m),
	}
	flat := flatten(m)
	switch compLv {
	case 0:
		ms.UncompressedTransition = flat
	case 1:
		ut, err := compressor.CompressUniqueRows(flat, ColCount)
		if err != nil {
			return nil, err
		}
		ms.RowNums = ut.RowNums
		ms.UniqueRows = ut.Entries
	case 2:
		ut, err := compressor.CompressUniqueRows(flat, ColCount)
		if err != nil {
			return nil, err
		}
		dt, err := compressor.CompressDisplacement(ut.Entries, ColCount, machine.StateDead)
		if err != nil {
			return nil, err
		}
		ms.RowNums = ut.RowNums
		ms.Displacement = dt
	}

	kinds := make([]*KindSpec, len(rs.Entries))
	for i, e := range rs.Entries {
		kinds[i] = &KindSpec{
			Name: e.Kind,
			Type: e.Type,
			Skip: e.Skip,
		}
	}

	return &CompiledSpec{
		Name:    rs.Name,
		Kinds:   kinds,
		Machine: ms,
	}, nil
}

// Tokenizer reconstructs a ready-to-run tokenizer, expanding the transition
// table and registering the skip kinds.
func (c *CompiledSpec) Tokenizer() (*tokenizer.Tokenizer, error) {
	m, err := c.Machine.machine()
	if err != nil {
		return nil, err
	}
	t := tokenizer.NewWithMachine(m)
	for _, k := range c.Kinds {
		if k.Skip {
			t.IgnoreType(k.Type)
		}
	}
	return t, nil
}

// KindName resolves a token type to its kind name. Unrecognized lexemes are
// reported as "invalid".
func (c *CompiledSpec) KindName(typ int) string {
	if typ == tokenizer.TypeInvalid {
		return "invalid"
	}
	for _, k := range c.Kinds {
		if k.Type == typ {
			return k.Name
		}
	}
	return ""
}

func (s *MachineSpec) machine() (*machine.Machine, error) {
	flat, err := s.expand()
	if err != nil {
		return nil, err
	}
	if len(s.AcceptingTypes) != s.StateCount {
		return nil, fmt.Errorf("accepting types must have one entry per state; states: %v, entries: %v", s.StateCount, len(s.AcceptingTypes))
	}
	rows := s.StateCount - 1
	transitions := make([]map[byte]int, rows)
	for state := 1; state <= rows; state++ {
		var tr map[byte]int
		for col := 1; col < ColCount; col++ {
			to := flat[state*ColCount+col]
			if to == machine.StateDead {
				continue
			}
			if tr == nil {
				tr = map[byte]int{}
			}
			tr[byte(col)] = to
		}
		transitions[state-1] = tr
	}
	return machine.NewFromTable(transitions, s.AcceptingTypes[1:])
}

func (s *MachineSpec) expand() ([]int, error) {
	if s.StateCount < 2 {
		return nil, fmt.Errorf("a machine must have at least the dead state and the start state")
	}
	switch s.CompressionLevel {
	case 0:
		if len(s.UncompressedTransition) != s.StateCount*ColCount {
			return nil, fmt.Errorf("transition table has the wrong size; want: %v, got: %v", s.StateCount*ColCount, len(s.UncompressedTransition))
		}
		return s.UncompressedTransition, nil
	case 1:
		if len(s.RowNums) != s.StateCount || len(s.UniqueRows)%ColCount != 0 {
			return nil, fmt.Errorf("unique-rows transition table has the wrong size")
		}
		ut := &compressor.UniqueRowsTable{
			Entries:  s.UniqueRows,
			RowNums:  s.RowNums,
			RowCount: s.StateCount,
			ColCount: ColCount,
		}
		return ut.Expand(), nil
	case 2:
		if s.Displacement == nil || len(s.RowNums) != s.StateCount {
			return nil, fmt.Errorf("displacement transition table has the wrong size")
		}
		ut := &compressor.UniqueRowsTable{
			Entries:  s.Displacement.Expand(),
			RowNums:  s.RowNums,
			RowCount: s.StateCount,
			ColCount: ColCount,
		}
		return ut.Expand(), nil
	}
	return nil, fmt.Errorf("unsupported compression level %v", s.CompressionLevel)
}

func flatten(m *machine.Machine) []int {
	flat := make([]int, m.StateCount()*ColCount)
	for state := 0; state < m.StateCount(); state++ {
		for col := 1; col < ColCount; col++ {
			flat[state*ColCount+col] = m.Next(state, byte(col))
		}
	}
	return flat
}

func acceptingTypes(m *machine.Machine) []int {
	types := make([]int, m.StateCount())
	for state := range types {
		types[state] = m.AcceptType(state)
	}
	return types
}
