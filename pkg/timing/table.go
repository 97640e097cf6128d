package timing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oisee/gbtiming/pkg/inst"
)

// Validation failures reported by NewTable and Validate.
var (
	ErrZeroEntry      = errors.New("zero cycle entry")
	ErrNotMultipleOf4 = errors.New("cycle entry is not a multiple of 4")
	ErrBranchMismatch = errors.New("unconditional opcode differs between taken and not-taken")
	ErrBranchCost     = errors.New("conditional opcode is not more expensive when taken")
)

// Table holds the unprefixed cycle costs for both branch outcomes. A Table
// cannot be changed once constructed.
type Table struct {
	taken    [256]Cycles
	notTaken [256]Cycles
}

// NewTable copies and validates a pair of cycle tables. Both tables must come
// from the same authoring source; entries are checked in lockstep.
func NewTable(taken, notTaken [256]Cycles) (*Table, error) {
	t := &Table{taken: taken, notTaken: notTaken}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Taken returns the cost of op when its condition was met.
func (t *Table) Taken(op uint8) Cycles {
	return t.taken[op]
}

// NotTaken returns the cost of op when its condition was not met.
func (t *Table) NotTaken(op uint8) Cycles {
	return t.notTaken[op]
}

// Arrays returns copies of both tables.
func (t *Table) Arrays() (taken, notTaken [256]Cycles) {
	return t.taken, t.notTaken
}

// Cycles returns the cost of an instruction against this table. Total over
// every prefix, opcode and outcome.
func (t *Table) Cycles(prefix, opcode uint8, taken bool) Cycles {
	if prefix == PrefixCB {
		return PrefixedCycles(opcode)
	}
	if taken {
		return t.taken[opcode]
	}
	return t.notTaken[opcode]
}

// Equal returns true if both tables hold identical entries.
func (t *Table) Equal(o *Table) bool {
	return t.taken == o.taken && t.notTaken == o.notTaken
}

// Validate checks every entry of both tables. All failures are reported,
// joined into a single error.
func (t *Table) Validate() error {
	var errs []error
	for i := 0; i < 256; i++ {
		op := uint8(i)
		tk, nt := t.taken[op], t.notTaken[op]

		for _, c := range [2]struct {
			name string
			v    Cycles
		}{{"taken", tk}, {"not-taken", nt}} {
			if c.v == 0 {
				errs = append(errs, fmt.Errorf("%w: opcode 0x%02X (%s)", ErrZeroEntry, op, c.name))
			} else if c.v%4 != 0 {
				errs = append(errs, fmt.Errorf("%w: opcode 0x%02X (%s) = %d", ErrNotMultipleOf4, op, c.name, c.v))
			}
		}

		if inst.IsConditional(op) {
			if tk <= nt {
				errs = append(errs, fmt.Errorf("%w: opcode 0x%02X (%s) taken=%d not-taken=%d",
					ErrBranchCost, op, inst.Catalog[op].Mnemonic, tk, nt))
			}
		} else if tk != nt {
			errs = append(errs, fmt.Errorf("%w: opcode 0x%02X (%s) taken=%d not-taken=%d",
				ErrBranchMismatch, op, inst.Catalog[op].Mnemonic, tk, nt))
		}
	}
	return errors.Join(errs...)
}

// MarshalJSON implements json.Marshaler.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Taken    [256]Cycles `json:"taken"`
		NotTaken [256]Cycles `json:"notTaken"`
	}{t.taken, t.notTaken})
}
