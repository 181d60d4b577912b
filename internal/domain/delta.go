package domain

import "strconv"

// DeltaOp is the operator of a counter delta.
type DeltaOp byte

// Supported delta operators.
const (
	DeltaAdd DeltaOp = '+'
	DeltaSub DeltaOp = '-'
	DeltaSet DeltaOp = '@'
)

// Delta is a parsed counter mutation of the form <op><amount>, e.g. "+5",
// "-2" or "@10". Amount is never negative.
type Delta struct {
	Op     DeltaOp
	Amount int32
}

// String renders d back into its textual form.
func (d Delta) String() string {
	return string(rune(d.Op)) + strconv.FormatInt(int64(d.Amount), 10)
}
