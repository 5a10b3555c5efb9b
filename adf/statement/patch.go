package statement

// Op is the instruction carried by a Patch.
type Op uint8

const (
	OpKeep Op = iota
	OpClear
	OpSet
)

func (o Op) String() string {
	switch o {
	case OpKeep:
		return "keep"
	case OpClear:
		return "clear"
	case OpSet:
		return "set"
	}
	return "invalid"
}

// Patch is an update instruction for one slot: keep the current value, clear
// it, or set it to a value. The zero Patch keeps.
type Patch[T any] struct {
	op    Op
	value T
}

// Keep returns a patch leaving the slot unchanged.
func Keep[T any]() Patch[T] { return Patch[T]{op: OpKeep} }

// Clear returns a patch making the slot absent.
func Clear[T any]() Patch[T] { return Patch[T]{op: OpClear} }

// Set returns a patch storing v in the slot.
func Set[T any](v T) Patch[T] { return Patch[T]{op: OpSet, value: v} }

// Op returns the instruction.
func (p Patch[T]) Op() Op { return p.op }

// Value returns the value of a set patch.
func (p Patch[T]) Value() (T, bool) {
	return p.value, p.op == OpSet
}
