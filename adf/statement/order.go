package statement

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-adf/adf/term"
)

// ErrInvalidOrder is returned by ParseOrder for malformed key sequences.
var ErrInvalidOrder = errors.New("statement: invalid order")

// Key names a term slot.
type Key byte

const (
	Subject   Key = 'S'
	Predicate Key = 'P'
	Object    Key = 'O'
	Graph     Key = 'G'
)

func (k Key) String() string {
	switch k {
	case Subject:
		return "subject"
	case Predicate:
		return "predicate"
	case Object:
		return "object"
	case Graph:
		return "graph"
	}
	return fmt.Sprintf("Key(%q)", byte(k))
}

// Order is a sequence of distinct keys used to compare statements.
type Order []Key

// Common orders.
var (
	SPOG = Order{Subject, Predicate, Object, Graph}
	SPO  = Order{Subject, Predicate, Object}
)

// ParseOrder reads an order such as "SPOG" or "PO". Letters are upper case;
// each key may appear once.
func ParseOrder(s string) (Order, error) {
	if len(s) > 4 {
		return nil, fmt.Errorf("%w: %q is longer than four keys", ErrInvalidOrder, s)
	}
	order := make(Order, 0, len(s))
	var seen [256]bool
	for i := 0; i < len(s); i++ {
		k := Key(s[i])
		switch k {
		case Subject, Predicate, Object, Graph:
		default:
			return nil, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidOrder, s[i], s)
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: repeated key %q in %q", ErrInvalidOrder, s[i], s)
		}
		seen[k] = true
		order = append(order, k)
	}
	return order, nil
}

// MustParseOrder is like ParseOrder but panics on error.
func MustParseOrder(s string) Order {
	o, err := ParseOrder(s)
	if err != nil {
		panic(err)
	}
	return o
}

func (o Order) String() string {
	b := make([]byte, len(o))
	for i, k := range o {
		b[i] = byte(k)
	}
	return string(b)
}

// Contains reports whether k is part of the order.
func (o Order) Contains(k Key) bool {
	for _, x := range o {
		if x == k {
			return true
		}
	}
	return false
}

// Compare orders a and b lexicographically over the slots named by order.
// Absent slots sort before present ones. The deletion date never takes
// part, so statements that differ only in it compare equal.
func Compare(a, b *Statement, order Order) int {
	for _, k := range order {
		if c := term.Compare(a.get(k), b.get(k)); c != 0 {
			return c
		}
	}
	return 0
}
