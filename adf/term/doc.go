// Package term implements the RDF terms stored in an annotated data file:
// named nodes, blank nodes and literals, with a canonical N3 encoding.
//
// A Term is a small comparable value. It can be used as a map key and
// compared with ==; two terms are equal exactly when they have the same kind
// and the same payload. The zero Term is "absent": it is not a valid term and
// marks an unconstrained slot in a statement pattern.
//
// Numeric and date literals are stored in a canonical lexical form, so
// Integer(7) == Integer(7) and Double(x) == Double(y) iff x and y have the same
// bit pattern (NaN excepted, which has a single lexical form).
package term
