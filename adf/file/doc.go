// Package file implements the annotated data file: a temporally versioned
// quad store paired with a dense multichannel sample matrix, persisted as a
// single binary blob.
//
// Statements are kept in an append-only log. Nothing is ever removed: a
// deletion appends a copy of the quad carrying a deletion date, and a quad is
// active while its most recent record has none. Lookups see the active set by
// default and the whole history on request.
//
// Terms are interned into a table and statements refer to them by handle.
// Six permutation indices (SPOG, POGS, OGSP, GSPO, OSGP, GPSO) are kept so that
// every combination of fixed slots is a prefix of one of them.
//
// The sample matrix is points × channels float64 values stored point-major.
// Each column is identified in the metadata by a node, <#channel-N> unless
// renamed with SetChannelIdentifier, carrying a lyto:column-number, so channel types and other annotations attach to the
// identifier rather than to a column position.
package file
