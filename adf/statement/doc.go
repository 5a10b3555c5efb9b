// Package statement holds the quad records of an annotated data file.
//
// A Statement has five slots: subject, predicate, object, graph and deletion
// date. An absent term slot leaves that position unconstrained, which is how
// query patterns are expressed. An absent deletion date means the statement
// is active; a present one marks it deleted as of that instant.
//
// Statements are modified only through Set, which takes one [Patch] per slot
// and applies all of them or none.
package statement
