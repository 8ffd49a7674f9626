// Package export serializes a catalog as RDF or as a flat part table.
//
// The RDF graph uses SOSA for observed and actuated properties and features
// of interest, and a catalog namespace for part classes, interfaces and
// specifications. Turtle output groups statements by subject and uses
// prefixed names where possible; N-Triples output writes absolute IRIs, one
// statement per line. Every vocabulary term is declared exactly once.
package export
