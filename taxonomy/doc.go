// Package taxonomy defines the part classification scheme: six categories,
// their kinds, and an ordered keyword rule table used to detect a
// (category, kind) pair from free text.
//
// Rules are evaluated strictly in order and the first match wins. The package
// also carries the category alias table for free-text category spellings and
// a manual override table keyed by exact part label. Both the rule table and
// the overrides can be extended from YAML files.
package taxonomy
