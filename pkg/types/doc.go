// Package types defines the entity and relation descriptors, the record
// shapes they produce, the world configuration, and the standard error
// types for the narrata knowledge base.
//
// An EntityDef is a compact description of one entity kind (table name,
// logical key fields, value fields, status variants, linkable keys). A
// RelationDef describes one ordered pair of kinds joined by attributed
// edges. The storage layer consumes both generically; no kind has its own
// store implementation.
package types
