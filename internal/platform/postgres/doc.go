// Package postgres provides PostgreSQL implementations of the store
// interfaces. It translates between domain entities and their relational
// representation, mapping database errors to store-level sentinel errors.
package postgres
