// Package store keeps survey documents in a SQL-backed document collection.
//
// SQLite is the default backend and lives in the data directory, guarded by
// an exclusive file lock for as long as the handle is open. PostgreSQL is
// available for shared deployments. Documents are JSON objects addressed by
// (collection, id); Upsert merges top-level keys into any existing document,
// Find filters on top-level equality, and Distinct lists the values of one
// field. Array fields match and flatten element-wise.
//
// Schema changes ship as embedded migrations recorded in schema_migrations.
package store
