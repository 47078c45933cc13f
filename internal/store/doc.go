// Package store persists workbench documents: the input tabs a
// workflow concatenates, with their declared column metadata and cell
// data, in a single SQLite file.
//
// The store holds inputs only. Concatenation results are never
// persisted; the engine is invoked fresh on every call and its output
// goes straight back to the caller.
//
// SQLite supports one writer at a time, so the connection pool is
// pinned to a single connection and WAL mode keeps reads concurrent
// with writes.
package store
