/*
Package store persists named grammars in a SQLite database.

A grammar is stored as its vocabulary, kept in registration order, and its
follower table. Several grammars can share one database. The package works
with any database/sql SQLite driver; the wordwalk command uses
modernc.org/sqlite by default and github.com/mattn/go-sqlite3 when built with
the cgo_sqlite tag.
*/
package store
