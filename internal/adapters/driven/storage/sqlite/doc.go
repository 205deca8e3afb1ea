// Package sqlite implements the SessionStore port on an embedded SQLite
// database. The database lives at ~/.shuka/data/sessions.db by default and
// is migrated on open from SQL files embedded under migrations/.
package sqlite
