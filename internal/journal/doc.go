// Package journal provides an append-only operational log of robot
// lifecycle events, backed by SQLite.
//
// The journal answers "what happened and when" for operators: every
// ready and error event a robot emits is recorded with a timestamp and
// an optional detail string. Nothing is read back at startup; the
// journal is audit material, not controller state.
//
// # Storage
//
// Events live in a single lifecycle_events table created on Open. The
// database uses WAL mode by default, with a single writer connection as
// SQLite requires.
//
// # Usage
//
//	j, err := journal.Open(cfg.Journal)
//	if errors.Is(err, journal.ErrDisabled) {
//	    // run without a journal
//	}
//	defer j.Close()
//	j.Attach(bot)
package journal
