package core

import (
	"database/sql"
)

// Tx represents a database transaction. Every write and read of the DB is
// available on a Tx; reads inside a transaction never use the result cache.
type Tx struct {
	*session
	sqlTx *sql.Tx
}

func newTx(db *DB, sqlTx *sql.Tx) *Tx {
	return &Tx{
		session: &session{db: db, exec: sqlTx, tx: true},
		sqlTx:   sqlTx,
	}
}
