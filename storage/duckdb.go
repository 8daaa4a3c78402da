package storage

import (
	_ "embed"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb/v2"
)

//go:embed schema/pitchEvents.sql
var pitchEventsSchema []byte

type DuckDB = *sqlx.DB

func InitDuckDB(path string) (DuckDB, error) {
	db, err := sqlx.Connect("duckdb", path)
	if err != nil {
		return nil, err
	}

	_ = db.MustExec(string(pitchEventsSchema))

	return db, nil
}
