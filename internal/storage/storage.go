package storage

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/link-server/internal/config"
)

// Storage is the root handle over the relational store. Reads go through
// Reader against the pool; all writes go through a Writer bound to one
// transaction, handed out by Write.
type Storage struct {
	DB     *sql.DB
	bobDB  bob.DB
	Reader *Reader
}

func NewStorage(env *config.Config) (*Storage, error) {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	bobDB := bob.NewDB(db)

	return &Storage{
		DB:     db,
		bobDB:  bobDB,
		Reader: NewReader(bobDB),
	}, nil
}

// Write begins a transaction and returns a Writer over it. The caller must
// Commit or Rollback; the operator does this around every action.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	writer := NewWriter(tx)
	return &writer, nil
}
