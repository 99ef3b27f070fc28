// Package repomanager vends repositories bound to a connection or a
// transaction and owns the lifecycle of the underlying store.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verifications"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Verifications(db dbx.DBTX) verifications.Repository

	// Conn returns the handle to use outside a transaction.
	Conn() dbx.DBTX

	// WithTx runs fn atomically; repositories built from the tx argument
	// take part in it.
	WithTx(ctx context.Context, fn dbx.TxFunc) error

	RunMigrations(ctx context.Context) error
	Close() error
}

// New picks the store for dsn: PostgreSQL when set, process memory when empty.
func New(dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewMemoryRepositoryManager(), nil
	}
	m, err := OpenPostgres(dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}
