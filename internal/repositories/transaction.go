package repositories

import (
	"context"
	"fmt"

	apperrors "essaydesk/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) TxManagerInterface {
	return &TxManager{pool: pool}
}

// RunInTransaction выполняет fn в рамках одной транзакции.
// Любая ошибка (или паника) внутри fn откатывает транзакцию целиком,
// частичных записей не остаётся. Ошибки begin/commit помечаются как
// ErrPersistenceFailure: их безопасно повторять.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}
