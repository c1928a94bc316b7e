package runner

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mgutz/pgchain"
)

const (
	txPending = iota
	txCommitted
	txRollbacked
	txErred
)

// ErrTxRollbacked occurs when Commit() or Rollback() is called on a
// transaction that has already been rollbacked.
var ErrTxRollbacked = errors.New("nested transaction already rolled back")

// Tx is a transaction. A Tx may be begun again to nest work within it. Only
// the outermost Commit reaches the database while a Rollback at any level
// rolls back the whole transaction.
type Tx struct {
	sync.Mutex
	ID int64
	*sqlx.Tx
	*Queryable
	IsRollbacked bool
	state        int
	stateStack   []int
}

// dbgTxID is a unique transaction ID for debugging
var dbgTxID int64

// WrapSqlxTx creates a Tx from a sqlx.Tx. canceler runs cancellation of timed
// out queries and should be the pool the transaction came from.
func WrapSqlxTx(tx *sqlx.Tx, canceler *sqlx.DB) *Tx {
	newtx := &Tx{
		Tx:        tx,
		ID:        atomic.AddInt64(&dbgTxID, 1),
		Queryable: &Queryable{runner: tx},
	}
	if canceler != nil {
		newtx.Queryable.canceler = canceler
	}
	if pgchain.Strict {
		time.AfterFunc(PendingTransactionsTimeout, func() {
			newtx.Lock()
			defer newtx.Unlock()
			if !newtx.IsRollbacked && newtx.state == txPending {
				logger.Error("Transaction was not closed or exceeded PendingTransactionsTimeout", "ID", newtx.ID)
			}
		})
	}
	return newtx
}

// Begin creates a transaction for the given database
func (db *DB) Begin() (*Tx, error) {
	tx, err := db.DB.Beginx()
	if err != nil {
		return nil, logger.Error("begin.error", "err", err)
	}
	wrappedTx := WrapSqlxTx(tx, db.DB)
	logger.Debug("tx begin", "ID", wrappedTx.ID)
	return wrappedTx, nil
}

// Begin returns this transaction with a new nesting level.
func (tx *Tx) Begin() (*Tx, error) {
	tx.Lock()
	defer tx.Unlock()
	if tx.IsRollbacked {
		return nil, ErrTxRollbacked
	}

	logger.Debug("tx begin nested", "ID", tx.ID)
	tx.pushState()
	return tx, nil
}

// Exec binds a builder to this transaction. This disambiguates between
// Queryable.Exec and sqlx's Exec.
func (tx *Tx) Exec(b pgchain.Builder) *Execer {
	return tx.Queryable.Exec(b)
}

// Commit commits the transaction
func (tx *Tx) Commit() error {
	tx.Lock()
	defer tx.Unlock()

	if tx.IsRollbacked {
		logger.Error("Cannot commit", "err", ErrTxRollbacked)
		return ErrTxRollbacked
	}

	if tx.state == txCommitted {
		return logger.Error("Transaction has already been committed", "ID", tx.ID)
	}
	if tx.state == txRollbacked {
		return logger.Error("Transaction has already been rolled back", "ID", tx.ID)
	}

	if len(tx.stateStack) == 0 {
		err := tx.Tx.Commit()
		if err != nil {
			tx.state = txErred
			return logger.Error("commit.error", "err", err)
		}
	}

	logger.Debug("tx commit", "ID", tx.ID)
	tx.state = txCommitted
	return nil
}

// Rollback cancels the transaction
func (tx *Tx) Rollback() error {
	tx.Lock()
	defer tx.Unlock()

	if tx.IsRollbacked {
		logger.Error("Cannot rollback", "err", ErrTxRollbacked)
		return ErrTxRollbacked
	}
	if tx.state == txCommitted {
		return logger.Error("Cannot rollback, transaction has already been committed", "ID", tx.ID)
	}

	// rollback is sent to the database even in nested state
	err := tx.Tx.Rollback()
	if err != nil {
		tx.state = txErred
		return logger.Error("Unable to rollback", "err", err)
	}

	logger.Debug("tx rollback", "ID", tx.ID)
	tx.state = txRollbacked
	tx.IsRollbacked = true
	return nil
}

// AutoCommit commits a transaction IF neither Commit or Rollback were called.
func (tx *Tx) AutoCommit() error {
	tx.Lock()
	defer tx.Unlock()
	defer tx.popState()

	if tx.state != txPending || tx.IsRollbacked {
		return nil
	}
	// a nested level commits with the outermost one
	if len(tx.stateStack) > 0 {
		tx.state = txCommitted
		return nil
	}

	err := tx.Tx.Commit()
	if err != nil {
		tx.state = txErred
		return logger.Error("transaction.AutoCommit.commit_error", "err", err)
	}
	logger.Debug("tx autocommit", "ID", tx.ID)
	tx.state = txCommitted
	return nil
}

// AutoRollback rolls back transaction IF neither Commit or Rollback were called.
func (tx *Tx) AutoRollback() error {
	tx.Lock()
	defer tx.Unlock()
	defer tx.popState()

	if tx.IsRollbacked || tx.state == txCommitted {
		return nil
	}

	err := tx.Tx.Rollback()
	if err != nil {
		tx.state = txErred
		return logger.Error("transaction.AutoRollback.rollback_error", "err", err)
	}
	logger.Debug("tx autorollback", "ID", tx.ID)
	tx.state = txRollbacked
	tx.IsRollbacked = true
	return nil
}

func (tx *Tx) pushState() {
	tx.stateStack = append(tx.stateStack, tx.state)
	tx.state = txPending
}

func (tx *Tx) popState() {
	if len(tx.stateStack) == 0 {
		return
	}

	var val int
	val, tx.stateStack = tx.stateStack[len(tx.stateStack)-1], tx.stateStack[:len(tx.stateStack)-1]
	tx.state = val
}
