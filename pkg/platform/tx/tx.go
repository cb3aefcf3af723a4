// Package tx carries a *sql.Tx through a context so postgres stores join the
// caller's transaction instead of opening their own.
//
// In-memory stores cannot join a SQL transaction. They take part in the same
// unit of work through OnRollback and AfterCommit, which Run and
// MemoryRunner honour alike.
package tx

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

type ctxKey struct{}

type unitKey struct{}

// Beginner opens transactions with default options.
type Beginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// Runner runs fn as one unit of work: every store write made with the
// context fn receives either lands together or not at all.
type Runner interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// WithTx returns ctx carrying tx. A nil tx leaves ctx unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok
}

// Run executes fn inside a transaction and commits when fn returns nil.
// Any error from fn, or a panic, rolls the transaction back. When ctx already
// carries a transaction fn joins it and the outer caller decides the outcome.
func Run(ctx context.Context, b Beginner, fn func(ctx context.Context) error) error {
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}
	tx, err := b.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	return runUnit(WithTx(ctx, tx), fn,
		func() error {
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit tx: %w", err)
			}
			return nil
		},
		func() { _ = tx.Rollback() },
	)
}

// SQLRunner runs units of work in a database transaction.
type SQLRunner struct {
	db Beginner
}

func NewSQLRunner(db *sql.DB) SQLRunner {
	return SQLRunner{db: sqlBeginner{db: db}}
}

func (r SQLRunner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return Run(ctx, r.db, fn)
}

type sqlBeginner struct{ db *sql.DB }

func (b sqlBeginner) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return b.db.BeginTx(ctx, nil)
}

// MemoryRunner runs units of work over in-memory stores. Writes are undone
// through the callbacks the stores registered with OnRollback.
type MemoryRunner struct{}

func (MemoryRunner) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(unitKey{}).(*unit); ok {
		return fn(ctx)
	}
	return runUnit(ctx, fn, func() error { return nil }, func() {})
}

// OnRollback registers undo to run if the enclosing unit of work fails.
// Undo callbacks run newest first. Outside a unit of work it does nothing.
func OnRollback(ctx context.Context, undo func()) {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok {
		u.mu.Lock()
		u.undo = append(u.undo, undo)
		u.mu.Unlock()
	}
}

// AfterCommit defers fn until the enclosing unit of work succeeds and drops
// it on rollback. Outside a unit of work fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if u, ok := ctx.Value(unitKey{}).(*unit); ok {
		u.mu.Lock()
		u.committed = append(u.committed, fn)
		u.mu.Unlock()
		return
	}
	fn()
}

type unit struct {
	mu        sync.Mutex
	undo      []func()
	committed []func()
}

func (u *unit) rollback() {
	u.mu.Lock()
	undo := u.undo
	u.undo, u.committed = nil, nil
	u.mu.Unlock()
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

func (u *unit) commit() {
	u.mu.Lock()
	committed := u.committed
	u.undo, u.committed = nil, nil
	u.mu.Unlock()
	for _, fn := range committed {
		fn()
	}
}

func runUnit(ctx context.Context, fn func(ctx context.Context) error, commit func() error, rollback func()) (err error) {
	u := &unit{}
	defer func() {
		if p := recover(); p != nil {
			rollback()
			u.rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, unitKey{}, u)); err != nil {
		rollback()
		u.rollback()
		return err
	}
	if err = commit(); err != nil {
		u.rollback()
		return err
	}
	u.commit()
	return nil
}
