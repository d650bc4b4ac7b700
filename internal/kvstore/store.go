package kvstore

import (
	"context"
	"errors"
)

// ErrTxDone is returned when a transaction is used after Commit or Rollback.
var ErrTxDone = errors.New("kvstore: transaction already finished")

// Store is a durable string key/value store that hands out staged transactions.
type Store interface {
	Begin(ctx context.Context) (*Tx, error)
	Close() error
}

type readFunc func(ctx context.Context, key string) (*string, error)

// applyFunc persists a batch; a nil value deletes the key.
type applyFunc func(ctx context.Context, writes map[string]*string) error

// Tx buffers writes over a read view of its store. Nothing is visible to others until
// Commit, and Rollback drops the buffer. Read errors are latched and fail the Commit.
// A Tx is not safe for concurrent use.
type Tx struct {
	ctx    context.Context
	read   readFunc
	apply  applyFunc
	writes map[string]*string
	err    error
	done   bool
}

func newTx(ctx context.Context, read readFunc, apply applyFunc) *Tx {
	return &Tx{ctx: ctx, read: read, apply: apply, writes: map[string]*string{}}
}

func (tx *Tx) Get(key string) *string {
	if v, ok := tx.writes[key]; ok {
		if v == nil {
			return nil
		}
		out := *v
		return &out
	}
	if tx.err != nil || tx.done {
		return nil
	}
	v, err := tx.read(tx.ctx, key)
	if err != nil {
		tx.err = err
		return nil
	}
	return v
}

func (tx *Tx) Set(key, value string) {
	tx.writes[key] = &value
}

func (tx *Tx) Delete(key string) {
	tx.writes[key] = nil
}

// Err returns the first read error seen by this transaction.
func (tx *Tx) Err() error {
	return tx.err
}

// Commit applies all buffered writes in one batch.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true
	if tx.err != nil {
		return tx.err
	}
	if len(tx.writes) == 0 {
		return nil
	}
	return tx.apply(tx.ctx, tx.writes)
}

// Rollback discards buffered writes. It is a no-op after Commit.
func (tx *Tx) Rollback() {
	tx.done = true
	tx.writes = map[string]*string{}
}

// State is the key/value surface shared by Tx and Prefixed.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Prefixed scopes every key under prefix so several contracts share one store.
type Prefixed struct {
	inner  State
	prefix string
}

func Prefix(inner State, prefix string) *Prefixed {
	return &Prefixed{inner: inner, prefix: prefix}
}

func (p *Prefixed) Set(key, value string) { p.inner.Set(p.prefix+key, value) }
func (p *Prefixed) Get(key string) *string { return p.inner.Get(p.prefix + key) }
func (p *Prefixed) Delete(key string)      { p.inner.Delete(p.prefix + key) }
