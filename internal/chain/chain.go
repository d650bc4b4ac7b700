// Package chain runs sale contracts against a kvstore the way the network host would:
// one operation at a time, each one committed whole or not at all.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/internal/kvstore"
	"okinoko_nftsale/internal/logger"
)

// DefaultCollectionCode is the code reference the chain can always deploy.
const DefaultCollectionCode = "cw721"

var (
	ErrUnknownContract = errors.New("unknown contract")
	ErrNotLinked       = errors.New("sale has no collection yet")
)

// Receipt describes one committed unit.
type Receipt struct {
	TxID     string
	Contract sale.Address
	Events   []sale.Event
	// Minted holds the token minted by a purchase.
	Minted *sale.MintNFT
	// Collection is set when the unit deployed a collection.
	Collection *sale.Address
}

type Option func(*Chain)

func WithLogger(l *logger.Logger) Option {
	return func(c *Chain) { c.log = l }
}

// WithCodes registers additional deployable collection code references.
func WithCodes(codes ...string) Option {
	return func(c *Chain) {
		for _, code := range codes {
			c.codes[code] = struct{}{}
		}
	}
}

// WithIDs replaces the uuid generator; tests use it for stable addresses.
func WithIDs(next func() string) Option {
	return func(c *Chain) { c.newID = next }
}

// Chain is a single node executor. Operations are serialized by mu and run inside one
// kvstore transaction that is committed only when the handler and everything it emitted
// succeeded.
type Chain struct {
	mu    sync.Mutex
	store kvstore.Store
	log   *logger.Logger
	codes map[string]struct{}
	newID func() string
}

func New(store kvstore.Store, opts ...Option) *Chain {
	c := &Chain{
		store: store,
		log:   logger.Nop(),
		codes: map[string]struct{}{DefaultCollectionCode: {}},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// unit is the per operation context handed to handlers.
type unit struct {
	tx      *kvstore.Tx
	txID    string
	receipt *Receipt
}

func (u *unit) saleState(addr sale.Address) sale.State {
	return kvstore.Prefix(u.tx, saleKeyPrefix+addr.String()+"/")
}

func (u *unit) collectionState(addr sale.Address) sale.State {
	return kvstore.Prefix(u.tx, collectionKeyPrefix+addr.String()+"/")
}

const (
	saleKeyPrefix       = "s/"
	collectionKeyPrefix = "c/"
	contractsKey        = "chain/contracts/"
)

// exec runs fn as one serialized all-or-nothing unit.
func (c *Chain) exec(ctx context.Context, op string, fn func(u *unit) error) (*Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	u := &unit{tx: tx, txID: c.newID(), receipt: &Receipt{}}
	u.receipt.TxID = u.txID

	if err := fn(u); err != nil {
		// a failed read makes Get report "missing"; the storage error is the real cause
		if rerr := tx.Err(); rerr != nil {
			err = rerr
		}
		tx.Rollback()
		c.log.Warn("unit rolled back", "op", op, "tx", u.txID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		c.log.Error("commit failed", "op", op, "tx", u.txID, "error", err)
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	c.log.Info("unit committed", "op", op, "tx", u.txID, "events", len(u.receipt.Events))
	return u.receipt, nil
}

// view runs fn against a transaction that is always rolled back.
func (c *Chain) view(ctx context.Context, fn func(u *unit) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(&unit{tx: tx}); err != nil {
		if rerr := tx.Err(); rerr != nil {
			return rerr
		}
		return err
	}
	return tx.Err()
}

func (c *Chain) newAddress(kind string) sale.Address {
	return sale.Address("contract:" + kind + "-" + c.newID())
}

func registerContract(u *unit, addr sale.Address, kind string) {
	u.tx.Set(contractsKey+addr.String(), kind)
}

func requireContract(u *unit, addr sale.Address, kind string) error {
	got := u.tx.Get(contractsKey + addr.String())
	if got == nil || *got != kind {
		return fmt.Errorf("%w: %s %s", ErrUnknownContract, kind, addr)
	}
	return nil
}
