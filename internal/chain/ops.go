package chain

import (
	"context"
	"errors"
	"fmt"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/internal/collection"
)

const (
	kindSale       = "sale"
	kindCollection = "collection"
)

// Setup creates a sale contract owned by owner and runs its instantiate entry. The
// collection deployment it requests is executed right away; its reply is queued for
// DeliverReplies.
func (c *Chain) Setup(ctx context.Context, owner sale.Address, msg sale.InstantiateMsg) (*Receipt, error) {
	payload, err := sale.Encode(msg)
	if err != nil {
		return nil, err
	}
	addr := c.newAddress(kindSale)
	return c.exec(ctx, "setup", func(u *unit) error {
		registerContract(u, addr, kindSale)
		u.receipt.Contract = addr
		env := sale.Env{Self: addr, Sender: owner, TxID: u.txID}
		resp, err := sale.New(u.saleState(addr)).Instantiate(env, payload)
		if err != nil {
			return err
		}
		return c.dispatch(u, addr, resp)
	})
}

// Buy delivers a receive notification from the paying token contract on behalf of buyer.
// The mint it produces runs inside the same unit; if the collection rejects it nothing
// of the purchase is kept.
func (c *Chain) Buy(ctx context.Context, saleAddr, paymentToken, buyer sale.Address, amount sale.Amount) (*Receipt, error) {
	payload, err := sale.Encode(sale.ExecuteMsg{Receive: &sale.ReceiveMsg{Sender: buyer, Amount: amount}})
	if err != nil {
		return nil, err
	}
	return c.exec(ctx, "buy", func(u *unit) error {
		if err := requireContract(u, saleAddr, kindSale); err != nil {
			return err
		}
		u.receipt.Contract = saleAddr
		env := sale.Env{Self: saleAddr, Sender: paymentToken, TxID: u.txID}
		resp, err := sale.New(u.saleState(saleAddr)).Execute(env, payload)
		if err != nil {
			return err
		}
		return c.dispatch(u, saleAddr, resp)
	})
}

// Reply delivers a raw callback payload to a sale. DeliverReplies uses it for queued
// replies; it is exported so foreign or duplicate callbacks can be injected.
func (c *Chain) Reply(ctx context.Context, saleAddr sale.Address, payload []byte) (*Receipt, error) {
	return c.exec(ctx, "reply", func(u *unit) error {
		return c.reply(u, saleAddr, payload)
	})
}

func (c *Chain) reply(u *unit, saleAddr sale.Address, payload []byte) error {
	if err := requireContract(u, saleAddr, kindSale); err != nil {
		return err
	}
	u.receipt.Contract = saleAddr
	resp, err := sale.New(u.saleState(saleAddr)).Reply(payload)
	if err != nil {
		return err
	}
	return c.dispatch(u, saleAddr, resp)
}

// DeliverReplies hands every queued callback to its sale, each in its own unit. A reply
// the sale rejects is dropped, as the host would; the errors are joined and returned.
func (c *Chain) DeliverReplies(ctx context.Context) ([]*Receipt, error) {
	var pending []pendingReply
	if err := c.view(ctx, func(u *unit) error {
		var err error
		pending, err = loadQueue(u)
		return err
	}); err != nil {
		return nil, err
	}

	var (
		receipts []*Receipt
		errs     []error
	)
	for _, p := range pending {
		rcpt, err := c.exec(ctx, "reply", func(u *unit) error {
			if err := dequeue(u, p); err != nil {
				return err
			}
			return c.reply(u, p.Sale, p.Payload)
		})
		if errors.Is(err, errReplyGone) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Sale, err))
			if _, derr := c.exec(ctx, "drop-reply", func(u *unit) error { return dequeue(u, p) }); derr != nil {
				errs = append(errs, derr)
			}
			continue
		}
		receipts = append(receipts, rcpt)
	}
	return receipts, errors.Join(errs...)
}

// Pending returns the number of queued callbacks.
func (c *Chain) Pending(ctx context.Context) (int, error) {
	var n int
	err := c.view(ctx, func(u *unit) error {
		q, err := loadQueue(u)
		n = len(q)
		return err
	})
	return n, err
}

// Config answers get_config for a sale.
func (c *Chain) Config(ctx context.Context, saleAddr sale.Address) (*sale.ConfigView, error) {
	query, err := sale.Encode(sale.QueryMsg{GetConfig: &struct{}{}})
	if err != nil {
		return nil, err
	}
	var view sale.ConfigView
	err = c.view(ctx, func(u *unit) error {
		if err := requireContract(u, saleAddr, kindSale); err != nil {
			return err
		}
		raw, err := sale.New(u.saleState(saleAddr)).Query(query)
		if err != nil {
			return err
		}
		view, err = sale.DecodeConfigView(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// OwnerOf looks a token up in the collection linked to saleAddr.
func (c *Chain) OwnerOf(ctx context.Context, saleAddr sale.Address, tokenID string) (sale.Address, error) {
	var owner sale.Address
	err := c.withCollection(ctx, saleAddr, func(col *collection.Collection) error {
		var err error
		owner, err = col.OwnerOf(tokenID)
		return err
	})
	return owner, err
}

// NumTokens counts tokens in the collection linked to saleAddr.
func (c *Chain) NumTokens(ctx context.Context, saleAddr sale.Address) (uint64, error) {
	var n uint64
	err := c.withCollection(ctx, saleAddr, func(col *collection.Collection) error {
		var err error
		n, err = col.NumTokens()
		return err
	})
	return n, err
}

func (c *Chain) withCollection(ctx context.Context, saleAddr sale.Address, fn func(*collection.Collection) error) error {
	return c.view(ctx, func(u *unit) error {
		cfg, err := sale.NewConfigStore(u.saleState(saleAddr)).Load()
		if err != nil {
			return err
		}
		if cfg.Collection == nil {
			return ErrNotLinked
		}
		return fn(collection.Open(u.collectionState(*cfg.Collection)))
	})
}

// dispatch executes what a sale emitted, in order, inside the caller's unit.
func (c *Chain) dispatch(u *unit, from sale.Address, resp *sale.Response) error {
	u.receipt.Events = append(u.receipt.Events, resp.Events...)
	for _, msg := range resp.Messages {
		switch {
		case msg.Deploy != nil:
			if err := c.deploy(u, from, msg.ReplyID, *msg.Deploy); err != nil {
				return err
			}
		case msg.Mint != nil:
			if err := c.mint(u, from, msg.Contract, *msg.Mint); err != nil {
				return err
			}
		default:
			return fmt.Errorf("empty message from %s", from)
		}
	}
	return nil
}

// deploy fails the unit only when the reply cannot be queued. A failed deployment
// travels back to the sale as an error reply.
func (c *Chain) deploy(u *unit, from sale.Address, replyID uint64, req sale.DeployCollection) error {
	reply := sale.Reply{ID: replyID}
	if _, ok := c.codes[req.CodeRef]; !ok {
		reply.Result.Error = fmt.Sprintf("unknown code reference %q", req.CodeRef)
	} else {
		addr := c.newAddress(kindCollection)
		if err := collection.Open(u.collectionState(addr)).Instantiate(req); err != nil {
			reply.Result.Error = err.Error()
		} else {
			registerContract(u, addr, kindCollection)
			reply.Result.ContractAddress = &addr
			u.receipt.Collection = &addr
			c.log.Debug("collection deployed", "tx", u.txID, "sale", from, "collection", addr, "label", req.Label)
		}
	}
	if reply.Result.Error != "" {
		c.log.Warn("collection deployment failed", "tx", u.txID, "sale", from, "reason", reply.Result.Error)
	}
	return enqueue(u, from, reply)
}

func (c *Chain) mint(u *unit, from, target sale.Address, m sale.MintNFT) error {
	if err := requireContract(u, target, kindCollection); err != nil {
		return err
	}
	payload, err := sale.Encode(m)
	if err != nil {
		return err
	}
	if err := collection.Open(u.collectionState(target)).Execute(from, payload); err != nil {
		return fmt.Errorf("mint on %s: %w", target, err)
	}
	u.receipt.Minted = &m
	return nil
}
