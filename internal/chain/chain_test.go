package chain

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/internal/collection"
	"okinoko_nftsale/internal/kvstore"
)

const (
	owner = sale.Address("hive:owner")
	token = sale.Address("contract:usd-token")
	alice = sale.Address("hive:alice")
	bob   = sale.Address("hive:bob")
)

var price = sale.NewAmount(100)

func seqIDs() func() string {
	var n atomic.Uint64
	return func() string { return fmt.Sprintf("%06d", n.Add(1)) }
}

func newChain(t *testing.T, store kvstore.Store) *Chain {
	t.Helper()
	return New(store, WithIDs(seqIDs()))
}

func saleParams(maxTokens uint64) sale.InstantiateMsg {
	return sale.InstantiateMsg{
		PaymentToken:   token,
		UnitPrice:      price,
		MaxTokens:      maxTokens,
		Name:           "Okinoko",
		Symbol:         "OKI",
		TokenURI:       "ipfs://okinoko",
		Extension:      `{"edition":1}`,
		CollectionCode: DefaultCollectionCode,
	}
}

// linkedSale runs setup and delivers the deployment reply.
func linkedSale(t *testing.T, c *Chain, maxTokens uint64) (sale.Address, sale.Address) {
	t.Helper()
	ctx := context.Background()
	rcpt, err := c.Setup(ctx, owner, saleParams(maxTokens))
	require.NoError(t, err)
	require.NotNil(t, rcpt.Collection)

	delivered, err := c.DeliverReplies(ctx)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	return rcpt.Contract, *rcpt.Collection
}

func TestSetupQueuesDeploymentReply(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())

	rcpt, err := c.Setup(ctx, owner, saleParams(3))
	require.NoError(t, err)
	require.NotEmpty(t, rcpt.Contract)
	require.Len(t, rcpt.Events, 1)
	assert.Equal(t, "ns", rcpt.Events[0].Type)

	n, err := c.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	view, err := c.Config(ctx, rcpt.Contract)
	require.NoError(t, err)
	assert.False(t, view.Linked)
	assert.Nil(t, view.Collection)
	assert.Equal(t, owner, view.Owner)

	_, err = c.Buy(ctx, rcpt.Contract, token, alice, price)
	assert.ErrorIs(t, err, sale.ErrUninitialized)

	delivered, err := c.DeliverReplies(ctx)
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "nl", delivered[0].Events[0].Type)

	view, err = c.Config(ctx, rcpt.Contract)
	require.NoError(t, err)
	assert.True(t, view.Linked)
	require.NotNil(t, view.Collection)
	assert.Equal(t, *rcpt.Collection, *view.Collection)

	n, err = c.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPurchaseFlowUntilSoldOut(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())
	saleAddr, _ := linkedSale(t, c, 2)

	rcpt, err := c.Buy(ctx, saleAddr, token, alice, price)
	require.NoError(t, err)
	require.NotNil(t, rcpt.Minted)
	assert.Equal(t, "0", rcpt.Minted.TokenID)

	rcpt, err = c.Buy(ctx, saleAddr, token, bob, price)
	require.NoError(t, err)
	assert.Equal(t, "1", rcpt.Minted.TokenID)

	_, err = c.Buy(ctx, saleAddr, token, alice, price)
	assert.ErrorIs(t, err, sale.ErrSoldOut)

	o, err := c.OwnerOf(ctx, saleAddr, "0")
	require.NoError(t, err)
	assert.Equal(t, alice, o)
	o, err = c.OwnerOf(ctx, saleAddr, "1")
	require.NoError(t, err)
	assert.Equal(t, bob, o)

	n, err := c.NumTokens(ctx, saleAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	view, err := c.Config(ctx, saleAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), view.NextTokenID)
	assert.Zero(t, view.Remaining)
}

func TestRejectedPurchasesChangeNothing(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())
	saleAddr, _ := linkedSale(t, c, 5)

	_, err := c.Buy(ctx, saleAddr, token, alice, sale.NewAmount(99))
	assert.ErrorIs(t, err, sale.ErrWrongPaymentAmount)
	_, err = c.Buy(ctx, saleAddr, token, alice, sale.NewAmount(101))
	assert.ErrorIs(t, err, sale.ErrWrongPaymentAmount)
	_, err = c.Buy(ctx, saleAddr, "contract:fake-token", alice, price)
	assert.ErrorIs(t, err, sale.ErrUnauthorizedTokenContract)
	_, err = c.Buy(ctx, "contract:nope", token, alice, price)
	assert.ErrorIs(t, err, ErrUnknownContract)

	view, err := c.Config(ctx, saleAddr)
	require.NoError(t, err)
	assert.Zero(t, view.NextTokenID)
	n, err := c.NumTokens(ctx, saleAddr)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestForeignAndDuplicateReplies(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())
	rcpt, err := c.Setup(ctx, owner, saleParams(1))
	require.NoError(t, err)

	_, err = c.Reply(ctx, rcpt.Contract, []byte(`{"id":7,"result":{"ok":{"contract_address":"contract:evil"}}}`))
	assert.ErrorIs(t, err, sale.ErrInvalidCorrelation)

	_, err = c.Reply(ctx, rcpt.Contract, []byte(`{"id":1,"result":{"ok":{"contract_address":""}}}`))
	assert.ErrorIs(t, err, sale.ErrMalformedReply)

	view, err := c.Config(ctx, rcpt.Contract)
	require.NoError(t, err)
	assert.False(t, view.Linked)

	_, err = c.DeliverReplies(ctx)
	require.NoError(t, err)

	_, err = c.Reply(ctx, rcpt.Contract, []byte(`{"id":1,"result":{"ok":{"contract_address":"contract:evil"}}}`))
	assert.ErrorIs(t, err, sale.ErrAlreadyLinked)

	view, err = c.Config(ctx, rcpt.Contract)
	require.NoError(t, err)
	assert.Equal(t, *rcpt.Collection, *view.Collection)
}

func TestUnknownCodeReferenceLeavesSaleUnlinked(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())
	params := saleParams(1)
	params.CollectionCode = "cw721-missing"

	rcpt, err := c.Setup(ctx, owner, params)
	require.NoError(t, err)
	assert.Nil(t, rcpt.Collection)

	delivered, err := c.DeliverReplies(ctx)
	assert.ErrorIs(t, err, sale.ErrDeploymentFailed)
	assert.Empty(t, delivered)

	n, err := c.Pending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected reply is dropped")

	view, err := c.Config(ctx, rcpt.Contract)
	require.NoError(t, err)
	assert.False(t, view.Linked)
}

func TestExtraCodeReference(t *testing.T) {
	ctx := context.Background()
	c := New(kvstore.NewMemStore(), WithIDs(seqIDs()), WithCodes("cw721-v2"))
	params := saleParams(1)
	params.CollectionCode = "cw721-v2"
	rcpt, err := c.Setup(ctx, owner, params)
	require.NoError(t, err)
	assert.NotNil(t, rcpt.Collection)
}

func TestInvalidSetupWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemStore()
	c := newChain(t, store)

	params := saleParams(0)
	_, err := c.Setup(ctx, owner, params)
	assert.ErrorIs(t, err, sale.ErrInvalidMaxTokens)

	params = saleParams(1)
	params.UnitPrice = sale.Amount{}
	_, err = c.Setup(ctx, owner, params)
	assert.ErrorIs(t, err, sale.ErrInvalidUnitPrice)

	assert.Empty(t, store.Snapshot())
}

// A collection that rejects the mint rolls the whole purchase back, counter included.
func TestFailedMintRollsBackPurchase(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemStore()
	c := newChain(t, store)
	saleAddr, colAddr := linkedSale(t, c, 3)

	// token 0 already exists in the collection
	tx, err := store.Begin(ctx)
	require.NoError(t, err)
	col := collection.Open(kvstore.Prefix(tx, collectionKeyPrefix+colAddr.String()+"/"))
	payload, err := sale.Encode(sale.MintNFT{TokenID: "0", Owner: bob})
	require.NoError(t, err)
	require.NoError(t, col.Execute(saleAddr, payload))
	require.NoError(t, tx.Commit())

	_, err = c.Buy(ctx, saleAddr, token, alice, price)
	assert.ErrorIs(t, err, collection.ErrTokenExists)

	view, err := c.Config(ctx, saleAddr)
	require.NoError(t, err)
	assert.Zero(t, view.NextTokenID)
	o, err := c.OwnerOf(ctx, saleAddr, "0")
	require.NoError(t, err)
	assert.Equal(t, bob, o)
}

func TestSQLiteBackedFlow(t *testing.T) {
	ctx := context.Background()
	store, err := kvstore.OpenSQLite("")
	require.NoError(t, err)
	defer store.Close()

	c := newChain(t, store)
	saleAddr, _ := linkedSale(t, c, 1)

	rcpt, err := c.Buy(ctx, saleAddr, token, alice, price)
	require.NoError(t, err)
	assert.Equal(t, "0", rcpt.Minted.TokenID)

	_, err = c.Buy(ctx, saleAddr, token, bob, price)
	assert.ErrorIs(t, err, sale.ErrSoldOut)

	view, err := c.Config(ctx, saleAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), view.NextTokenID)
	assert.JSONEq(t, `{"edition":1}`, view.Extension)
}

func TestConcurrentBuyersGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	c := newChain(t, kvstore.NewMemStore())
	saleAddr, _ := linkedSale(t, c, 10)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		soldOut atomic.Int32
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := sale.Address(fmt.Sprintf("hive:buyer%d", i))
			rcpt, err := c.Buy(ctx, saleAddr, token, buyer, price)
			if err != nil {
				assert.ErrorIs(t, err, sale.ErrSoldOut)
				soldOut.Add(1)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, ids[rcpt.Minted.TokenID], "token %s minted twice", rcpt.Minted.TokenID)
			ids[rcpt.Minted.TokenID] = true
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, 10)
	assert.Equal(t, int32(15), soldOut.Load())
	for i := 0; i < 10; i++ {
		assert.True(t, ids[fmt.Sprint(i)])
	}
}

// A broken store must surface as a storage error, not as a missing contract or record.
func TestStorageFailureIsNotMaskedAsDomainError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chain.db")
	store, err := kvstore.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	c := newChain(t, store)
	saleAddr, _ := linkedSale(t, c, 2)

	other, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = other.Exec(`ALTER TABLE kv RENAME TO gone`)
	require.NoError(t, err)
	require.NoError(t, other.Close())

	_, err = c.Config(ctx, saleAddr)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no such table")
	assert.NotErrorIs(t, err, ErrUnknownContract)
	assert.NotErrorIs(t, err, sale.ErrUninitialized)

	_, err = c.Buy(ctx, saleAddr, token, alice, price)
	require.Error(t, err)
	assert.ErrorContains(t, err, "no such table")
	assert.NotErrorIs(t, err, ErrUnknownContract)

	_, err = c.NumTokens(ctx, saleAddr)
	assert.ErrorContains(t, err, "no such table")
}
