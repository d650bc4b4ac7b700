package sale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// memState is a bare map State that counts writes.
type memState struct {
	db     map[string]string
	writes int
}

func newMemState() *memState {
	return &memState{db: map[string]string{}}
}

func (m *memState) Set(key, value string) {
	m.db[key] = value
	m.writes++
}

func (m *memState) Get(key string) *string {
	v, ok := m.db[key]
	if !ok {
		return nil
	}
	return &v
}

func (m *memState) Delete(key string) {
	delete(m.db, key)
	m.writes++
}

const (
	ownerAddr   = Address("hive:tibfox")
	tokenAddr   = Address("contract:usd")
	saleAddr    = Address("contract:sale")
	buyerAddr   = Address("hive:someone")
	collectionA = Address("collectionA")
)

func defaultInstantiate() InstantiateMsg {
	return InstantiateMsg{
		PaymentToken:   tokenAddr,
		UnitPrice:      NewAmount(3),
		MaxTokens:      5,
		Name:           "FirstFT",
		Symbol:         "FFT",
		TokenURI:       "Sample",
		CollectionCode: "7046",
	}
}

func ownerEnv() Env {
	return Env{Self: saleAddr, Sender: ownerAddr, TxID: "init-tx"}
}

// setupSale instantiates with msg and returns the state.
func setupSale(t *testing.T, msg InstantiateMsg) *memState {
	t.Helper()
	st := newMemState()
	_, err := Instantiate(st, ownerEnv(), msg)
	require.NoError(t, err)
	return st
}

// setupLinked instantiates and delivers a matching deployment callback.
func setupLinked(t *testing.T, msg InstantiateMsg) *memState {
	t.Helper()
	st := setupSale(t, msg)
	addr := collectionA
	_, err := HandleReply(st, Reply{ID: InstantiateCollectionReplyID, Result: ReplyResult{ContractAddress: &addr}})
	require.NoError(t, err)
	return st
}

func pay(amount uint64) PaymentNotice {
	return PaymentNotice{Sender: buyerAddr, PayingContract: tokenAddr, Amount: NewAmount(amount)}
}

func loadCfg(t *testing.T, st State) *Config {
	t.Helper()
	cfg, err := NewConfigStore(st).Load()
	require.NoError(t, err)
	return cfg
}
