package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okinoko_nftsale/contract/sale"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	lite, err := OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })
	return map[string]Store{
		"mem":    NewMemStore(),
		"sqlite": lite,
	}
}

func get(t *testing.T, s Store, key string) *string {
	t.Helper()
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()
	return tx.Get(key)
}

func TestTxCommitAndRollback(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			tx, err := s.Begin(ctx)
			require.NoError(t, err)
			tx.Set("a", "1")
			tx.Set("b", "2")
			// read-your-writes before commit
			require.NotNil(t, tx.Get("a"))
			assert.Equal(t, "1", *tx.Get("a"))
			assert.Nil(t, get(t, s, "a"), "uncommitted write must not be visible")
			require.NoError(t, tx.Commit())

			assert.Equal(t, "1", *get(t, s, "a"))
			assert.Equal(t, "2", *get(t, s, "b"))

			tx, err = s.Begin(ctx)
			require.NoError(t, err)
			tx.Set("a", "changed")
			tx.Delete("b")
			assert.Nil(t, tx.Get("b"))
			tx.Rollback()

			assert.Equal(t, "1", *get(t, s, "a"))
			assert.Equal(t, "2", *get(t, s, "b"))

			tx, err = s.Begin(ctx)
			require.NoError(t, err)
			tx.Delete("b")
			require.NoError(t, tx.Commit())
			assert.Nil(t, get(t, s, "b"))
		})
	}
}

func TestTxFinished(t *testing.T) {
	tx, err := NewMemStore().Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.ErrorIs(t, tx.Commit(), ErrTxDone)

	tx, err = NewMemStore().Begin(context.Background())
	require.NoError(t, err)
	tx.Rollback()
	assert.ErrorIs(t, tx.Commit(), ErrTxDone)
}

func TestTxLatchesReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	applied := false
	tx := newTx(context.Background(),
		func(context.Context, string) (*string, error) { return nil, boom },
		func(context.Context, map[string]*string) error { applied = true; return nil },
	)
	tx.Set("x", "1")
	assert.Nil(t, tx.Get("missing"))
	assert.ErrorIs(t, tx.Err(), boom)
	assert.ErrorIs(t, tx.Commit(), boom)
	assert.False(t, applied)
}

func TestBinaryValuesSurvive(t *testing.T) {
	raw := string([]byte{0x01, 0x00, 0xff, 0xfe, 0x00, 0x7f})
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			tx, err := s.Begin(context.Background())
			require.NoError(t, err)
			tx.Set("cfg", raw)
			require.NoError(t, tx.Commit())
			got := get(t, s, "cfg")
			require.NotNil(t, got)
			assert.Equal(t, raw, *got)
		})
	}
}

func TestPrefixed(t *testing.T) {
	s := NewMemStore()
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	a := Prefix(tx, "sale-a/")
	b := Prefix(tx, "sale-b/")
	a.Set("cfg", "A")
	b.Set("cfg", "B")
	assert.Equal(t, "A", *a.Get("cfg"))
	assert.Equal(t, "B", *b.Get("cfg"))
	b.Delete("cfg")
	assert.Nil(t, b.Get("cfg"))
	require.NoError(t, tx.Commit())

	snap := s.Snapshot()
	assert.Equal(t, map[string]string{"sale-a/cfg": "A"}, snap)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)

	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	tx.Set("k", "v")
	require.NoError(t, tx.Commit())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string][]byte
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, []byte("v"), onDisk["k"])

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, "v", *get(t, reopened, "k"))
}

func TestSQLiteFilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sale.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	tx.Set("k", "v")
	require.NoError(t, tx.Commit())
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "v", *get(t, s, "k"))
}

// Stored sale records are binary: price bytes and long string lengths are not valid UTF-8.
func TestFileStoreKeepsSaleRecord(t *testing.T) {
	coll := sale.Address("contract:collection-1")
	cfg := &sale.Config{
		Owner:          "hive:owner",
		PaymentToken:   "contract:usd",
		Collection:     &coll,
		CollectionCode: "cw721",
		UnitPrice:      sale.NewAmount(200),
		MaxTokens:      300,
		Name:           strings.Repeat("n", 200),
		Symbol:         "OKI",
		TokenURI:       "ipfs://okinoko",
		Extension:      `{"edition":1}`,
		NextTokenID:    129,
	}
	record := string(sale.EncodeConfig(cfg))

	path := filepath.Join(t.TempDir(), "state.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	tx, err := s.Begin(context.Background())
	require.NoError(t, err)
	tx.Set("s/sale-1/cfg", record)
	require.NoError(t, tx.Commit())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	got := get(t, reopened, "s/sale-1/cfg")
	require.NotNil(t, got)
	assert.Equal(t, record, *got)

	decoded, err := sale.DecodeConfig([]byte(*got))
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}
