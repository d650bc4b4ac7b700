// Package collection is a minimal NFT collection contract for the local chain. It keeps
// only what the sale needs to be exercised end to end: a fixed minter, unique token ids
// and ownership lookups.
package collection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"okinoko_nftsale/contract/sale"
)

var (
	ErrAlreadyInstantiated = errors.New("collection already instantiated")
	ErrNotInstantiated     = errors.New("collection not instantiated")
	ErrUnauthorizedMinter  = errors.New("Unauthorized")
	ErrTokenExists         = errors.New("token_id already claimed")
	ErrTokenNotFound       = errors.New("token not found")
	ErrInvalidMint         = errors.New("invalid mint")
	ErrCorruptCount        = errors.New("corrupt token count")
)

const (
	infoKey  = "info"
	countKey = "num"
	tokenKey = "tok/"
)

// Collection reads and writes through a state scoped to one collection address.
type Collection struct {
	state sale.State
}

func Open(state sale.State) *Collection {
	return &Collection{state: state}
}

// Instantiate stores name, symbol and the fixed minter. It runs once.
func (c *Collection) Instantiate(msg sale.DeployCollection) error {
	if c.state.Get(infoKey) != nil {
		return ErrAlreadyInstantiated
	}
	if strings.TrimSpace(msg.Minter.String()) == "" {
		return fmt.Errorf("%w: minter is required", ErrInvalidMint)
	}
	raw, err := sale.Encode(msg)
	if err != nil {
		return err
	}
	c.state.Set(infoKey, string(raw))
	c.state.Set(countKey, "0")
	return nil
}

// Info returns the instantiate parameters.
func (c *Collection) Info() (sale.DeployCollection, error) {
	ptr := c.state.Get(infoKey)
	if ptr == nil {
		return sale.DeployCollection{}, ErrNotInstantiated
	}
	return sale.DecodeDeployCollection([]byte(*ptr))
}

// Execute applies a {"mint":{...}} payload sent by sender.
func (c *Collection) Execute(sender sale.Address, payload []byte) error {
	info, err := c.Info()
	if err != nil {
		return err
	}
	if sender != info.Minter {
		return fmt.Errorf("%w: %s is not the minter", ErrUnauthorizedMinter, sender)
	}
	mint, err := sale.DecodeMintNFT(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMint, err)
	}
	if mint.TokenID == "" || mint.Owner == "" {
		return fmt.Errorf("%w: token id and owner are required", ErrInvalidMint)
	}
	if c.state.Get(tokenKey+mint.TokenID) != nil {
		return fmt.Errorf("%w: %s", ErrTokenExists, mint.TokenID)
	}

	n, err := c.NumTokens()
	if err != nil {
		return err
	}
	raw, err := sale.Encode(mint)
	if err != nil {
		return err
	}
	c.state.Set(tokenKey+mint.TokenID, string(raw))
	c.state.Set(countKey, strconv.FormatUint(n+1, 10))
	return nil
}

// Token returns the stored mint for id.
func (c *Collection) Token(id string) (sale.MintNFT, error) {
	ptr := c.state.Get(tokenKey + id)
	if ptr == nil {
		return sale.MintNFT{}, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}
	return sale.DecodeMintNFT([]byte(*ptr))
}

func (c *Collection) OwnerOf(id string) (sale.Address, error) {
	tok, err := c.Token(id)
	if err != nil {
		return "", err
	}
	return tok.Owner, nil
}

func (c *Collection) NumTokens() (uint64, error) {
	ptr := c.state.Get(countKey)
	if ptr == nil {
		return 0, nil
	}
	n, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: token count %q", ErrCorruptCount, *ptr)
	}
	return n, nil
}
