package sale

import (
	"fmt"
	"strings"
)

// InstantiateCollectionReplyID tags the one deployment request a sale ever issues.
const InstantiateCollectionReplyID uint64 = 1

const collectionLabel = "Instantiate fixed price NFT contract"

// LinkState is the position of a sale in the deploy/capture handshake.
type LinkState uint8

const (
	Unlinked LinkState = iota
	Linked
)

func (s LinkState) String() string {
	if s == Linked {
		return "linked"
	}
	return "unlinked"
}

// Instantiate persists the initial record and requests deployment of the collection
// with this contract as its only minter.
func Instantiate(state State, env Env, msg InstantiateMsg) (*Response, error) {
	cfg, err := NewConfigStore(state).Create(msg, env.Sender)
	if err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addMessage(SubMsg{
		ReplyID: InstantiateCollectionReplyID,
		Deploy: &DeployCollection{
			CodeRef: cfg.CollectionCode,
			Name:    cfg.Name,
			Symbol:  cfg.Symbol,
			Minter:  env.Self,
			Label:   collectionLabel,
		},
	})
	resp.addEvent("ns",
		"by", cfg.Owner.String(),
		"tk", cfg.PaymentToken.String(),
		"p", cfg.UnitPrice.String(),
		"max", UInt64ToString(cfg.MaxTokens),
	)
	return resp, nil
}

// HandleReply captures the deployed collection address. The correlation id is checked
// before anything else so a foreign callback never touches state.
func HandleReply(state State, reply Reply) (*Response, error) {
	if reply.ID != InstantiateCollectionReplyID {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCorrelation, reply.ID)
	}

	store := NewConfigStore(state)
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}
	if cfg.LinkState() == Linked {
		return nil, ErrAlreadyLinked
	}

	if reply.Result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrDeploymentFailed, reply.Result.Error)
	}
	if reply.Result.ContractAddress == nil {
		return nil, fmt.Errorf("%w: no contract address", ErrMalformedReply)
	}
	addr := Address(strings.TrimSpace(reply.Result.ContractAddress.String()))
	if addr == "" {
		return nil, fmt.Errorf("%w: empty contract address", ErrMalformedReply)
	}

	cfg.Collection = &addr
	if err := store.Save(cfg); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addEvent("nl", "c", addr.String())
	return resp, nil
}
