package sale

import "fmt"

// Purchase validates one payment and, when it buys a token, emits the mint for the next id.
// Checks run in a fixed order and each failure leaves the record untouched.
func Purchase(state State, notice PaymentNotice) (*Response, error) {
	store := NewConfigStore(state)
	cfg, err := store.Load()
	if err != nil {
		return nil, err
	}

	if notice.PayingContract != cfg.PaymentToken {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorizedTokenContract, notice.PayingContract)
	}
	if cfg.Collection == nil {
		return nil, ErrUninitialized
	}
	if cfg.NextTokenID >= cfg.MaxTokens {
		return nil, ErrSoldOut
	}
	if notice.Amount != cfg.UnitPrice {
		return nil, fmt.Errorf("%w: got %s, price is %s", ErrWrongPaymentAmount, notice.Amount, cfg.UnitPrice)
	}

	tokenID := UInt64ToString(cfg.NextTokenID)
	mint := &MintNFT{
		TokenID:   tokenID,
		Owner:     notice.Sender,
		TokenURI:  cfg.TokenURI,
		Extension: cfg.Extension,
	}
	collection := *cfg.Collection

	// counter and message leave together; the host commits or drops both
	cfg.NextTokenID++
	if err := store.Save(cfg); err != nil {
		return nil, err
	}

	resp := &Response{}
	resp.addMessage(SubMsg{Contract: collection, Mint: mint})
	resp.addEvent("ms",
		"id", tokenID,
		"to", notice.Sender.String(),
		"c", collection.String(),
	)
	return resp, nil
}
