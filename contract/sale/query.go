package sale

// GetConfig projects the stored record for observers. It never writes.
func GetConfig(state State) (*ConfigView, error) {
	cfg, err := NewConfigStore(state).Load()
	if err != nil {
		return nil, err
	}
	return &ConfigView{
		Owner:          cfg.Owner,
		PaymentToken:   cfg.PaymentToken,
		Collection:     cfg.Collection,
		CollectionCode: cfg.CollectionCode,
		UnitPrice:      cfg.UnitPrice,
		MaxTokens:      cfg.MaxTokens,
		Name:           cfg.Name,
		Symbol:         cfg.Symbol,
		TokenURI:       cfg.TokenURI,
		Extension:      cfg.Extension,
		NextTokenID:    cfg.NextTokenID,
		Linked:         cfg.LinkState() == Linked,
		Remaining:      cfg.Remaining(),
	}, nil
}
