package sale

import (
	"fmt"
	"strings"
)

// State is the key/value surface a sale needs from its host.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// ConfigKey is where the single configuration record lives.
const ConfigKey = "cfg"

// ConfigStore is a single-row table over State. Every Save overwrites the full record.
type ConfigStore struct {
	state State
}

func NewConfigStore(state State) *ConfigStore {
	return &ConfigStore{state: state}
}

// Exists reports whether the record has been created.
func (s *ConfigStore) Exists() bool {
	ptr := s.state.Get(ConfigKey)
	return ptr != nil && *ptr != ""
}

// NewConfig validates setup parameters and builds the initial, unlinked record.
func NewConfig(msg InstantiateMsg, owner Address) (*Config, error) {
	if msg.UnitPrice.IsZero() {
		return nil, ErrInvalidUnitPrice
	}
	if msg.MaxTokens == 0 {
		return nil, ErrInvalidMaxTokens
	}
	if strings.TrimSpace(msg.PaymentToken.String()) == "" {
		return nil, ErrMissingPaymentToken
	}
	if strings.TrimSpace(msg.CollectionCode) == "" {
		return nil, ErrMissingCollectionCode
	}
	if msg.Extension != "" && !validJSON(msg.Extension) {
		return nil, ErrInvalidExtension
	}
	return &Config{
		Owner:          owner,
		PaymentToken:   msg.PaymentToken,
		CollectionCode: msg.CollectionCode,
		UnitPrice:      msg.UnitPrice,
		MaxTokens:      msg.MaxTokens,
		Name:           msg.Name,
		Symbol:         msg.Symbol,
		TokenURI:       msg.TokenURI,
		Extension:      msg.Extension,
	}, nil
}

// Create validates and persists the initial record. Nothing is written on failure.
func (s *ConfigStore) Create(msg InstantiateMsg, owner Address) (*Config, error) {
	if s.Exists() {
		return nil, ErrAlreadyInitialized
	}
	cfg, err := NewConfig(msg, owner)
	if err != nil {
		return nil, err
	}
	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load returns the record or ErrUninitialized when the instance was never set up.
func (s *ConfigStore) Load() (*Config, error) {
	ptr := s.state.Get(ConfigKey)
	if ptr == nil || *ptr == "" {
		return nil, ErrUninitialized
	}
	cfg, err := DecodeConfig([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if err := checkInvariants(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save overwrites the record in one write.
func (s *ConfigStore) Save(cfg *Config) error {
	if err := checkInvariants(cfg); err != nil {
		return err
	}
	s.state.Set(ConfigKey, string(EncodeConfig(cfg)))
	return nil
}

func checkInvariants(cfg *Config) error {
	switch {
	case cfg.UnitPrice.IsZero():
		return fmt.Errorf("%w: unit price is zero", ErrCorruptState)
	case cfg.MaxTokens == 0:
		return fmt.Errorf("%w: max tokens is zero", ErrCorruptState)
	case cfg.NextTokenID > cfg.MaxTokens:
		return fmt.Errorf("%w: next token id %d beyond cap %d", ErrCorruptState, cfg.NextTokenID, cfg.MaxTokens)
	}
	return nil
}
