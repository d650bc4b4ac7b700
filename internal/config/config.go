// Package config reads the YAML scenario files the nftsale CLI runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"okinoko_nftsale/contract/sale"
)

const (
	storeEnv = "NFTSALE_DB"
	logEnv   = "NFTSALE_LOG"

	defaultOwner = "hive:owner"
	defaultCode  = "cw721"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario describes one sale and the purchases to replay against it.
type Scenario struct {
	// Store is a SQLite path; empty keeps everything in memory.
	Store string `yaml:"store"`
	// StateFile is a JSON state file used instead of SQLite.
	StateFile string `yaml:"state_file"`
	Log   string `yaml:"log"`
	// Codes are extra collection code references the local chain can deploy.
	Codes     []string   `yaml:"codes"`
	Owner     string     `yaml:"owner"`
	Sale      SaleSpec   `yaml:"sale"`
	Purchases []Purchase `yaml:"purchases"`
}

type SaleSpec struct {
	PaymentToken   string `yaml:"payment_token"`
	UnitPrice      string `yaml:"unit_price"`
	MaxTokens      uint64 `yaml:"max_tokens"`
	Name           string `yaml:"name"`
	Symbol         string `yaml:"symbol"`
	TokenURI       string `yaml:"token_uri"`
	Extension      string `yaml:"extension"`
	CollectionCode string `yaml:"collection_code"`
}

type Purchase struct {
	Buyer string `yaml:"buyer"`
	// Token is the paying contract; defaults to the sale's payment token.
	Token  string `yaml:"token"`
	Amount string `yaml:"amount"`
	// Expect is a substring of the error this purchase must fail with.
	Expect string `yaml:"expect"`
}

// Load reads path and applies environment overrides and defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) applyDefaults() {
	if v := strings.TrimSpace(os.Getenv(storeEnv)); v != "" {
		sc.Store = v
	}
	if v := strings.TrimSpace(os.Getenv(logEnv)); v != "" {
		sc.Log = v
	}
	if sc.Log == "" {
		sc.Log = "dev"
	}
	if sc.Owner == "" {
		sc.Owner = defaultOwner
	}
	if sc.Sale.CollectionCode == "" {
		sc.Sale.CollectionCode = defaultCode
	}
	for i := range sc.Purchases {
		p := &sc.Purchases[i]
		if p.Token == "" {
			p.Token = sc.Sale.PaymentToken
		}
		if p.Amount == "" {
			p.Amount = sc.Sale.UnitPrice
		}
	}
}

// Validate checks what the YAML layer can see. Business rules such as a positive price
// stay with the sale itself so a scenario can exercise them.
func (sc *Scenario) Validate() error {
	if sc.Store != "" && sc.StateFile != "" {
		return fmt.Errorf("%w: store and state_file are mutually exclusive", ErrInvalidScenario)
	}
	if _, err := sale.ParseAmount(sc.Sale.UnitPrice); err != nil {
		return fmt.Errorf("%w: sale.unit_price %q: %v", ErrInvalidScenario, sc.Sale.UnitPrice, err)
	}
	for i, p := range sc.Purchases {
		if strings.TrimSpace(p.Buyer) == "" {
			return fmt.Errorf("%w: purchases[%d].buyer is required", ErrInvalidScenario, i)
		}
		if _, err := sale.ParseAmount(p.Amount); err != nil {
			return fmt.Errorf("%w: purchases[%d].amount %q: %v", ErrInvalidScenario, i, p.Amount, err)
		}
	}
	return nil
}

// InstantiateMsg converts the sale section into the contract_init message.
func (sc *Scenario) InstantiateMsg() (sale.InstantiateMsg, error) {
	price, err := sale.ParseAmount(sc.Sale.UnitPrice)
	if err != nil {
		return sale.InstantiateMsg{}, err
	}
	return sale.InstantiateMsg{
		PaymentToken:   sale.Address(sc.Sale.PaymentToken),
		UnitPrice:      price,
		MaxTokens:      sc.Sale.MaxTokens,
		Name:           sc.Sale.Name,
		Symbol:         sc.Sale.Symbol,
		TokenURI:       sc.Sale.TokenURI,
		Extension:      sc.Sale.Extension,
		CollectionCode: sc.Sale.CollectionCode,
	}, nil
}
