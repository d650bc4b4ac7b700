package sale

// Config is the single persisted record of a sale instance.
type Config struct {
	Owner          Address
	PaymentToken   Address
	Collection     *Address
	CollectionCode string
	UnitPrice      Amount
	MaxTokens      uint64
	Name           string
	Symbol         string
	TokenURI       string
	// Extension is raw JSON forwarded untouched with every mint; empty means none.
	Extension   string
	NextTokenID uint64
}

// LinkState derives the linkage state from the stored collection address.
func (c *Config) LinkState() LinkState {
	if c.Collection == nil {
		return Unlinked
	}
	return Linked
}

// Remaining is the number of tokens still for sale.
func (c *Config) Remaining() uint64 {
	if c.NextTokenID >= c.MaxTokens {
		return 0
	}
	return c.MaxTokens - c.NextTokenID
}

// ConfigView is the read-only projection returned by get_config.
type ConfigView struct {
	Owner          Address
	PaymentToken   Address
	Collection     *Address
	CollectionCode string
	UnitPrice      Amount
	MaxTokens      uint64
	Name           string
	Symbol         string
	TokenURI       string
	Extension      string
	NextTokenID    uint64
	Linked         bool
	Remaining      uint64
}

// Env is what the host tells a contract about the current call.
type Env struct {
	// Self is the address of the executing contract.
	Self Address
	// Sender is the immediate caller. For receive it is the token contract.
	Sender Address
	TxID   string
}

// InstantiateMsg is the contract_init payload.
type InstantiateMsg struct {
	PaymentToken   Address
	UnitPrice      Amount
	MaxTokens      uint64
	Name           string
	Symbol         string
	TokenURI       string
	Extension      string
	CollectionCode string
}

// ReceiveMsg is the notification a token contract sends after moving funds to us.
type ReceiveMsg struct {
	Sender Address
	Amount Amount
	Msg    string
}

// ExecuteMsg is the tagged union of state changing calls. Exactly one field is set.
type ExecuteMsg struct {
	Receive *ReceiveMsg
}

// QueryMsg is the tagged union of reads. Exactly one field is set.
type QueryMsg struct {
	GetConfig *struct{}
}

// PaymentNotice is a decoded receive call together with the contract that sent it.
type PaymentNotice struct {
	Sender         Address
	PayingContract Address
	Amount         Amount
	Msg            string
}

// Reply is the deployment callback delivered by the host after a sub-message settles.
type Reply struct {
	ID     uint64
	Result ReplyResult
}

// ReplyResult holds either the deployed address or the failure reason.
type ReplyResult struct {
	ContractAddress *Address
	Error           string
}

// DeployCollection asks the deployment subsystem to create a collection contract.
// Minter is fixed at deployment and cannot be reassigned later.
type DeployCollection struct {
	CodeRef string
	Name    string
	Symbol  string
	Minter  Address
	Label   string
}

// MintNFT instructs the linked collection to mint one token.
type MintNFT struct {
	TokenID   string
	Owner     Address
	TokenURI  string
	Extension string
}

// SubMsg is one outbound instruction. Exactly one of Deploy or Mint is set.
type SubMsg struct {
	// ReplyID correlates the eventual callback; zero means no callback wanted.
	ReplyID uint64
	// Contract is the target of Mint.
	Contract Address
	Deploy   *DeployCollection
	Mint     *MintNFT
}

// Attribute is one key/value pair of an Event.
type Attribute struct {
	Key   string
	Value string
}

// Event is a short log line that indexers can follow.
type Event struct {
	Type       string
	Attributes []Attribute
}

// Response collects everything an operation emits on success.
type Response struct {
	Messages []SubMsg
	Events   []Event
}

func (r *Response) addMessage(m SubMsg) *Response {
	r.Messages = append(r.Messages, m)
	return r
}

func (r *Response) addEvent(typ string, kv ...string) *Response {
	ev := Event{Type: typ}
	for i := 0; i+1 < len(kv); i += 2 {
		ev.Attributes = append(ev.Attributes, Attribute{Key: kv[i], Value: kv[i+1]})
	}
	r.Events = append(r.Events, ev)
	return r
}
