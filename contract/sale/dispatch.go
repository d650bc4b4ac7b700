package sale

// Contract routes decoded entry payloads to the linkage, mint and query components.
// It holds no state of its own beyond the injected State.
type Contract struct {
	state State
}

func New(state State) *Contract {
	return &Contract{state: state}
}

// Instantiate handles contract_init. The caller becomes the owner.
func (c *Contract) Instantiate(env Env, payload []byte) (*Response, error) {
	msg, err := DecodeInstantiateMsg(payload)
	if err != nil {
		return nil, err
	}
	return Instantiate(c.state, env, msg)
}

// Execute handles state changing calls. For receive the paying contract is the caller.
func (c *Contract) Execute(env Env, payload []byte) (*Response, error) {
	msg, err := DecodeExecuteMsg(payload)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.Receive != nil:
		return Purchase(c.state, PaymentNotice{
			Sender:         msg.Receive.Sender,
			PayingContract: env.Sender,
			Amount:         msg.Receive.Amount,
			Msg:            msg.Receive.Msg,
		})
	}
	return nil, errEmptyMessage
}

// Reply handles the deployment callback.
func (c *Contract) Reply(payload []byte) (*Response, error) {
	reply, err := DecodeReply(payload)
	if err != nil {
		return nil, err
	}
	return HandleReply(c.state, reply)
}

// Query answers reads with a JSON document.
func (c *Contract) Query(payload []byte) ([]byte, error) {
	msg, err := DecodeQueryMsg(payload)
	if err != nil {
		return nil, err
	}
	switch {
	case msg.GetConfig != nil:
		view, err := GetConfig(c.state)
		if err != nil {
			return nil, err
		}
		return Encode(view)
	}
	return nil, errEmptyMessage
}
