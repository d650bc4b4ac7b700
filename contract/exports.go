//go:build wasm

package main

// -----------------------------------------------------------------------------
// Entry points
// -----------------------------------------------------------------------------

// ContractInit stores the sale parameters with the caller as owner and requests the
// collection deployment.
// Payload: {"payment_token","unit_price","max_tokens","name","symbol","token_uri","extension","collection_code"}
//
//go:wasmexport contract_init
func ContractInit(payload *string) *string {
	return initSale(payload)
}

// InstantiateReply receives the deployment result from the collection factory.
// Payload: {"id":1,"result":{"ok":{"contract_address":"..."}}}
//
//go:wasmexport instantiate_reply
func InstantiateReply(payload *string) *string {
	return instantiateReply(payload)
}

// Receive is called by the payment token contract after it moved funds to the sale.
// Payload: {"receive":{"sender","amount","msg"}}
//
//go:wasmexport receive
func Receive(payload *string) *string {
	return receivePayment(payload)
}

// GetConfig returns the current configuration as JSON.
//
//go:wasmexport get_config
func GetConfig(payload *string) *string {
	return getConfig(payload)
}
