package main

import (
	"strings"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/sdk"
)

// payloadBytes trims the raw payload and aborts when it is empty.
func payloadBytes(payload *string, errMsg string) []byte {
	if payload == nil {
		sdk.Abort(errMsg)
	}
	raw := strings.TrimSpace(*payload)
	if raw == "" {
		sdk.Abort(errMsg)
	}
	return []byte(raw)
}

// abortOnErr surfaces err to the chain; the host drops every write of the call.
func abortOnErr(err error) {
	if err != nil {
		sdk.Abort(err.Error())
	}
}

func strptr(s string) *string { return &s }

func initSale(payload *string) *string {
	raw := payloadBytes(payload, "init payload required")
	resp, err := sale.New(hostState{}).Instantiate(saleEnv(), raw)
	abortOnErr(err)
	dispatchMessages(resp.Messages)
	emitEvents(resp.Events)
	return strptr("collection deployment requested")
}

// instantiateReply only accepts callbacks from the factory the sale asked to deploy.
// Order: correlation id, then link state, then caller. A foreign id always reads as
// InvalidTokenReplyId and any replay after linking as Cw721AlreadyLinked.
func instantiateReply(payload *string) *string {
	raw := payloadBytes(payload, "reply payload required")
	reply, err := sale.DecodeReply(raw)
	abortOnErr(err)
	if reply.ID != sale.InstantiateCollectionReplyID {
		sdk.Abort(sale.ErrInvalidCorrelation.Error() + ": " + sale.UInt64ToString(reply.ID))
	}

	cfg, err := sale.NewConfigStore(hostState{}).Load()
	abortOnErr(err)
	if cfg.LinkState() == sale.Linked {
		abortOnErr(sale.ErrAlreadyLinked)
	}
	if caller := currentEnv().Caller.String(); caller != cfg.CollectionCode {
		sdk.Abort("reply not from collection factory: " + caller)
	}

	resp, err := sale.HandleReply(hostState{}, reply)
	abortOnErr(err)
	emitEvents(resp.Events)
	return strptr("linked " + reply.Result.ContractAddress.String())
}

func receivePayment(payload *string) *string {
	raw := payloadBytes(payload, "receive payload required")
	resp, err := sale.New(hostState{}).Execute(saleEnv(), raw)
	abortOnErr(err)
	dispatchMessages(resp.Messages)
	emitEvents(resp.Events)
	return strptr("minted " + resp.Messages[0].Mint.TokenID)
}

func getConfig(payload *string) *string {
	query := `{"get_config":{}}`
	if payload != nil && strings.TrimSpace(*payload) != "" {
		query = *payload
	}
	out, err := sale.New(hostState{}).Query([]byte(query))
	abortOnErr(err)
	return strptr(string(out))
}
