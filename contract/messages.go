package main

import (
	"github.com/CosmWasm/tinyjson/jwriter"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/sdk"
)

const (
	// factoryInstantiateMethod is called on the collection code reference (a factory
	// contract) to deploy a collection. The factory answers later via instantiate_reply.
	factoryInstantiateMethod = "instantiate"
	collectionMintMethod     = "mint"
)

// dispatchMessages performs the outbound calls of a response in order.
func dispatchMessages(msgs []sale.SubMsg) {
	for _, m := range msgs {
		switch {
		case m.Deploy != nil:
			sdk.ContractCall(m.Deploy.CodeRef, factoryInstantiateMethod, deployRequest(m), nil)
		case m.Mint != nil:
			payload, err := sale.Encode(m.Mint)
			if err != nil {
				sdk.Abort("encode mint: " + err.Error())
			}
			sdk.ContractCall(m.Contract.String(), collectionMintMethod, string(payload), nil)
		}
	}
}

// deployRequest wraps the collection init msg with the reply id and label the factory
// echoes back: {"id":1,"label":"...","msg":{"name","symbol","minter"}}
func deployRequest(m sale.SubMsg) string {
	w := jwriter.Writer{}
	w.RawString(`{"id":`)
	w.Uint64(m.ReplyID)
	w.RawString(`,"label":`)
	w.String(m.Deploy.Label)
	w.RawString(`,"msg":`)
	m.Deploy.MarshalTinyJSON(&w)
	w.RawByte('}')
	b, err := w.BuildBytes()
	if err != nil {
		sdk.Abort("encode deploy request: " + err.Error())
	}
	return string(b)
}
