package main

import (
	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/sdk"
)

// cachedEnv is scoped to the currently executing transaction. Whenever tx.id changes
// we refresh sdk.GetEnv() so reads stay consistent within one call.
var (
	cachedEnv       sdk.Env
	cachedEnvLoaded bool
)

// currentEnv caches the env per tx.id so we dont poke the host api every few lines.
func currentEnv() *sdk.Env {
	var currentTx string
	if txPtr := sdk.GetEnvKey("tx.id"); txPtr != nil {
		currentTx = *txPtr
	}
	if !cachedEnvLoaded || cachedEnv.TxId != currentTx {
		cachedEnv = sdk.GetEnv()
		cachedEnvLoaded = true
	}
	return &cachedEnv
}

// saleEnv translates the host env into what the sale logic reads.
func saleEnv() sale.Env {
	env := currentEnv()
	return sale.Env{
		Self:   sale.Address(env.ContractId),
		Sender: sale.Address(env.Caller),
		TxID:   env.TxId,
	}
}
