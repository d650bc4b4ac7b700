package main

import "okinoko_nftsale/sdk"

// hostState adapts the contract kv to sale.State. The host rolls back every write of a
// call that aborts, which gives each entry point all-or-nothing semantics.
type hostState struct{}

func (hostState) Set(key, value string) {
	sdk.StateSetObject(key, value)
}

func (hostState) Get(key string) *string {
	return sdk.StateGetObject(key)
}

func (hostState) Delete(key string) {
	sdk.StateDeleteObject(key)
}
