//go:build !wasm

package sale

// Address identifies an account or contract on the host.
type Address string

func (a Address) String() string { return string(a) }
