package sdk

// Address is a VSC account or contract id in its literal form (hive:alice, did:key:..., contract ids).
type Address string

// String returns the literal representation of the address.
// Example payload: sdk.Address("hive:foo").String()
func (a Address) String() string {
	return string(a)
}
