//go:build wasm

package sale

import "okinoko_nftsale/sdk"

type Address = sdk.Address
