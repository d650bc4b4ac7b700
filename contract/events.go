package main

import (
	"strings"

	"okinoko_nftsale/contract/sale"
	"okinoko_nftsale/sdk"
)

// emitEvents writes each event as one terse line: ms|id:0|to:hive:foo|c:vsc1col.
// ns = new sale, nl = collection linked, ms = token minted.
func emitEvents(events []sale.Event) {
	for _, ev := range events {
		sdk.Log(formatEvent(ev))
	}
}

func formatEvent(ev sale.Event) string {
	var b strings.Builder
	b.WriteString(ev.Type)
	for _, a := range ev.Attributes {
		b.WriteByte('|')
		b.WriteString(a.Key)
		b.WriteByte(':')
		b.WriteString(a.Value)
	}
	return b.String()
}
