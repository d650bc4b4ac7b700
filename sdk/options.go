package sdk

import (
	"sort"

	"github.com/CosmWasm/tinyjson/jwriter"
)

type ContractCallOptions struct {
	Intents []Intent
}

// encode renders the options the way contracts.call expects them; args are key-sorted.
func (o *ContractCallOptions) encode() string {
	w := jwriter.Writer{}
	w.RawByte('{')
	if len(o.Intents) > 0 {
		w.RawString(`"intents":[`)
		for i, intent := range o.Intents {
			if i > 0 {
				w.RawByte(',')
			}
			w.RawString(`{"type":`)
			w.String(intent.Type)
			w.RawString(`,"args":{`)
			keys := make([]string, 0, len(intent.Args))
			for k := range intent.Args {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for j, k := range keys {
				if j > 0 {
					w.RawByte(',')
				}
				w.String(k)
				w.RawByte(':')
				w.String(intent.Args[k])
			}
			w.RawString("}}")
		}
		w.RawByte(']')
	}
	w.RawByte('}')
	b, _ := w.BuildBytes()
	return string(b)
}
