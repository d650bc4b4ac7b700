package sdk

import (
	"strconv"
	"strings"

	"github.com/CosmWasm/tinyjson/jlexer"
)

type Intent struct {
	Type string
	Args map[string]string
}

type Sender struct {
	Address              Address
	RequiredAuths        []Address
	RequiredPostingAuths []Address
}

// Env is the host's description of the running call.
type Env struct {
	ContractId  string
	TxId        string
	BlockHeight uint64
	Timestamp   string
	Sender      Sender
	// Caller is the immediate caller; a contract when invoked through contracts.call.
	Caller  Address
	Intents []Intent
}

// ParseEnv maps the flat JSON env blob ("msg.sender", "tx.id", ...) onto Env.
// Unknown keys are skipped so newer hosts do not break old contracts.
func ParseEnv(data []byte) (Env, error) {
	env := Env{}
	in := jlexer.Lexer{Data: data}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "contract.id":
			env.ContractId = in.String()
		case "tx.id":
			env.TxId = in.String()
		case "block.height":
			raw := strings.Trim(string(in.Raw()), `"`)
			env.BlockHeight, _ = strconv.ParseUint(raw, 10, 64)
		case "block.timestamp":
			env.Timestamp = in.String()
		case "msg.sender":
			env.Sender.Address = Address(in.String())
		case "msg.caller":
			env.Caller = Address(in.String())
		case "msg.required_auths":
			env.Sender.RequiredAuths = readAddresses(&in)
		case "msg.required_posting_auths":
			env.Sender.RequiredPostingAuths = readAddresses(&in)
		case "intents":
			env.Intents = readIntents(&in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	in.Consumed()
	if err := in.Error(); err != nil {
		return Env{}, err
	}
	if env.Caller == "" {
		env.Caller = env.Sender.Address
	}
	return env, nil
}

func readAddresses(in *jlexer.Lexer) []Address {
	out := make([]Address, 0)
	in.Delim('[')
	for !in.IsDelim(']') {
		out = append(out, Address(in.String()))
		in.WantComma()
	}
	in.Delim(']')
	return out
}

func readIntents(in *jlexer.Lexer) []Intent {
	var out []Intent
	in.Delim('[')
	for !in.IsDelim(']') {
		intent := Intent{Args: map[string]string{}}
		in.Delim('{')
		for !in.IsDelim('}') {
			key := in.UnsafeString()
			in.WantColon()
			switch key {
			case "type":
				intent.Type = in.String()
			case "args":
				in.Delim('{')
				for !in.IsDelim('}') {
					k := in.String()
					in.WantColon()
					intent.Args[k] = in.String()
					in.WantComma()
				}
				in.Delim('}')
			default:
				in.SkipRecursive()
			}
			in.WantComma()
		}
		in.Delim('}')
		out = append(out, intent)
		in.WantComma()
	}
	in.Delim(']')
	return out
}
