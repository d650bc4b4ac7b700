package sale

import (
	"errors"
	"fmt"

	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
)

// decodeObject walks one JSON object and hands every non-null field to fn.
func decodeObject(in *jlexer.Lexer, fn func(key string)) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeString()
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		fn(key)
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func unknownVariant(in *jlexer.Lexer, key string) {
	in.AddError(&jlexer.LexerError{Reason: "unknown variant " + key})
}

// readAmount reads a quoted decimal amount.
func readAmount(in *jlexer.Lexer) Amount {
	s := in.String()
	a, err := ParseAmount(s)
	if err != nil && in.Ok() {
		in.AddError(&jlexer.LexerError{Reason: "invalid amount " + s})
	}
	return a
}

func writeRawOrNull(out *jwriter.Writer, raw string) {
	if raw == "" {
		out.RawString("null")
		return
	}
	out.Raw([]byte(raw), nil)
}

// ---------------------------------------------------------------------------
// InstantiateMsg
// ---------------------------------------------------------------------------

func (v InstantiateMsg) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"payment_token":`)
	out.String(v.PaymentToken.String())
	out.RawString(`,"unit_price":`)
	out.String(v.UnitPrice.String())
	out.RawString(`,"max_tokens":`)
	out.Uint64(v.MaxTokens)
	out.RawString(`,"name":`)
	out.String(v.Name)
	out.RawString(`,"symbol":`)
	out.String(v.Symbol)
	out.RawString(`,"token_uri":`)
	out.String(v.TokenURI)
	out.RawString(`,"extension":`)
	writeRawOrNull(out, v.Extension)
	out.RawString(`,"collection_code":`)
	out.String(v.CollectionCode)
	out.RawByte('}')
}

func (v *InstantiateMsg) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "payment_token":
			v.PaymentToken = Address(in.String())
		case "unit_price":
			v.UnitPrice = readAmount(in)
		case "max_tokens":
			v.MaxTokens = in.Uint64()
		case "name":
			v.Name = in.String()
		case "symbol":
			v.Symbol = in.String()
		case "token_uri":
			v.TokenURI = in.String()
		case "extension":
			v.Extension = string(in.Raw())
		case "collection_code":
			v.CollectionCode = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

// ---------------------------------------------------------------------------
// ExecuteMsg
// ---------------------------------------------------------------------------

func (v ReceiveMsg) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"sender":`)
	out.String(v.Sender.String())
	out.RawString(`,"amount":`)
	out.String(v.Amount.String())
	out.RawString(`,"msg":`)
	out.String(v.Msg)
	out.RawByte('}')
}

func (v *ReceiveMsg) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "sender":
			v.Sender = Address(in.String())
		case "amount":
			v.Amount = readAmount(in)
		case "msg":
			v.Msg = in.String()
		default:
			in.SkipRecursive()
		}
	})
}

func (v ExecuteMsg) MarshalTinyJSON(out *jwriter.Writer) {
	switch {
	case v.Receive != nil:
		out.RawString(`{"receive":`)
		v.Receive.MarshalTinyJSON(out)
		out.RawByte('}')
	default:
		out.RawString("{}")
	}
}

func (v *ExecuteMsg) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "receive":
			v.Receive = &ReceiveMsg{}
			v.Receive.UnmarshalTinyJSON(in)
		default:
			unknownVariant(in, key)
		}
	})
}

// ---------------------------------------------------------------------------
// QueryMsg
// ---------------------------------------------------------------------------

func (v QueryMsg) MarshalTinyJSON(out *jwriter.Writer) {
	if v.GetConfig != nil {
		out.RawString(`{"get_config":{}}`)
		return
	}
	out.RawString("{}")
}

func (v *QueryMsg) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "get_config":
			in.SkipRecursive()
			v.GetConfig = &struct{}{}
		default:
			unknownVariant(in, key)
		}
	})
}

// ---------------------------------------------------------------------------
// Reply
// ---------------------------------------------------------------------------

func (v Reply) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"id":`)
	out.Uint64(v.ID)
	out.RawString(`,"result":`)
	switch {
	case v.Result.Error != "":
		out.RawString(`{"error":`)
		out.String(v.Result.Error)
		out.RawByte('}')
	case v.Result.ContractAddress != nil:
		out.RawString(`{"ok":{"contract_address":`)
		out.String(v.Result.ContractAddress.String())
		out.RawString("}}")
	default:
		out.RawString(`{"ok":{}}`)
	}
	out.RawByte('}')
}

func (v *Reply) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "id":
			v.ID = in.Uint64()
		case "result":
			decodeObject(in, func(key string) {
				switch key {
				case "ok":
					decodeObject(in, func(key string) {
						switch key {
						case "contract_address":
							a := Address(in.String())
							v.Result.ContractAddress = &a
						default:
							in.SkipRecursive()
						}
					})
				case "error":
					v.Result.Error = in.String()
				default:
					unknownVariant(in, key)
				}
			})
		default:
			in.SkipRecursive()
		}
	})
}

// ---------------------------------------------------------------------------
// ConfigView
// ---------------------------------------------------------------------------

func (v ConfigView) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"owner":`)
	out.String(v.Owner.String())
	out.RawString(`,"payment_token":`)
	out.String(v.PaymentToken.String())
	out.RawString(`,"collection":`)
	if v.Collection == nil {
		out.RawString("null")
	} else {
		out.String(v.Collection.String())
	}
	out.RawString(`,"collection_code":`)
	out.String(v.CollectionCode)
	out.RawString(`,"unit_price":`)
	out.String(v.UnitPrice.String())
	out.RawString(`,"max_tokens":`)
	out.Uint64(v.MaxTokens)
	out.RawString(`,"name":`)
	out.String(v.Name)
	out.RawString(`,"symbol":`)
	out.String(v.Symbol)
	out.RawString(`,"token_uri":`)
	out.String(v.TokenURI)
	out.RawString(`,"extension":`)
	writeRawOrNull(out, v.Extension)
	out.RawString(`,"next_token_id":`)
	out.Uint64(v.NextTokenID)
	out.RawString(`,"linked":`)
	out.Bool(v.Linked)
	out.RawString(`,"remaining":`)
	out.Uint64(v.Remaining)
	out.RawByte('}')
}

func (v *ConfigView) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "owner":
			v.Owner = Address(in.String())
		case "payment_token":
			v.PaymentToken = Address(in.String())
		case "collection":
			a := Address(in.String())
			v.Collection = &a
		case "collection_code":
			v.CollectionCode = in.String()
		case "unit_price":
			v.UnitPrice = readAmount(in)
		case "max_tokens":
			v.MaxTokens = in.Uint64()
		case "name":
			v.Name = in.String()
		case "symbol":
			v.Symbol = in.String()
		case "token_uri":
			v.TokenURI = in.String()
		case "extension":
			v.Extension = string(in.Raw())
		case "next_token_id":
			v.NextTokenID = in.Uint64()
		case "linked":
			v.Linked = in.Bool()
		case "remaining":
			v.Remaining = in.Uint64()
		default:
			in.SkipRecursive()
		}
	})
}

// ---------------------------------------------------------------------------
// Outbound collection messages
// ---------------------------------------------------------------------------

func (v MintNFT) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"mint":{"token_id":`)
	out.String(v.TokenID)
	out.RawString(`,"owner":`)
	out.String(v.Owner.String())
	out.RawString(`,"token_uri":`)
	out.String(v.TokenURI)
	out.RawString(`,"extension":`)
	writeRawOrNull(out, v.Extension)
	out.RawString("}}")
}

func (v *MintNFT) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		if key != "mint" {
			unknownVariant(in, key)
			return
		}
		decodeObject(in, func(key string) {
			switch key {
			case "token_id":
				v.TokenID = in.String()
			case "owner":
				v.Owner = Address(in.String())
			case "token_uri":
				v.TokenURI = in.String()
			case "extension":
				v.Extension = string(in.Raw())
			default:
				in.SkipRecursive()
			}
		})
	})
}

// MarshalTinyJSON writes the collection's instantiate payload. CodeRef and Label travel
// outside the payload, as call target and log label.
func (v DeployCollection) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"name":`)
	out.String(v.Name)
	out.RawString(`,"symbol":`)
	out.String(v.Symbol)
	out.RawString(`,"minter":`)
	out.String(v.Minter.String())
	out.RawByte('}')
}

func (v *DeployCollection) UnmarshalTinyJSON(in *jlexer.Lexer) {
	decodeObject(in, func(key string) {
		switch key {
		case "name":
			v.Name = in.String()
		case "symbol":
			v.Symbol = in.String()
		case "minter":
			v.Minter = Address(in.String())
		default:
			in.SkipRecursive()
		}
	})
}

// ---------------------------------------------------------------------------
// Entry helpers
// ---------------------------------------------------------------------------

var errEmptyMessage = errors.New("message names no operation")

func DecodeInstantiateMsg(data []byte) (InstantiateMsg, error) {
	var msg InstantiateMsg
	if err := tinyjson.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode instantiate msg: %w", err)
	}
	return msg, nil
}

func DecodeExecuteMsg(data []byte) (ExecuteMsg, error) {
	var msg ExecuteMsg
	if err := tinyjson.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode execute msg: %w", err)
	}
	if msg.Receive == nil {
		return msg, errEmptyMessage
	}
	return msg, nil
}

func DecodeQueryMsg(data []byte) (QueryMsg, error) {
	var msg QueryMsg
	if err := tinyjson.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decode query msg: %w", err)
	}
	if msg.GetConfig == nil {
		return msg, errEmptyMessage
	}
	return msg, nil
}

// DecodeReply parses a deployment callback. Any decode failure is ErrMalformedReply.
func DecodeReply(data []byte) (Reply, error) {
	var r Reply
	if err := tinyjson.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return r, nil
}

func DecodeConfigView(data []byte) (ConfigView, error) {
	var v ConfigView
	if err := tinyjson.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode config view: %w", err)
	}
	return v, nil
}

func DecodeMintNFT(data []byte) (MintNFT, error) {
	var m MintNFT
	if err := tinyjson.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode mint msg: %w", err)
	}
	return m, nil
}

func DecodeDeployCollection(data []byte) (DeployCollection, error) {
	var d DeployCollection
	if err := tinyjson.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("decode collection init msg: %w", err)
	}
	return d, nil
}

// Encode marshals any message of this package.
func Encode(v tinyjson.Marshaler) ([]byte, error) {
	return tinyjson.Marshal(v)
}

// validJSON reports whether raw holds exactly one JSON value.
func validJSON(raw string) bool {
	in := jlexer.Lexer{Data: []byte(raw)}
	in.SkipRecursive()
	in.Consumed()
	return in.Error() == nil
}
