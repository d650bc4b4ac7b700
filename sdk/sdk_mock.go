//go:build !wasm

package sdk

import "strconv"

// In-memory stand-ins for the host imports so contracts run under go test.

// Call records one contracts.call made by the contract.
type Call struct {
	ContractId string
	Method     string
	Payload    string
	Options    string
}

// AbortError is the panic value Abort raises under the mock host.
type AbortError struct {
	Msg string
}

func (e *AbortError) Error() string { return e.Msg }

type mockHost struct {
	db     map[string]string
	env    Env
	calls  []Call
	logs   []string
	onCall func(Call) *string
}

var mock = newMockHost()

func newMockHost() *mockHost {
	return &mockHost{db: map[string]string{}}
}

// MockReset drops state, env, calls and logs.
func MockReset() {
	mock = newMockHost()
}

// MockSetEnv sets what GetEnv returns for the following calls.
func MockSetEnv(env Env) {
	if env.Caller == "" {
		env.Caller = env.Sender.Address
	}
	mock.env = env
}

// MockOnCall installs a responder for ContractCall. A nil responder returns nil.
func MockOnCall(fn func(Call) *string) {
	mock.onCall = fn
}

func MockCalls() []Call {
	return append([]Call(nil), mock.calls...)
}

func MockLogs() []string {
	return append([]string(nil), mock.logs...)
}

// MockState returns a copy of the contract kv.
func MockState() map[string]string {
	out := make(map[string]string, len(mock.db))
	for k, v := range mock.db {
		out[k] = v
	}
	return out
}

func Log(s string) {
	mock.logs = append(mock.logs, s)
}

func StateSetObject(key string, value string) {
	mock.db[key] = value
}

func StateGetObject(key string) *string {
	v, ok := mock.db[key]
	if !ok {
		return nil
	}
	return &v
}

func StateDeleteObject(key string) {
	delete(mock.db, key)
}

func GetEnv() Env {
	return mock.env
}

func GetEnvKey(key string) *string {
	var v string
	switch key {
	case "tx.id":
		v = mock.env.TxId
	case "contract.id":
		v = mock.env.ContractId
	case "msg.sender":
		v = mock.env.Sender.Address.String()
	case "msg.caller":
		v = mock.env.Caller.String()
	case "block.height":
		v = strconv.FormatUint(mock.env.BlockHeight, 10)
	case "block.timestamp":
		v = mock.env.Timestamp
	default:
		return nil
	}
	return &v
}

func ContractCall(contractId string, method string, payload string, options *ContractCallOptions) *string {
	c := Call{ContractId: contractId, Method: method, Payload: payload}
	if options != nil {
		c.Options = options.encode()
	}
	mock.calls = append(mock.calls, c)
	if mock.onCall != nil {
		return mock.onCall(c)
	}
	return nil
}

func Abort(msg string) {
	panic(&AbortError{Msg: msg})
}

