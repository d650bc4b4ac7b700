package chain

import (
	"errors"
	"strings"

	"okinoko_nftsale/contract/sale"
)

const queueKey = "chain/pending"

// errReplyGone means another caller delivered the reply first.
var errReplyGone = errors.New("queued reply already delivered")

type pendingReply struct {
	Sale    sale.Address
	Payload []byte
}

// The queue is one value of "<sale>\t<reply json>" lines, oldest first. Encoded replies
// are compact JSON and never contain raw tabs or newlines.
func loadQueue(u *unit) ([]pendingReply, error) {
	ptr := u.tx.Get(queueKey)
	if ptr == nil || *ptr == "" {
		return nil, u.tx.Err()
	}
	lines := strings.Split(*ptr, "\n")
	out := make([]pendingReply, 0, len(lines))
	for _, line := range lines {
		addr, payload, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, errors.New("corrupt reply queue")
		}
		out = append(out, pendingReply{Sale: sale.Address(addr), Payload: []byte(payload)})
	}
	return out, nil
}

func saveQueue(u *unit, q []pendingReply) {
	if len(q) == 0 {
		u.tx.Delete(queueKey)
		return
	}
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Sale.String())
		b.WriteByte('\t')
		b.Write(p.Payload)
	}
	u.tx.Set(queueKey, b.String())
}

func enqueue(u *unit, to sale.Address, reply sale.Reply) error {
	payload, err := sale.Encode(reply)
	if err != nil {
		return err
	}
	q, err := loadQueue(u)
	if err != nil {
		return err
	}
	saveQueue(u, append(q, pendingReply{Sale: to, Payload: payload}))
	return nil
}

// dequeue removes the first entry equal to p.
func dequeue(u *unit, p pendingReply) error {
	q, err := loadQueue(u)
	if err != nil {
		return err
	}
	for i, e := range q {
		if e.Sale == p.Sale && string(e.Payload) == string(p.Payload) {
			saveQueue(u, append(q[:i:i], q[i+1:]...))
			return nil
		}
	}
	return errReplyGone
}
