package sale

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// configVersion prefixes every stored record so the layout can evolve.
// Version 1 stored the price in 8 bytes; version 2 stores 16.
const (
	configVersionV1 byte = 1
	configVersion   byte = 2
)

type binWriter struct {
	buf bytes.Buffer
}

func newWriter() *binWriter { return &binWriter{} }

func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeAmount(a Amount) {
	hi, lo := a.words()
	w.writeUint64(hi)
	w.writeUint64(lo)
}

func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a Address) {
	w.writeString(a.String())
}

func (w *binWriter) writeOptionalAddress(a *Address) {
	if a == nil {
		w.writeBool(false)
		return
	}
	w.writeBool(true)
	w.writeAddress(*a)
}

// EncodeConfig serializes the record to the compact binary form kept in state.
func EncodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.buf.WriteByte(configVersion)
	w.writeAddress(cfg.Owner)
	w.writeAddress(cfg.PaymentToken)
	w.writeOptionalAddress(cfg.Collection)
	w.writeString(cfg.CollectionCode)
	w.writeAmount(cfg.UnitPrice)
	w.writeUint64(cfg.MaxTokens)
	w.writeString(cfg.Name)
	w.writeString(cfg.Symbol)
	w.writeString(cfg.TokenURI)
	w.writeString(cfg.Extension)
	w.writeUint64(cfg.NextTokenID)
	return w.bytes()
}

// ------------------------------------------------------------------
// Decoder helpers
// ------------------------------------------------------------------

var errUnexpectedEOF = errors.New("unexpected EOF")

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errUnexpectedEOF
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readAmount() (Amount, error) {
	hi, err := r.readUint64()
	if err != nil {
		return Amount{}, err
	}
	lo, err := r.readUint64()
	if err != nil {
		return Amount{}, err
	}
	return amountFromWords(hi, lo), nil
}

func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddress() (Address, error) {
	s, err := r.readString()
	if err != nil {
		return "", err
	}
	return Address(s), nil
}

func (r *binReader) readOptionalAddress() (*Address, error) {
	ok, err := r.readBool()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	a, err := r.readAddress()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DecodeConfig parses a stored record. Trailing bytes are rejected.
func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	v, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if v != configVersion && v != configVersionV1 {
		return nil, fmt.Errorf("unknown config version %d", v)
	}
	cfg := &Config{}
	if cfg.Owner, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.PaymentToken, err = r.readAddress(); err != nil {
		return nil, err
	}
	if cfg.Collection, err = r.readOptionalAddress(); err != nil {
		return nil, err
	}
	if cfg.CollectionCode, err = r.readString(); err != nil {
		return nil, err
	}
	if v == configVersionV1 {
		price, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		cfg.UnitPrice = NewAmount(price)
	} else if cfg.UnitPrice, err = r.readAmount(); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = r.readUint64(); err != nil {
		return nil, err
	}
	if cfg.Name, err = r.readString(); err != nil {
		return nil, err
	}
	if cfg.Symbol, err = r.readString(); err != nil {
		return nil, err
	}
	if cfg.TokenURI, err = r.readString(); err != nil {
		return nil, err
	}
	if cfg.Extension, err = r.readString(); err != nil {
		return nil, err
	}
	if cfg.NextTokenID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if r.pos != len(r.data) {
		return nil, fmt.Errorf("%d trailing bytes", len(r.data)-r.pos)
	}
	return cfg, nil
}
