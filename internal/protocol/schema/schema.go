package schema

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/danmuck/otrwire/internal/protocol"
)

// Message type IDs as carried in the header TYPE byte.
const (
	MsgDHCommit        byte = 0x02
	MsgData            byte = 0x03
	MsgDHKey           byte = 0x0a
	MsgRevealSignature byte = 0x11
	MsgSignature       byte = 0x12
)

// Kind names the wire type of one field.
type Kind uint8

const (
	KindByte Kind = iota + 1
	KindShort
	KindInt
	KindData
	KindMPI
	KindMAC
	KindCtr
	KindPublicKey
	KindSignature
	KindDHPublicKey
)

var kindNames = map[Kind]string{
	KindByte:        "byte",
	KindShort:       "short",
	KindInt:         "int",
	KindData:        "data",
	KindMPI:         "mpi",
	KindMAC:         "mac",
	KindCtr:         "ctr",
	KindPublicKey:   "pubkey",
	KindSignature:   "sig",
	KindDHPublicKey: "dh-pubkey",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	ErrMissingPublicKey   = errors.New("schema: signature field has no preceding public key")
	ErrUnknownKind        = errors.New("schema: unknown field kind")
	ErrUnsupportedVersion = errors.New("schema: unsupported protocol version")
	ErrUnknownMessageType = errors.New("schema: unknown message type")
	ErrTrailingData       = errors.New("schema: trailing data after last field")
)

type FieldSpec struct {
	Name string
	Kind Kind
}

// Layout is the ordered field sequence of one message body.
type Layout struct {
	Name   string
	Fields []FieldSpec
}

// Value is one decoded field. Only the member matching Kind is set.
type Value struct {
	Name      string
	Kind      Kind
	Uint      uint32
	Bytes     []byte
	Int       *big.Int
	PublicKey protocol.PublicKey
	Signature protocol.Signature
	DH        *protocol.DHPublicKey
}

type LayoutError struct {
	Layout string
	Field  string
	Err    error
}

func (e *LayoutError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: layout=%s: %v", e.Layout, e.Err)
	}
	return fmt.Sprintf("schema: layout=%s field=%s: %v", e.Layout, e.Field, e.Err)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

var layouts = map[byte]Layout{
	MsgDHCommit: {
		Name: "dh-commit",
		Fields: []FieldSpec{
			{"encrypted_gx", KindData},
			{"hashed_gx", KindData},
		},
	},
	MsgDHKey: {
		Name: "dh-key",
		Fields: []FieldSpec{
			{"gy", KindDHPublicKey},
		},
	},
	MsgRevealSignature: {
		Name: "reveal-signature",
		Fields: []FieldSpec{
			{"revealed_key", KindData},
			{"encrypted_sig", KindData},
			{"mac", KindMAC},
		},
	},
	MsgSignature: {
		Name: "signature",
		Fields: []FieldSpec{
			{"encrypted_sig", KindData},
			{"mac", KindMAC},
		},
	},
	MsgData: {
		Name: "data",
		Fields: []FieldSpec{
			{"flags", KindByte},
			{"sender_keyid", KindInt},
			{"recipient_keyid", KindInt},
			{"next_dh", KindDHPublicKey},
			{"ctr", KindCtr},
			{"encrypted_message", KindData},
			{"authenticator", KindMAC},
			{"old_mac_keys", KindData},
		},
	},
}

// SignedKey is the decrypted AKE signature payload: a long-term key, the
// sender's DH key id, and a signature made with that same key.
var SignedKey = Layout{
	Name: "signed-key",
	Fields: []FieldSpec{
		{"pub", KindPublicKey},
		{"keyid", KindInt},
		{"sig", KindSignature},
	},
}

// LayoutFor returns the body layout for a message type.
func LayoutFor(messageType byte) (Layout, bool) {
	l, ok := layouts[messageType]
	return l, ok
}

// DecodeLayout reads every field of layout from d in order. A signature
// field is sized by the most recent public key decoded in the same layout.
func DecodeLayout(d *protocol.Decoder, layout Layout) ([]Value, error) {
	values := make([]Value, 0, len(layout.Fields))
	var lastKey protocol.PublicKey
	for _, spec := range layout.Fields {
		v, err := decodeField(d, spec, lastKey)
		if err != nil {
			return nil, &LayoutError{Layout: layout.Name, Field: spec.Name, Err: err}
		}
		if v.Kind == KindPublicKey {
			lastKey = v.PublicKey
		}
		values = append(values, v)
	}
	return values, nil
}

func decodeField(d *protocol.Decoder, spec FieldSpec, lastKey protocol.PublicKey) (Value, error) {
	v := Value{Name: spec.Name, Kind: spec.Kind}
	var err error
	switch spec.Kind {
	case KindByte:
		var b byte
		b, err = d.ReadByte()
		v.Uint = uint32(b)
	case KindShort:
		var s uint16
		s, err = d.ReadShort()
		v.Uint = uint32(s)
	case KindInt:
		v.Uint, err = d.ReadInt()
	case KindData:
		v.Bytes, err = d.ReadData()
	case KindMPI:
		v.Int, err = d.ReadMPI()
	case KindMAC:
		v.Bytes, err = d.ReadMAC()
	case KindCtr:
		v.Bytes, err = d.ReadCtr()
	case KindPublicKey:
		v.PublicKey, err = d.ReadPublicKey()
	case KindSignature:
		if lastKey == nil {
			return Value{}, ErrMissingPublicKey
		}
		v.Signature, err = d.ReadSignature(lastKey)
	case KindDHPublicKey:
		v.DH, err = d.ReadDHPublicKey()
	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownKind, spec.Kind)
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func findValue(values []Value, name string) (Value, bool) {
	for _, v := range values {
		if v.Name == name {
			return v, true
		}
	}
	return Value{}, false
}
