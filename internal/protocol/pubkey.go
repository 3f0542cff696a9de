package protocol

import (
	"crypto/dsa"
	"fmt"
)

// KeyType is the SHORT tag that precedes a serialized public key.
type KeyType uint16

const (
	KeyTypeDSA KeyType = 0x0000
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeDSA:
		return "dsa"
	default:
		return fmt.Sprintf("keytype(0x%04x)", uint16(t))
	}
}

// PublicKey is a decoded peer public key. The set of implementations is
// closed; *DSAPublicKey is the only one.
type PublicKey interface {
	Type() KeyType
	publicKey()
}

// DSAPublicKey carries the domain parameters p, q, g and the public value y.
type DSAPublicKey struct {
	dsa.PublicKey
}

func (*DSAPublicKey) Type() KeyType { return KeyTypeDSA }

func (*DSAPublicKey) publicKey() {}

// QLen returns the byte length of q, which is also the width of each
// signature component made with this key.
func (k *DSAPublicKey) QLen() int {
	if k == nil || k.Q == nil {
		return 0
	}
	return (k.Q.BitLen() + 7) / 8
}

// ReadPublicKey reads a type tag and the key body it selects. An unknown
// tag stops the read right after the tag.
func (d *Decoder) ReadPublicKey() (PublicKey, error) {
	if d.err != nil {
		return nil, d.err
	}
	off := d.Offset()
	tag, err := d.readUint16("pubkey type")
	if err != nil {
		return nil, err
	}
	switch KeyType(tag) {
	case KeyTypeDSA:
		return d.readDSAPublicKey(off)
	default:
		return nil, d.fail("pubkey type", off, fmt.Errorf("%w: 0x%04x", ErrUnsupportedKeyType, tag))
	}
}

func (d *Decoder) readDSAPublicKey(off int) (*DSAPublicKey, error) {
	p, err := d.readMPI("dsa p")
	if err != nil {
		return nil, err
	}
	q, err := d.readMPI("dsa q")
	if err != nil {
		return nil, err
	}
	g, err := d.readMPI("dsa g")
	if err != nil {
		return nil, err
	}
	y, err := d.readMPI("dsa y")
	if err != nil {
		return nil, err
	}
	if p.Sign() <= 0 {
		return nil, d.fail("dsa p", off, fmt.Errorf("%w: zero prime", ErrInvalidKeyMaterial))
	}
	if q.Sign() <= 0 {
		return nil, d.fail("dsa q", off, fmt.Errorf("%w: zero subgroup order", ErrInvalidKeyMaterial))
	}

	key := &DSAPublicKey{}
	key.P = p
	key.Q = q
	key.G = g
	key.Y = y
	return key, nil
}
