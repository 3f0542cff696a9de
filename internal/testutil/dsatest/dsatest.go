// Package dsatest builds real DSA keys and signatures in OTR wire form for
// tests.
package dsatest

import (
	"crypto/dsa"
	"crypto/rand"
	"math/big"
	"sync"
	"testing"
)

var (
	paramsOnce sync.Once
	params     dsa.Parameters
	paramsErr  error
)

// Key is a generated DSA key pair sharing process-wide 1024/160 parameters.
type Key struct {
	priv *dsa.PrivateKey
}

func NewKey(t testing.TB) *Key {
	t.Helper()

	paramsOnce.Do(func() {
		paramsErr = dsa.GenerateParameters(&params, rand.Reader, dsa.L1024N160)
	})
	if paramsErr != nil {
		t.Fatalf("generate dsa parameters: %v", paramsErr)
	}
	priv := &dsa.PrivateKey{}
	priv.Parameters = params
	if err := dsa.GenerateKey(priv, rand.Reader); err != nil {
		t.Fatalf("generate dsa key: %v", err)
	}
	return &Key{priv: priv}
}

func (k *Key) Public() *dsa.PublicKey {
	return &k.priv.PublicKey
}

// QLen is the width in bytes of each signature component.
func (k *Key) QLen() int {
	return (k.priv.Q.BitLen() + 7) / 8
}

// AppendPublic appends the key as type tag 0x0000 followed by p, q, g, y.
func (k *Key) AppendPublic(out []byte) []byte {
	out = append(out, 0x00, 0x00)
	for _, v := range []*big.Int{k.priv.P, k.priv.Q, k.priv.G, k.priv.Y} {
		out = appendMPI(out, v)
	}
	return out
}

// Sign returns r and s, each left-padded to QLen bytes.
func (k *Key) Sign(t testing.TB, hashed []byte) []byte {
	t.Helper()

	r, s, err := dsa.Sign(rand.Reader, k.priv, hashed)
	if err != nil {
		t.Fatalf("dsa sign: %v", err)
	}
	qlen := k.QLen()
	out := make([]byte, 2*qlen)
	r.FillBytes(out[:qlen])
	s.FillBytes(out[qlen:])
	return out
}

func appendMPI(out []byte, n *big.Int) []byte {
	b := n.Bytes()
	if len(b) > 0 && b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	l := uint32(len(b))
	out = append(out, byte(l>>24), byte(l>>16), byte(l>>8), byte(l))
	return append(out, b...)
}
