package protocol

import (
	"bytes"
	"crypto/dsa"
	"crypto/sha256"
	"encoding/asn1"
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/danmuck/otrwire/internal/testutil/dsatest"
)

type fakeKey struct{}

func (fakeKey) Type() KeyType { return KeyType(0x00ff) }

func (fakeKey) publicKey() {}

func dsaKeyWithQLen(qlen int) *DSAPublicKey {
	key := &DSAPublicKey{}
	key.P = big.NewInt(23)
	key.Q = new(big.Int).Lsh(big.NewInt(1), uint(qlen*8-1))
	key.G = big.NewInt(4)
	key.Y = big.NewInt(8)
	return key
}

type derSignature struct {
	R, S *big.Int
}

func TestReadSignatureComponentWidths(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, qlen := range []int{20, 28, 32} {
		key := dsaKeyWithQLen(qlen)
		raw := make([]byte, 2*qlen)
		rng.Read(raw)
		raw[0] |= 0x80

		d := NewDecoder(raw)
		sig, err := d.ReadSignature(key)
		if err != nil {
			t.Fatalf("qlen %d: read signature: %v", qlen, err)
		}
		wantR := new(big.Int).SetBytes(raw[:qlen])
		wantS := new(big.Int).SetBytes(raw[qlen:])
		if sig.R.Cmp(wantR) != 0 || sig.S.Cmp(wantS) != 0 {
			t.Fatalf("qlen %d: got r=%x s=%x", qlen, sig.R, sig.S)
		}
		if d.Offset() != 2*qlen {
			t.Fatalf("qlen %d: unexpected offset %d", qlen, d.Offset())
		}

		var parsed derSignature
		rest, err := asn1.Unmarshal(sig.DER, &parsed)
		if err != nil || len(rest) != 0 {
			t.Fatalf("qlen %d: der does not parse: %v rest=%d", qlen, err, len(rest))
		}
		if parsed.R.Cmp(wantR) != 0 || parsed.S.Cmp(wantS) != 0 {
			t.Fatalf("qlen %d: der integers mismatch", qlen)
		}
	}
}

func TestReadSignatureScenario(t *testing.T) {
	key := dsaKeyWithQLen(20)
	buf := append(repeatByte(0xff, 20), repeatByte(0x01, 20)...)
	sig, err := NewDecoder(buf).ReadSignature(key)
	if err != nil {
		t.Fatalf("read signature: %v", err)
	}
	wantR := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
	wantS := new(big.Int).SetBytes(repeatByte(0x01, 20))
	if sig.R.Cmp(wantR) != 0 {
		t.Fatalf("r got=%x want=%x", sig.R, wantR)
	}
	if sig.S.Cmp(wantS) != 0 {
		t.Fatalf("s got=%x want=%x", sig.S, wantS)
	}
}

func TestReadSignatureDEREncoding(t *testing.T) {
	key := &DSAPublicKey{}
	key.Q = big.NewInt(3)
	cases := []struct {
		raw  []byte
		want []byte
	}{
		// high bit set: INTEGER gains a zero pad
		{[]byte{0x80, 0x01}, []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x80, 0x02, 0x01, 0x01}},
		{[]byte{0x00, 0x7f}, []byte{0x30, 0x06, 0x02, 0x01, 0x00, 0x02, 0x01, 0x7f}},
	}
	for _, tc := range cases {
		sig, err := NewDecoder(tc.raw).ReadSignature(key)
		if err != nil {
			t.Fatalf("read signature %x: %v", tc.raw, err)
		}
		if !bytes.Equal(sig.DER, tc.want) {
			t.Fatalf("der for %x got=%x want=%x", tc.raw, sig.DER, tc.want)
		}
	}
}

func TestReadSignatureUsesMinimalQLen(t *testing.T) {
	key := dsaKeyWithQLen(20)
	key.Q = new(big.Int).Rsh(key.Q, 1)
	d := NewDecoder(repeatByte(0x01, 40))
	if _, err := d.ReadSignature(key); err != nil {
		t.Fatalf("read signature: %v", err)
	}
	if d.Offset() != 40 {
		t.Fatalf("159-bit q must still give qlen 20, offset=%d", d.Offset())
	}
}

func TestReadSignatureUnsupportedKeyAlgorithm(t *testing.T) {
	for _, pub := range []PublicKey{nil, fakeKey{}, (*DSAPublicKey)(nil)} {
		d := NewDecoder(repeatByte(0x01, 40))
		_, err := d.ReadSignature(pub)
		if !errors.Is(err, ErrUnsupportedKeyAlgorithm) {
			t.Fatalf("%T: expected ErrUnsupportedKeyAlgorithm, got %v", pub, err)
		}
		if d.Offset() != 0 {
			t.Fatalf("%T: signature bytes consumed", pub)
		}
	}
}

func TestReadSignatureTruncated(t *testing.T) {
	d := NewDecoder(repeatByte(0x01, 39))
	sig, err := d.ReadSignature(dsaKeyWithQLen(20))
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
	if sig.R != nil || sig.S != nil || sig.DER != nil {
		t.Fatalf("expected no partial signature, got %+v", sig)
	}
}

func TestReadSignatureAfterPublicKey(t *testing.T) {
	q := new(big.Int).Lsh(big.NewInt(1), 159)
	buf := appendDSAKey(nil, big.NewInt(23), q, big.NewInt(4), big.NewInt(8))
	buf = appendU32(buf, 7)
	buf = append(buf, repeatByte(0x42, 40)...)

	d := NewDecoder(buf)
	pub, err := d.ReadPublicKey()
	if err != nil {
		t.Fatalf("read public key: %v", err)
	}
	keyID, err := d.ReadInt()
	if err != nil || keyID != 7 {
		t.Fatalf("key id got=%d err=%v", keyID, err)
	}
	sig, err := d.ReadSignature(pub)
	if err != nil {
		t.Fatalf("read signature: %v", err)
	}
	if sig.R.Cmp(new(big.Int).SetBytes(repeatByte(0x42, 20))) != 0 {
		t.Fatalf("unexpected r %x", sig.R)
	}
	if d.Remaining() != 0 {
		t.Fatalf("expected buffer consumed, %d left", d.Remaining())
	}
}

func TestReadSignatureVerifiesWithGeneratedKey(t *testing.T) {
	key := dsatest.NewKey(t)
	hashed := sha256.Sum256([]byte("signed key payload"))
	buf := key.AppendPublic(nil)
	buf = append(buf, key.Sign(t, hashed[:])...)

	d := NewDecoder(buf)
	pub, err := d.ReadPublicKey()
	if err != nil {
		t.Fatalf("read public key: %v", err)
	}
	sig, err := d.ReadSignature(pub)
	if err != nil {
		t.Fatalf("read signature: %v", err)
	}
	dsaKey := pub.(*DSAPublicKey)
	if !dsa.Verify(&dsaKey.PublicKey, hashed[:], sig.R, sig.S) {
		t.Fatalf("decoded signature does not verify")
	}
	if dsaKey.Y.Cmp(key.Public().Y) != 0 {
		t.Fatalf("decoded y differs from generated key")
	}

	var parsed derSignature
	if _, err := asn1.Unmarshal(sig.DER, &parsed); err != nil {
		t.Fatalf("der does not parse: %v", err)
	}
	if !dsa.Verify(&dsaKey.PublicKey, hashed[:], parsed.R, parsed.S) {
		t.Fatalf("der-encoded signature does not verify")
	}
}
