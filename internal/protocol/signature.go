package protocol

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Signature is a DSA signature read off the wire. DER holds the same pair
// as an ASN.1 SEQUENCE of two INTEGERs, the form verifiers expect.
type Signature struct {
	R   *big.Int
	S   *big.Int
	DER []byte
}

// ReadSignature reads 2*qlen raw bytes, where qlen comes from the q of pub.
// pub is the key decoded earlier in the same message.
func (d *Decoder) ReadSignature(pub PublicKey) (Signature, error) {
	if d.err != nil {
		return Signature{}, d.err
	}
	off := d.Offset()
	key, ok := pub.(*DSAPublicKey)
	if !ok || key == nil {
		return Signature{}, d.fail("signature", off, fmt.Errorf("%w: %s", ErrUnsupportedKeyAlgorithm, keyTypeName(pub)))
	}
	qlen := key.QLen()
	if qlen == 0 {
		return Signature{}, d.fail("signature", off, fmt.Errorf("%w: key has no subgroup order", ErrInvalidKeyMaterial))
	}

	raw, err := d.readFixed("signature", 2*qlen)
	if err != nil {
		return Signature{}, err
	}
	r := new(big.Int).SetBytes(raw[:qlen])
	s := new(big.Int).SetBytes(raw[qlen:])

	der, err := marshalDERSignature(r, s)
	if err != nil {
		return Signature{}, d.fail("signature", off, err)
	}
	return Signature{R: r, S: s, DER: der}, nil
}

func marshalDERSignature(r, s *big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cryptobyte_asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}

func keyTypeName(pub PublicKey) string {
	if pub == nil {
		return "nil key"
	}
	return pub.Type().String()
}
