package protocol

import (
	"fmt"
	"math/big"
)

var two = big.NewInt(2)

// Group holds fixed Diffie-Hellman parameters.
type Group struct {
	P *big.Int
	G *big.Int

	pMinus2 *big.Int
}

// OTRGroup is the 1536-bit MODP group (RFC 3526, group 5) with generator 2.
var OTRGroup = newGroup(
	"FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9ED529077096966D670C354E4ABC9804F1746C08CA237327FFFFFFFFFFFFFFFF",
	2,
)

func newGroup(primeHex string, generator int64) *Group {
	p, ok := new(big.Int).SetString(primeHex, 16)
	if !ok {
		panic("protocol: invalid group prime")
	}
	return &Group{
		P:       p,
		G:       big.NewInt(generator),
		pMinus2: new(big.Int).Sub(p, two),
	}
}

// Contains reports whether y lies in [2, p-2].
func (g *Group) Contains(y *big.Int) bool {
	if y == nil {
		return false
	}
	return y.Cmp(two) >= 0 && y.Cmp(g.pMinus2) <= 0
}

// DHPublicKey is a peer's g^y bound to the group it belongs to.
type DHPublicKey struct {
	Y     *big.Int
	Group *Group
}

// ReadDHPublicKey reads g^y as an MPI and checks it against OTRGroup.
func (d *Decoder) ReadDHPublicKey() (*DHPublicKey, error) {
	if d.err != nil {
		return nil, d.err
	}
	off := d.Offset()
	y, err := d.readMPI("dh public")
	if err != nil {
		return nil, err
	}
	if !OTRGroup.Contains(y) {
		return nil, d.fail("dh public", off, fmt.Errorf("%w: g^y outside [2, p-2]", ErrInvalidKeyMaterial))
	}
	return &DHPublicKey{Y: y, Group: OTRGroup}, nil
}
