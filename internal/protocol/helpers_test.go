package protocol

import "math/big"

func appendU16(out []byte, v uint16) []byte {
	return append(out, byte(v>>8), byte(v))
}

func appendU32(out []byte, v uint32) []byte {
	return append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendData(out, v []byte) []byte {
	out = appendU32(out, uint32(len(v)))
	return append(out, v...)
}

// appendMPI writes n with a single zero byte in front when its top bit is
// set, the way peers that use signed encodings serialize it.
func appendMPI(out []byte, n *big.Int) []byte {
	b := n.Bytes()
	if len(b) > 0 && b[0]&0x80 != 0 {
		b = append([]byte{0}, b...)
	}
	return appendData(out, b)
}

func appendDSAKey(out []byte, p, q, g, y *big.Int) []byte {
	out = appendU16(out, uint16(KeyTypeDSA))
	for _, v := range []*big.Int{p, q, g, y} {
		out = appendMPI(out, v)
	}
	return out
}

func repeatByte(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
