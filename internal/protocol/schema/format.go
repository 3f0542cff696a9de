package schema

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"

	"github.com/danmuck/otrwire/internal/protocol"
)

// String renders the value for logs and CLI output.
func (v Value) String() string {
	switch v.Kind {
	case KindByte, KindShort, KindInt:
		return strconv.FormatUint(uint64(v.Uint), 10)
	case KindData, KindMAC, KindCtr:
		return hex.EncodeToString(v.Bytes)
	case KindMPI:
		return hexInt(v.Int)
	case KindPublicKey:
		if key, ok := v.PublicKey.(*protocol.DSAPublicKey); ok && key != nil {
			return fmt.Sprintf("dsa p=%s q=%s g=%s y=%s", hexInt(key.P), hexInt(key.Q), hexInt(key.G), hexInt(key.Y))
		}
		if v.PublicKey == nil {
			return "<nil>"
		}
		return v.PublicKey.Type().String()
	case KindSignature:
		return fmt.Sprintf("r=%s s=%s der=%s", hexInt(v.Signature.R), hexInt(v.Signature.S), hex.EncodeToString(v.Signature.DER))
	case KindDHPublicKey:
		if v.DH == nil {
			return "<nil>"
		}
		return "gy=" + hexInt(v.DH.Y)
	default:
		return ""
	}
}

func hexInt(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	return "0x" + n.Text(16)
}
