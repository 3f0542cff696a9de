// Package armor unwraps the ASCII envelope OTR puts around binary messages.
package armor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	ErrNotArmored   = errors.New("armor: missing ?OTR: prefix")
	ErrInvalidArmor = errors.New("armor: invalid envelope")
)

var (
	msgPrefix      = []byte("?OTR:")
	fragmentPrefix = []byte("?OTR,")
)

// IsFragment reports whether text is one piece of a fragmented message.
// Reassembly belongs to the session layer.
func IsFragment(text []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(text), fragmentPrefix)
}

// IsArmored reports whether text looks like an encoded OTR message.
func IsArmored(text []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(text), msgPrefix)
}

// Decode strips "?OTR:" and the trailing "." and returns the binary payload.
func Decode(text []byte) ([]byte, error) {
	text = bytes.TrimSpace(text)
	if !bytes.HasPrefix(text, msgPrefix) {
		return nil, ErrNotArmored
	}
	body := text[len(msgPrefix):]
	if len(body) == 0 || body[len(body)-1] != '.' {
		return nil, fmt.Errorf("%w: missing terminating '.'", ErrInvalidArmor)
	}
	body = body[:len(body)-1]
	out := make([]byte, base64.StdEncoding.DecodedLen(len(body)))
	n, err := base64.StdEncoding.Decode(out, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArmor, err)
	}
	return out[:n], nil
}
