// Package tlv decodes the TLV records carried after the NUL terminator of a
// decrypted data message.
package tlv

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

const HeaderLen = 4

var (
	ErrShortRecordHeader = errors.New("tlv: short record header")
	ErrShortRecordValue  = errors.New("tlv: short record value")
)

// Record type IDs.
const (
	TypePadding      uint16 = 0
	TypeDisconnected uint16 = 1
	TypeSMP1         uint16 = 2
	TypeSMP2         uint16 = 3
	TypeSMP3         uint16 = 4
	TypeSMP4         uint16 = 5
	TypeSMPAbort     uint16 = 6
	TypeSMP1Question uint16 = 7

	TypeExtraSymmetricKey uint16 = 8
)

var typeNames = map[uint16]string{
	TypePadding:      "padding",
	TypeDisconnected: "disconnected",
	TypeSMP1:         "smp1",
	TypeSMP2:         "smp2",
	TypeSMP3:         "smp3",
	TypeSMP4:         "smp4",
	TypeSMPAbort:     "smp-abort",
	TypeSMP1Question: "smp1-question",

	TypeExtraSymmetricKey: "extra-symmetric-key",
}

// Record is one decoded TLV.
type Record struct {
	Type  uint16
	Value []byte
}

func TypeName(t uint16) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", t)
}

// SplitPlaintext separates the human-readable message from the TLVs that
// follow its NUL terminator. Plaintext without a NUL carries no TLVs.
func SplitPlaintext(plaintext []byte) ([]byte, []Record, error) {
	idx := bytes.IndexByte(plaintext, 0)
	if idx < 0 {
		return plaintext, nil, nil
	}
	records, err := DecodeRecords(plaintext[idx+1:])
	if err != nil {
		return nil, nil, err
	}
	return plaintext[:idx], records, nil
}

func DecodeRecords(payload []byte) ([]Record, error) {
	records := make([]Record, 0)
	s := cryptobyte.String(payload)
	for !s.Empty() {
		var typ uint16
		var value cryptobyte.String
		if len(s) < HeaderLen || !s.ReadUint16(&typ) {
			return nil, ErrShortRecordHeader
		}
		if !s.ReadUint16LengthPrefixed(&value) {
			return nil, ErrShortRecordValue
		}
		val := make([]byte, len(value))
		copy(val, value)
		records = append(records, Record{Type: typ, Value: val})
	}
	return records, nil
}

func GetRecord(records []Record, typ uint16) (Record, bool) {
	for _, r := range records {
		if r.Type == typ {
			return r, true
		}
	}
	return Record{}, false
}
