package tlv

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitPlaintextWithRecords(t *testing.T) {
	plaintext := []byte("hi\x00")
	plaintext = append(plaintext, 0x00, 0x01, 0x00, 0x00)             // disconnected, empty
	plaintext = append(plaintext, 0x27, 0x0f, 0x00, 0x02, 0xaa, 0xbb) // unknown id 9999
	msg, records, err := SplitPlaintext(plaintext)
	if err != nil {
		t.Fatalf("split plaintext: %v", err)
	}
	if string(msg) != "hi" {
		t.Fatalf("unexpected message %q", msg)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if _, ok := GetRecord(records, TypeDisconnected); !ok {
		t.Fatalf("missing disconnected record")
	}
	if records[1].Type != 9999 || !bytes.Equal(records[1].Value, []byte{0xaa, 0xbb}) {
		t.Fatalf("unknown record not preserved: %+v", records[1])
	}
	if TypeName(records[1].Type) != "type(9999)" || TypeName(TypeSMPAbort) != "smp-abort" {
		t.Fatalf("unexpected type names")
	}
}

func TestSplitPlaintextWithoutTerminator(t *testing.T) {
	msg, records, err := SplitPlaintext([]byte("plain"))
	if err != nil || string(msg) != "plain" || records != nil {
		t.Fatalf("got msg=%q records=%v err=%v", msg, records, err)
	}
}

func TestDecodeRecordsMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := DecodeRecords([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortRecordHeader) {
		t.Fatalf("expected ErrShortRecordHeader, got %v", err)
	}
}

func TestDecodeRecordsMalformedLengthIsDeterministic(t *testing.T) {
	// type=smp1, len=5, value only 2 bytes
	payload := []byte{0, 2, 0, 5, 'a', 'b'}
	_, err := DecodeRecords(payload)
	if !errors.Is(err, ErrShortRecordValue) {
		t.Fatalf("expected ErrShortRecordValue, got %v", err)
	}
}

func TestTypeNames(t *testing.T) {
	cases := map[uint16]string{
		TypeDisconnected:      "disconnected",
		TypeSMP1Question:      "smp1-question",
		TypeExtraSymmetricKey: "extra-symmetric-key",
		0x99:                  "type(153)",
	}
	for typ, want := range cases {
		if got := TypeName(typ); got != want {
			t.Fatalf("TypeName(%d) = %q want %q", typ, got, want)
		}
	}
}
