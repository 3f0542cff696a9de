package protocol

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// Fixed field widths in bytes.
const (
	ByteLen  = 1
	ShortLen = 2
	IntLen   = 4
	MACLen   = 20
	CtrLen   = 8
)

// Limits constrains decode memory use.
type Limits struct {
	// MaxDataBytes caps a single DATA or MPI payload. Zero means the
	// payload is bounded only by the remaining buffer.
	MaxDataBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxDataBytes: 8 * 1024 * 1024,
	}
}

// Decoder is a forward-only cursor over one message buffer. It is not safe
// for concurrent use.
//
// The first failed read poisons the decoder: every later read returns the
// same error without consuming input.
type Decoder struct {
	buf    []byte
	s      cryptobyte.String
	limits Limits
	err    error
}

func NewDecoder(buf []byte) *Decoder {
	return NewDecoderWithLimits(buf, DefaultLimits())
}

func NewDecoderWithLimits(buf []byte, limits Limits) *Decoder {
	return &Decoder{
		buf:    buf,
		s:      cryptobyte.String(buf),
		limits: limits,
	}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return len(d.buf) - len(d.s)
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.s)
}

// Err returns the error that poisoned the decoder, if any.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(field string, offset int, err error) error {
	fe := &FieldError{Field: field, Offset: offset, Err: err}
	d.err = fe
	return fe
}

// ReadFixed reads exactly n raw bytes.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	return d.readFixed("fixed", n)
}

// ReadUint reads a big-endian unsigned integer of width 1, 2 or 4 bytes.
func (d *Decoder) ReadUint(width int) (uint32, error) {
	switch width {
	case ByteLen:
		v, err := d.readUint8("uint8")
		return uint32(v), err
	case ShortLen:
		v, err := d.readUint16("uint16")
		return uint32(v), err
	case IntLen:
		return d.readUint32("uint32")
	default:
		if d.err != nil {
			return 0, d.err
		}
		return 0, d.fail("uint", d.Offset(), fmt.Errorf("%w: %d", ErrInvalidWidth, width))
	}
}

// ReadByte reads a BYTE field.
func (d *Decoder) ReadByte() (byte, error) {
	return d.readUint8("byte")
}

// ReadShort reads a SHORT field.
func (d *Decoder) ReadShort() (uint16, error) {
	return d.readUint16("short")
}

// ReadInt reads an INT field.
func (d *Decoder) ReadInt() (uint32, error) {
	return d.readUint32("int")
}

// ReadData reads a DATA field: a 4-byte length followed by that many bytes.
func (d *Decoder) ReadData() ([]byte, error) {
	return d.readData("data")
}

// ReadMAC reads a 20-byte MAC. MACs carry no length prefix.
func (d *Decoder) ReadMAC() ([]byte, error) {
	return d.readFixed("mac", MACLen)
}

// ReadCtr reads an 8-byte counter. Counters carry no length prefix.
func (d *Decoder) ReadCtr() ([]byte, error) {
	return d.readFixed("ctr", CtrLen)
}

func (d *Decoder) readUint8(field string) (uint8, error) {
	if d.err != nil {
		return 0, d.err
	}
	off := d.Offset()
	var v uint8
	if !d.s.ReadUint8(&v) {
		return 0, d.fail(field, off, ErrTruncatedInput)
	}
	return v, nil
}

func (d *Decoder) readUint16(field string) (uint16, error) {
	if d.err != nil {
		return 0, d.err
	}
	off := d.Offset()
	var v uint16
	if !d.s.ReadUint16(&v) {
		return 0, d.fail(field, off, ErrTruncatedInput)
	}
	return v, nil
}

func (d *Decoder) readUint32(field string) (uint32, error) {
	if d.err != nil {
		return 0, d.err
	}
	off := d.Offset()
	var v uint32
	if !d.s.ReadUint32(&v) {
		return 0, d.fail(field, off, ErrTruncatedInput)
	}
	return v, nil
}

func (d *Decoder) readFixed(field string, n int) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	off := d.Offset()
	if n < 0 {
		return nil, d.fail(field, off, fmt.Errorf("%w: %d", ErrInvalidWidth, n))
	}
	var b []byte
	if !d.s.ReadBytes(&b, n) {
		return nil, d.fail(field, off, ErrTruncatedInput)
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *Decoder) readData(field string) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	off := d.Offset()
	s := d.s
	var n uint32
	if !s.ReadUint32(&n) {
		return nil, d.fail(field, off, ErrTruncatedInput)
	}
	if uint64(n) > uint64(len(s)) {
		return nil, d.fail(field, off, ErrTruncatedInput)
	}
	if d.limits.MaxDataBytes > 0 && n > d.limits.MaxDataBytes {
		return nil, d.fail(field, off, fmt.Errorf("%w: %d > %d", ErrDataTooLarge, n, d.limits.MaxDataBytes))
	}
	var b []byte
	if !s.ReadBytes(&b, int(n)) {
		return nil, d.fail(field, off, ErrTruncatedInput)
	}
	d.s = s
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}
