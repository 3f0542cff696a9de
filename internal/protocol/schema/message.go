package schema

import (
	"fmt"

	"github.com/danmuck/otrwire/internal/config"
	"github.com/danmuck/otrwire/internal/observability"
	"github.com/danmuck/otrwire/internal/protocol"
	"github.com/rs/zerolog/log"
)

const versionWithInstanceTags = 3

// Header is the common prefix of every encoded message.
type Header struct {
	Version          uint16
	Type             byte
	SenderInstance   uint32
	ReceiverInstance uint32
}

// Message is a decoded message body together with its header.
type Message struct {
	Header Header
	Layout string
	Fields []Value
}

// Field returns the decoded value named name.
func (m *Message) Field(name string) (Value, bool) {
	return findValue(m.Fields, name)
}

// DecodeMessage decodes one binary message: header, then the body layout
// selected by the header's type byte.
func DecodeMessage(payload []byte, profile config.Profile) (msg *Message, err error) {
	layoutName := "unknown"
	defer func() {
		observability.RecordDecode(layoutName, len(payload), err)
		if err != nil {
			log.Debug().Err(err).Str("layout", layoutName).Int("bytes", len(payload)).Msg("schema.DecodeMessage failed")
		}
	}()

	d := protocol.NewDecoderWithLimits(payload, profile.Limits())
	head, err := decodeHeader(d, profile)
	if err != nil {
		return nil, err
	}
	layout, ok := LayoutFor(head.Type)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownMessageType, head.Type)
	}
	layoutName = layout.Name

	fields, err := DecodeLayout(d, layout)
	if err != nil {
		return nil, err
	}
	if err := checkTrailing(d, layout.Name, profile); err != nil {
		return nil, err
	}

	log.Debug().
		Str("layout", layout.Name).
		Uint16("version", head.Version).
		Int("fields", len(fields)).
		Msg("schema.DecodeMessage ok")
	return &Message{Header: head, Layout: layout.Name, Fields: fields}, nil
}

// DecodeSignedKey decodes a decrypted AKE signature payload.
func DecodeSignedKey(payload []byte, profile config.Profile) (values []Value, err error) {
	defer func() {
		observability.RecordDecode(SignedKey.Name, len(payload), err)
	}()

	d := protocol.NewDecoderWithLimits(payload, profile.Limits())
	values, err = DecodeLayout(d, SignedKey)
	if err != nil {
		return nil, err
	}
	if err := checkTrailing(d, SignedKey.Name, profile); err != nil {
		return nil, err
	}
	log.Debug().Str("layout", SignedKey.Name).Msg("schema.DecodeSignedKey ok")
	return values, nil
}

func decodeHeader(d *protocol.Decoder, profile config.Profile) (Header, error) {
	var h Header
	version, err := d.ReadShort()
	if err != nil {
		return Header{}, err
	}
	if !profile.AcceptsVersion(version) {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	h.Version = version
	if h.Type, err = d.ReadByte(); err != nil {
		return Header{}, err
	}
	if version >= versionWithInstanceTags {
		if h.SenderInstance, err = d.ReadInt(); err != nil {
			return Header{}, err
		}
		if h.ReceiverInstance, err = d.ReadInt(); err != nil {
			return Header{}, err
		}
	}
	return h, nil
}

func checkTrailing(d *protocol.Decoder, layout string, profile config.Profile) error {
	if d.Remaining() == 0 || profile.AllowTrailing {
		return nil
	}
	return &LayoutError{
		Layout: layout,
		Err:    fmt.Errorf("%w: %d bytes", ErrTrailingData, d.Remaining()),
	}
}
