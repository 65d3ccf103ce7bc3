package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	in := Frame{
		Header: Header{
			MessageID:   42,
			MessageType: 1,
			Flags:       FlagIsResponse,
		},
		Payload: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := ReadFrame(bytes.NewReader(buf.Bytes()), DefaultLimits())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Header.MessageID != 42 || out.Header.MessageType != 1 {
		t.Fatalf("header mismatch: %+v", out.Header)
	}
	if out.Header.Flags&FlagIsResponse == 0 {
		t.Fatalf("response flag lost")
	}
	if !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestDecodeFrameConsumed(t *testing.T) {
	one := Frame{Header: Header{MessageID: 1, MessageType: 1}, Payload: []byte{0x01}}
	two := Frame{Header: Header{MessageID: 2, MessageType: 2}, Payload: []byte{0x02, 0x03}}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, one, DefaultLimits()); err != nil {
		t.Fatalf("write one: %v", err)
	}
	if err := WriteFrame(&buf, two, DefaultLimits()); err != nil {
		t.Fatalf("write two: %v", err)
	}

	data := buf.Bytes()
	first, consumed, err := DecodeFrame(data, DefaultLimits())
	if err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if first.Header.MessageID != 1 {
		t.Fatalf("expected message 1, got %d", first.Header.MessageID)
	}

	second, consumed2, err := DecodeFrame(data[consumed:], DefaultLimits())
	if err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if second.Header.MessageID != 2 {
		t.Fatalf("expected message 2, got %d", second.Header.MessageID)
	}
	if consumed+consumed2 != len(data) {
		t.Fatalf("expected full consumption, got %d of %d", consumed+consumed2, len(data))
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	b := EncodeHeader(Header{
		Magic:     Magic,
		Version:   Version,
		HeaderLen: FixedHeaderLen,
	})
	b[0] = 0x00

	_, _, err := DecodeFrame(b, DefaultLimits())
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	b := EncodeHeader(Header{
		Magic:     Magic,
		Version:   Version + 1,
		HeaderLen: FixedHeaderLen,
	})

	_, _, err := DecodeFrame(b, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	in := Frame{Header: Header{MessageID: 1, MessageType: 1}, Payload: []byte{0x01, 0x02, 0x03}}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}

	b := buf.Bytes()
	_, _, err := DecodeFrame(b[:len(b)-1], DefaultLimits())
	if !errors.Is(err, ErrTruncatedPayload) {
		t.Fatalf("expected ErrTruncatedPayload, got %v", err)
	}
}

func TestPayloadTooLarge(t *testing.T) {
	limits := Limits{MaxPayloadBytes: 4}
	in := Frame{Header: Header{MessageID: 1, MessageType: 1}, Payload: []byte{1, 2, 3, 4, 5}}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, in, limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on write, got %v", err)
	}

	if err := WriteFrame(&buf, in, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _, err := DecodeFrame(buf.Bytes(), limits)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge on decode, got %v", err)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	_, _, err := DecodeFrame([]byte{0x01, 0x02}, DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}
