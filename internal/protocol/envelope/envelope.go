package envelope

import (
	"bytes"

	"github.com/jmorgan81/calcwire/internal/protocol/frame"
	"github.com/jmorgan81/calcwire/internal/protocol/schema"
	"github.com/jmorgan81/calcwire/internal/protocol/tlv"
)

// Kind discriminates the decoded message variants.
type Kind int

const (
	KindUnknown Kind = iota
	KindAdd
	KindEcho
)

// AddRequest asks the server to add two operands.
type AddRequest struct {
	A int64
	B int64
}

// Echo asks the server to reflect content back unchanged.
type Echo struct {
	Content string
}

// ClientMessage is the tagged union received from a client. Exactly one of
// the variant pointers is set for a recognized kind; KindUnknown carries
// neither and is dropped by dispatch.
type ClientMessage struct {
	MessageID uint64
	Kind      Kind
	Add       *AddRequest
	Echo      *Echo
}

// AddResponse carries the sum for one AddRequest.
type AddResponse struct {
	Result int64
}

// EchoReply reflects an Echo's content.
type EchoReply struct {
	Content string
}

// ServerMessage is the tagged union sent back to a client.
type ServerMessage struct {
	MessageID uint64
	Kind      Kind
	Add       *AddResponse
	Echo      *EchoReply
}

// EncodeAddRequest builds the wire bytes for one AddRequest frame.
func EncodeAddRequest(messageID uint64, req AddRequest) ([]byte, error) {
	fields := []tlv.Field{
		tlv.NewFieldI64(schema.FieldOperandA, req.A),
		tlv.NewFieldI64(schema.FieldOperandB, req.B),
	}
	return encodeFrame(messageID, schema.MsgAddRequest, 0, fields)
}

// EncodeEcho builds the wire bytes for one Echo frame.
func EncodeEcho(messageID uint64, echo Echo) ([]byte, error) {
	fields := []tlv.Field{
		tlv.NewFieldString(schema.FieldContent, echo.Content),
	}
	return encodeFrame(messageID, schema.MsgEcho, 0, fields)
}

// EncodeServerMessage builds the wire bytes for one response frame.
func EncodeServerMessage(msg ServerMessage) ([]byte, error) {
	switch msg.Kind {
	case KindAdd:
		fields := []tlv.Field{
			tlv.NewFieldI64(schema.FieldResult, msg.Add.Result),
		}
		return encodeFrame(msg.MessageID, schema.MsgAddResponse, frame.FlagIsResponse, fields)
	case KindEcho:
		fields := []tlv.Field{
			tlv.NewFieldString(schema.FieldContent, msg.Echo.Content),
		}
		return encodeFrame(msg.MessageID, schema.MsgEchoReply, frame.FlagIsResponse, fields)
	default:
		return nil, schema.ValidationError{Reason: "unencodable server message kind"}
	}
}

// DecodeClientMessage parses one decoded frame into a typed client variant.
// Message types outside the client catalog decode to KindUnknown without
// error; the caller drops them.
func DecodeClientMessage(f frame.Frame) (ClientMessage, error) {
	msg := ClientMessage{MessageID: f.Header.MessageID}

	switch f.Header.MessageType {
	case schema.MsgAddRequest:
		fields, err := tlv.DecodeFields(f.Payload)
		if err != nil {
			return ClientMessage{}, err
		}
		if err := schema.Validate(schema.MsgAddRequest, fields); err != nil {
			return ClientMessage{}, err
		}
		a, err := requiredI64(fields, schema.FieldOperandA)
		if err != nil {
			return ClientMessage{}, err
		}
		b, err := requiredI64(fields, schema.FieldOperandB)
		if err != nil {
			return ClientMessage{}, err
		}
		msg.Kind = KindAdd
		msg.Add = &AddRequest{A: a, B: b}
	case schema.MsgEcho:
		fields, err := tlv.DecodeFields(f.Payload)
		if err != nil {
			return ClientMessage{}, err
		}
		if err := schema.Validate(schema.MsgEcho, fields); err != nil {
			return ClientMessage{}, err
		}
		content, err := requiredString(fields, schema.FieldContent)
		if err != nil {
			return ClientMessage{}, err
		}
		msg.Kind = KindEcho
		msg.Echo = &Echo{Content: content}
	default:
		msg.Kind = KindUnknown
	}

	return msg, nil
}

// DecodeServerMessage parses one decoded frame into a typed server variant.
// Used by clients and tests; the server never reads its own responses.
func DecodeServerMessage(f frame.Frame) (ServerMessage, error) {
	msg := ServerMessage{MessageID: f.Header.MessageID}

	switch f.Header.MessageType {
	case schema.MsgAddResponse:
		fields, err := tlv.DecodeFields(f.Payload)
		if err != nil {
			return ServerMessage{}, err
		}
		if err := schema.Validate(schema.MsgAddResponse, fields); err != nil {
			return ServerMessage{}, err
		}
		result, err := requiredI64(fields, schema.FieldResult)
		if err != nil {
			return ServerMessage{}, err
		}
		msg.Kind = KindAdd
		msg.Add = &AddResponse{Result: result}
	case schema.MsgEchoReply:
		fields, err := tlv.DecodeFields(f.Payload)
		if err != nil {
			return ServerMessage{}, err
		}
		if err := schema.Validate(schema.MsgEchoReply, fields); err != nil {
			return ServerMessage{}, err
		}
		content, err := requiredString(fields, schema.FieldContent)
		if err != nil {
			return ServerMessage{}, err
		}
		msg.Kind = KindEcho
		msg.Echo = &EchoReply{Content: content}
	default:
		msg.Kind = KindUnknown
	}

	return msg, nil
}

func encodeFrame(messageID uint64, messageType uint32, flags uint32, fields []tlv.Field) ([]byte, error) {
	if err := schema.Validate(messageType, fields); err != nil {
		return nil, err
	}
	payload := tlv.EncodeFields(fields)
	var buf bytes.Buffer
	err := frame.WriteFrame(&buf, frame.Frame{
		Header: frame.Header{
			MessageID:   messageID,
			MessageType: messageType,
			Flags:       flags,
		},
		Payload: payload,
	}, frame.DefaultLimits())
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func requiredI64(fields []tlv.Field, id uint16) (int64, error) {
	f, _ := tlv.GetField(fields, id)
	return f.I64()
}

func requiredString(fields []tlv.Field, id uint16) (string, error) {
	f, _ := tlv.GetField(fields, id)
	return f.Text()
}
