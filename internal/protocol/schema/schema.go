package schema

import (
	"fmt"

	"github.com/jmorgan81/calcwire/internal/protocol/tlv"
)

// Message type IDs from the wire contract. Client-originated types live
// below 100, server-originated types at 100 and above.
const (
	MsgAddRequest uint32 = 1
	MsgEcho       uint32 = 2

	MsgAddResponse uint32 = 101
	MsgEchoReply   uint32 = 102
)

// Field IDs from the wire contract.
const (
	FieldOperandA uint16 = 1
	FieldOperandB uint16 = 2

	FieldResult uint16 = 10

	FieldContent uint16 = 20
)

type Requirement struct {
	ID   uint16
	Type uint8
}

type ValidationError struct {
	MessageType uint32
	FieldID     uint16
	Reason      string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("schema: message_type=%d: %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("schema: message_type=%d field=%d: %s", e.MessageType, e.FieldID, e.Reason)
}

var requirements = map[uint32][]Requirement{
	MsgAddRequest: {
		{FieldOperandA, tlv.TypeI64},
		{FieldOperandB, tlv.TypeI64},
	},
	MsgEcho: {
		{FieldContent, tlv.TypeString},
	},
	MsgAddResponse: {
		{FieldResult, tlv.TypeI64},
	},
	MsgEchoReply: {
		{FieldContent, tlv.TypeString},
	},
}

// Known reports whether the message type is part of the catalog.
func Known(messageType uint32) bool {
	_, ok := requirements[messageType]
	return ok
}

// Validate checks that every required field for the message type is present
// with the required TLV type. Unknown fields are allowed and ignored.
func Validate(messageType uint32, fields []tlv.Field) error {
	reqs, ok := requirements[messageType]
	if !ok {
		return ValidationError{MessageType: messageType, Reason: "unknown message type"}
	}
	for _, req := range reqs {
		f, ok := tlv.GetField(fields, req.ID)
		if !ok {
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: "missing required field"}
		}
		if f.Type != req.Type {
			return ValidationError{
				MessageType: messageType,
				FieldID:     req.ID,
				Reason:      fmt.Sprintf("type mismatch: got %d want %d", f.Type, req.Type),
			}
		}
	}
	return nil
}
