// Package dispatch maps decoded client messages to server responses. It is
// pure: no I/O, no shared state, total over every decodable input.
package dispatch

import (
	"github.com/jmorgan81/calcwire/internal/protocol/envelope"
)

// Dispatch produces the response for one client message. The second return
// is false when the message carries no recognized variant; the connection
// handler then sends nothing, keeping the silent-drop policy end to end.
func Dispatch(msg envelope.ClientMessage) (envelope.ServerMessage, bool) {
	switch msg.Kind {
	case envelope.KindAdd:
		return envelope.ServerMessage{
			MessageID: msg.MessageID,
			Kind:      envelope.KindAdd,
			Add:       &envelope.AddResponse{Result: add(msg.Add.A, msg.Add.B)},
		}, true
	case envelope.KindEcho:
		return envelope.ServerMessage{
			MessageID: msg.MessageID,
			Kind:      envelope.KindEcho,
			Echo:      &envelope.EchoReply{Content: msg.Echo.Content},
		}, true
	default:
		return envelope.ServerMessage{}, false
	}
}

// add uses int64 two's-complement wraparound on overflow. The wire fields
// are i64, so the sum keeps the operand width; saturating or error replies
// would need a response variant the catalog does not define.
func add(a, b int64) int64 {
	return a + b
}
