package dispatch

import (
	"math"
	"testing"

	"github.com/jmorgan81/calcwire/internal/protocol/envelope"
)

func TestDispatchAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b int64
		want int64
	}{
		{"positive", 2, 3, 5},
		{"negative cancels", -1, 1, 0},
		{"both negative", -4, -6, -10},
		{"wraparound max", math.MaxInt64, 1, math.MinInt64},
		{"wraparound min", math.MinInt64, -1, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, ok := Dispatch(envelope.ClientMessage{
				MessageID: 1,
				Kind:      envelope.KindAdd,
				Add:       &envelope.AddRequest{A: tt.a, B: tt.b},
			})
			if !ok {
				t.Fatalf("expected a response")
			}
			if resp.Kind != envelope.KindAdd {
				t.Fatalf("expected KindAdd, got %d", resp.Kind)
			}
			if resp.Add.Result != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Add.Result)
			}
		})
	}
}

func TestDispatchEcho(t *testing.T) {
	resp, ok := Dispatch(envelope.ClientMessage{
		MessageID: 2,
		Kind:      envelope.KindEcho,
		Echo:      &envelope.Echo{Content: "hello"},
	})
	if !ok {
		t.Fatalf("expected a response")
	}
	if resp.Kind != envelope.KindEcho || resp.Echo.Content != "hello" {
		t.Fatalf("echo mismatch: %+v", resp)
	}
}

func TestDispatchPreservesMessageID(t *testing.T) {
	resp, ok := Dispatch(envelope.ClientMessage{
		MessageID: 77,
		Kind:      envelope.KindAdd,
		Add:       &envelope.AddRequest{A: 1, B: 1},
	})
	if !ok {
		t.Fatalf("expected a response")
	}
	if resp.MessageID != 77 {
		t.Fatalf("expected message id 77, got %d", resp.MessageID)
	}
}

func TestDispatchUnknownDropped(t *testing.T) {
	if _, ok := Dispatch(envelope.ClientMessage{Kind: envelope.KindUnknown}); ok {
		t.Fatalf("unknown variant must produce no response")
	}
}
