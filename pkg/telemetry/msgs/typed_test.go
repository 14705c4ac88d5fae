package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

func TestTypedRoundTrip(t *testing.T) {
	typed, err := TypedFrom(&ManeuverCmd{Command: 0x20})
	require.NoError(t, err)
	require.Equal(t, ManeuverCmdTypeID, typed.TypeId)
	require.True(t, typed.IsCommand())
	typed.Sequence = 7

	pkt, err := typed.Encode()
	require.NoError(t, err)

	decoded, err := DecodeTyped(pkt)
	require.NoError(t, err)
	require.Equal(t, uint32(7), decoded.Sequence)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	cmd, ok := msg.(*ManeuverCmd)
	require.True(t, ok)
	require.Equal(t, uint32(0x20), cmd.Command)
}

func TestTypedKinds(t *testing.T) {
	testCases := []struct {
		name  string
		msg   SerializableMessage
		event bool
	}{
		{"maneuver", &ManeuverCmd{}, false},
		{"state query", &StateQuery{}, false},
		{"command ok", &CommandOK{}, false},
		{"command err", &CommandErr{}, false},
		{"state reply", &StateReply{}, false},
		{"command event", &CommandEvent{}, true},
		{"beacon event", &BeaconEvent{}, true},
		{"tape event", &TapeEvent{}, true},
		{"state event", &StateEvent{}, true},
		{"failure event", &FailureEvent{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := TypedFrom(tc.msg)
			require.NoError(t, err)
			require.Equal(t, tc.event, typed.IsEvent())
			require.Equal(t, !tc.event, typed.IsCommand())
		})
	}
}

func TestTypedUnknownType(t *testing.T) {
	typed := &Typed{TypeId: GroupCustom | 0x1234}
	_, err := typed.Decode()
	require.Error(t, err)
	unknown, ok := err.(*ErrUnknownType)
	require.True(t, ok)
	require.Equal(t, GroupCustom|uint32(0x1234), unknown.TypeID)
}

func TestTypedReplies(t *testing.T) {
	require.NotZero(t, CommandOKTypeID&TypeIDMaskReply)
	require.NotZero(t, CommandErrTypeID&TypeIDMaskReply)
	require.Equal(t, StateQueryTypeID, StateReplyTypeID&^TypeIDMaskReply)
}

func TestTypedFromNotSerializable(t *testing.T) {
	_, err := TypedFrom(&notSerializable{})
	require.Equal(t, ErrNotSerializable, err)
}

type notSerializable struct{}

func (m *notSerializable) NewMessage() fx.Message { return &notSerializable{} }
