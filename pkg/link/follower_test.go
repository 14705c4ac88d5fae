package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func respondN(f *Follower, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = f.Respond(QueryByte)
	}
	return out
}

func TestFollowerFraming(t *testing.T) {
	testCases := []struct {
		name   string
		script func(f *Follower) []byte
		expect []byte
	}{
		{
			name:   "steady state repeats committed command",
			script: func(f *Follower) []byte { return respondN(f, 3) },
			expect: []byte{0x00, 0x00, 0x00},
		},
		{
			name: "new command framed as flag then value",
			script: func(f *Follower) []byte {
				f.SetCommand(CmdDriveFwdFull)
				return respondN(f, 4)
			},
			expect: []byte{0xFF, 0x09, 0x09, 0x09},
		},
		{
			name: "unchanged command not re-framed",
			script: func(f *Follower) []byte {
				f.SetCommand(CmdRotateCW90)
				out := respondN(f, 3)
				f.SetCommand(CmdRotateCW90)
				return append(out, respondN(f, 2)...)
			},
			expect: []byte{0xFF, 0x02, 0x02, 0x02, 0x02},
		},
		{
			name: "stop always re-arms",
			script: func(f *Follower) []byte {
				f.SetCommand(CmdStop)
				return respondN(f, 3)
			},
			expect: []byte{0xFF, 0x00, 0x00},
		},
		{
			name: "command change mid-frame is dropped",
			script: func(f *Follower) []byte {
				f.SetCommand(CmdRotateCW90)
				out := respondN(f, 1) // flag out
				f.SetCommand(CmdSearchTape)
				return append(out, respondN(f, 3)...)
			},
			expect: []byte{0xFF, 0x02, 0x02, 0x02},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.script(NewFollower()))
		})
	}
}

// The reply stream must never contain two consecutive flags for a
// single framing, and never a new command byte before its flag.
func TestFollowerReplyInvariant(t *testing.T) {
	f := NewFollower()
	cmds := []Command{CmdDriveFwdFull, CmdRotateCCW45, CmdAlignBeacon, CmdStop, CmdStop}
	var stream []byte
	for _, cmd := range cmds {
		f.SetCommand(cmd)
		stream = append(stream, respondN(f, 5)...)
	}
	for i, b := range stream {
		if b != FlagByte {
			continue
		}
		require.Greater(t, len(stream), i+1, "flag must be followed by a value")
		require.NotEqual(t, FlagByte, stream[i+1], "no consecutive flags at %d", i)
	}
}

// A commit while the frame is in flight must not restart framing:
// the byte after a flag is always a value, and the dropped command
// can be re-committed once the follower is idle again.
func TestFollowerMidFrameCommitDropped(t *testing.T) {
	f := NewFollower()
	f.SetCommand(CmdRotateCW90)
	require.Equal(t, FlagByte, f.Respond(QueryByte))
	f.SetCommand(CmdSearchTape)
	require.Equal(t, byte(CmdRotateCW90), f.Respond(QueryByte))
	require.Equal(t, CmdRotateCW90, f.Command())
	require.Equal(t, FollowerIdle, f.State())

	f.SetCommand(CmdSearchTape)
	require.Equal(t, []byte{0xFF, 0x40, 0x40}, respondN(f, 3))
}

func TestFollowerRespondIgnoresQueryPayload(t *testing.T) {
	f := NewFollower()
	f.SetCommand(CmdDriveRevHalf)
	require.Equal(t, FlagByte, f.Respond(0x55))
	require.Equal(t, byte(CmdDriveRevHalf), f.Respond(0x00))
	require.Equal(t, byte(CmdDriveRevHalf), f.Respond(0xFF))
}

// Loopback models the one-exchange transmit pipeline: the framing
// sequence appears shifted by exactly one exchange.
func TestLoopbackPipelineDelay(t *testing.T) {
	f := NewFollower()
	lb := NewLoopback(f)

	b, err := lb.Exchange(QueryByte)
	require.NoError(t, err)
	require.Equal(t, byte(CmdStop), b)

	f.SetCommand(CmdDriveFwdFull)
	var stream []byte
	for i := 0; i < 4; i++ {
		b, err = lb.Exchange(QueryByte)
		require.NoError(t, err)
		stream = append(stream, b)
	}
	// Exchange n returns the byte staged during exchange n-1.
	require.Equal(t, []byte{0x00, 0xFF, 0x09, 0x09}, stream)
}

func TestCommandWhitelist(t *testing.T) {
	valid := []byte{0x00, 0x02, 0x03, 0x04, 0x05, 0x08, 0x09, 0x10, 0x11, 0x20, 0x40}
	for _, b := range valid {
		require.True(t, Command(b).Valid(), "0x%02x", b)
	}
	for _, b := range []byte{0x01, 0x06, 0x07, 0x12, 0x21, 0x41, 0x80, 0xAA, 0xFF} {
		require.False(t, Command(b).Valid(), "0x%02x", b)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, ok := ParseCommand("drive-fwd-full")
	require.True(t, ok)
	require.Equal(t, CmdDriveFwdFull, cmd)
	_, ok = ParseCommand("warp-9")
	require.False(t, ok)
	require.Len(t, CommandNames(), 11)
}
