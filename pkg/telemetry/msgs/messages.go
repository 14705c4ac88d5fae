package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandOK) ProtoMessage() {}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandErr) ProtoMessage() {}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// ManeuverCmd commands one maneuver by its link command byte.
type ManeuverCmd struct {
	Command uint32 `protobuf:"varint,1,opt,name=command,proto3" json:"command,omitempty"`
}

// Reset implements proto.Message.
func (m *ManeuverCmd) Reset() { *m = ManeuverCmd{} }

// String implements proto.Message.
func (m *ManeuverCmd) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ManeuverCmd) ProtoMessage() {}

// NewMessage implements Message.
func (m *ManeuverCmd) NewMessage() fx.Message { return &ManeuverCmd{} }

// TypeID implements SerializableMessage.
func (m *ManeuverCmd) TypeID() uint32 { return ManeuverCmdTypeID }

// Serializable implements SerializableMessage.
func (m *ManeuverCmd) Serializable() proto.Message { return m }

// StateQuery command.
type StateQuery struct {
}

// Reset implements proto.Message.
func (m *StateQuery) Reset() { *m = StateQuery{} }

// String implements proto.Message.
func (m *StateQuery) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*StateQuery) ProtoMessage() {}

// NewMessage implements Message.
func (m *StateQuery) NewMessage() fx.Message { return &StateQuery{} }

// TypeID implements SerializableMessage.
func (m *StateQuery) TypeID() uint32 { return StateQueryTypeID }

// Serializable implements SerializableMessage.
func (m *StateQuery) Serializable() proto.Message { return m }

// StateReply response.
type StateReply struct {
	State    uint32  `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
	Name     string  `protobuf:"bytes,2,opt,name=name,proto3" json:"name,omitempty"`
	Deferred uint32  `protobuf:"varint,3,opt,name=deferred,proto3" json:"deferred,omitempty"`
	BeaconHz float64 `protobuf:"fixed64,4,opt,name=beacon_hz,json=beaconHz,proto3" json:"beacon_hz,omitempty"`
}

// Reset implements proto.Message.
func (m *StateReply) Reset() { *m = StateReply{} }

// String implements proto.Message.
func (m *StateReply) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*StateReply) ProtoMessage() {}

// NewMessage implements Message.
func (m *StateReply) NewMessage() fx.Message { return &StateReply{} }

// TypeID implements SerializableMessage.
func (m *StateReply) TypeID() uint32 { return StateReplyTypeID }

// Serializable implements SerializableMessage.
func (m *StateReply) Serializable() proto.Message { return m }

// CommandEvent reports a command framed off the link.
type CommandEvent struct {
	Command uint32 `protobuf:"varint,1,opt,name=command,proto3" json:"command,omitempty"`
}

// Reset implements proto.Message.
func (m *CommandEvent) Reset() { *m = CommandEvent{} }

// String implements proto.Message.
func (m *CommandEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *CommandEvent) NewMessage() fx.Message { return &CommandEvent{} }

// TypeID implements SerializableMessage.
func (m *CommandEvent) TypeID() uint32 { return CommandEventTypeID }

// Serializable implements SerializableMessage.
func (m *CommandEvent) Serializable() proto.Message { return m }

// BeaconEvent reports an in-band beacon frequency estimate.
type BeaconEvent struct {
	FrequencyHz float64 `protobuf:"fixed64,1,opt,name=frequency_hz,json=frequencyHz,proto3" json:"frequency_hz,omitempty"`
}

// Reset implements proto.Message.
func (m *BeaconEvent) Reset() { *m = BeaconEvent{} }

// String implements proto.Message.
func (m *BeaconEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*BeaconEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *BeaconEvent) NewMessage() fx.Message { return &BeaconEvent{} }

// TypeID implements SerializableMessage.
func (m *BeaconEvent) TypeID() uint32 { return BeaconEventTypeID }

// Serializable implements SerializableMessage.
func (m *BeaconEvent) Serializable() proto.Message { return m }

// TapeEvent reports the tape sensor asserting.
type TapeEvent struct {
}

// Reset implements proto.Message.
func (m *TapeEvent) Reset() { *m = TapeEvent{} }

// String implements proto.Message.
func (m *TapeEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*TapeEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *TapeEvent) NewMessage() fx.Message { return &TapeEvent{} }

// TypeID implements SerializableMessage.
func (m *TapeEvent) TypeID() uint32 { return TapeEventTypeID }

// Serializable implements SerializableMessage.
func (m *TapeEvent) Serializable() proto.Message { return m }

// StateEvent reports a supervisor state transition.
type StateEvent struct {
	From  uint32 `protobuf:"varint,1,opt,name=from,proto3" json:"from,omitempty"`
	To    uint32 `protobuf:"varint,2,opt,name=to,proto3" json:"to,omitempty"`
	Cause string `protobuf:"bytes,3,opt,name=cause,proto3" json:"cause,omitempty"`
}

// Reset implements proto.Message.
func (m *StateEvent) Reset() { *m = StateEvent{} }

// String implements proto.Message.
func (m *StateEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*StateEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *StateEvent) NewMessage() fx.Message { return &StateEvent{} }

// TypeID implements SerializableMessage.
func (m *StateEvent) TypeID() uint32 { return StateEventTypeID }

// Serializable implements SerializableMessage.
func (m *StateEvent) Serializable() proto.Message { return m }

// FailureEvent reports a non-fatal maneuver failure.
type FailureEvent struct {
	State  uint32 `protobuf:"varint,1,opt,name=state,proto3" json:"state,omitempty"`
	Reason string `protobuf:"bytes,2,opt,name=reason,proto3" json:"reason,omitempty"`
}

// Reset implements proto.Message.
func (m *FailureEvent) Reset() { *m = FailureEvent{} }

// String implements proto.Message.
func (m *FailureEvent) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*FailureEvent) ProtoMessage() {}

// NewMessage implements Message.
func (m *FailureEvent) NewMessage() fx.Message { return &FailureEvent{} }

// TypeID implements SerializableMessage.
func (m *FailureEvent) TypeID() uint32 { return FailureEventTypeID }

// Serializable implements SerializableMessage.
func (m *FailureEvent) Serializable() proto.Message { return m }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupRover   uint32 = 0x00020000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID    uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID   uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	ManeuverCmdTypeID  uint32 = GroupRover | 0x0000
	StateQueryTypeID   uint32 = GroupRover | 0x0001
	StateReplyTypeID   uint32 = StateQueryTypeID | TypeIDMaskReply
	CommandEventTypeID uint32 = TypeIDKindEvent | GroupRover | 0x0000
	BeaconEventTypeID  uint32 = TypeIDKindEvent | GroupRover | 0x0001
	TapeEventTypeID    uint32 = TypeIDKindEvent | GroupRover | 0x0002
	StateEventTypeID   uint32 = TypeIDKindEvent | GroupRover | 0x0003
	FailureEventTypeID uint32 = TypeIDKindEvent | GroupRover | 0x0004
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
