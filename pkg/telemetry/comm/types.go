package comm

// PacketReader reads one telemetry packet per call.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes one telemetry packet per call.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is the transport contract for a telemetry pipe:
// packet in, packet out, framing owned by the implementation.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
