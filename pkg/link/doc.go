// Package link provides the command link protocol between the two boards.
package link

// The command link is a byte-oriented synchronous connection: the
// leader board clocks one byte in and out per exchange, the follower
// board replies from an interrupt-style callback. Framing is purely
// value based: a new command is announced by a single 0xFF flag byte
// and carried by the byte of the following exchange; in steady state
// the follower repeats the last committed command byte.
//
// There is no length byte and no CRC. The leader polls on a coarse
// period, so intermediate command changes between two polls are lost.
//
// Producer: follower board (operator command source)
// Consumer: leader board (motion supervisor)
