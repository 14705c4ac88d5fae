// Package msgs provides the telemetry protocol support and all
// message schemas.
package msgs

// The telemetry protocol is communicated between the rover
// controller and operator consoles, and uses hardware-agnostic
// primitives.
//
// Producer: rover controller
// Consumer: operator console
