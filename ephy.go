// Package ephy provides management-plane access to Ethernet physical layer
// transceivers (PHYs): bringing the link up, tracking negotiated
// speed/duplex and propagating link state transitions to a host network
// stack.
//
// The package models the PHY management plane the way hardware exposes it:
// a 32-register window reached over a serial management interface (MDIO) or
// through the MAC's own register access machinery. Chip drivers implement
// [PHYDriver] against [Interface] and register themselves by name so
// generic interface-management code can drive any PHY uniformly.
//
// Register transfers do not report failure. A failed transfer surfaces as a
// stale or all-ones value, matching the behavior of the underlying bus.
// Callers that need to detect an absent device should probe it first, see
// [Probe].
package ephy

import "log/slog"

// Opcode selects the operation field of a Clause 22 management frame.
type Opcode uint8

// Management frame opcodes as they appear on the MDIO wire.
const (
	OpWrite Opcode = 0b01
	OpRead  Opcode = 0b10
)

// Speed is the resolved link speed of a PHY.
type Speed uint8

// Link speeds.
const (
	SpeedUnknown Speed = iota // unknown
	Speed10M                  // 10M
	Speed100M                 // 100M
)

func (s Speed) String() string {
	switch s {
	case Speed10M:
		return "10M"
	case Speed100M:
		return "100M"
	default:
		return "unknown"
	}
}

// Duplex is the resolved duplex mode of a PHY.
type Duplex uint8

// Duplex modes.
const (
	DuplexUnknown Duplex = iota // unknown
	DuplexHalf                  // half
	DuplexFull                  // full
)

func (d Duplex) String() string {
	switch d {
	case DuplexHalf:
		return "half"
	case DuplexFull:
		return "full"
	default:
		return "unknown"
	}
}

// RegisterIO is the transfer contract shared by all PHY register transports.
// Transfers are synchronous and do not report failure; a failed read yields
// a stale or all-ones value.
type RegisterIO interface {
	// WritePHYReg writes a 16-bit value to a PHY register.
	WritePHYReg(op Opcode, phyAddr, regAddr uint8, value uint16)
	// ReadPHYReg reads a 16-bit PHY register.
	ReadPHYReg(op Opcode, phyAddr, regAddr uint8) uint16
}

// SMI is a serial management interface (MDIO/MDC) collaborator. When an
// interface carries one it is the preferred register transport.
type SMI interface {
	// Init initializes the management bus hardware.
	Init() error
	RegisterIO
}

// IRQLine is an external interrupt line collaborator. Gating the line has
// no chip-level effect; the PHY's own interrupt enable bits are configured
// once by the driver during Init.
type IRQLine interface {
	// Init initializes the interrupt line hardware.
	Init() error
	// EnableIRQ unmasks the line at the host interrupt controller.
	EnableIRQ()
	// DisableIRQ masks the line at the host interrupt controller.
	DisableIRQ()
}

// MAC is the integrated MAC/NIC collaborator. It is always required: it
// serves as the fallback register transport when no SMI is present and is
// notified when the PHY resolves a new speed/duplex so MAC-side clocking
// and framing can be matched to the wire.
type MAC interface {
	RegisterIO
	// UpdateMACConfig reconfigures the MAC for the interface's current
	// LinkSpeed and Duplex.
	UpdateMACConfig(ifc *Interface)
}

// EventSink receives the two notifications a PHY driver raises towards the
// host stack. Implementations are typically a wrapper around the host's
// dispatch loop wake-up primitive.
type EventSink interface {
	// PHYEvent wakes the host dispatch loop: a PHY-originated condition on
	// ifc needs evaluation via the driver's HandleEvent.
	PHYEvent(ifc *Interface)
	// LinkChange is called after a confirmed or re-evaluated link
	// transition, with the interface's link fields already updated.
	LinkChange(ifc *Interface)
}

// PHYDriver is the fixed five-operation record every chip driver provides.
// The host invokes Tick from a periodic timer context and HandleEvent from
// its dispatch loop; the two contexts must never run concurrently against
// the same interface. Drivers perform no locking of their own.
type PHYDriver interface {
	// Init resets and configures the transceiver and forces an initial
	// link evaluation. May block indefinitely against unresponsive
	// hardware; see the chip driver's documentation.
	Init(ifc *Interface) error
	// Tick polls for link changes. Only acts on interfaces without an
	// interrupt line; contains no timing logic of its own.
	Tick(ifc *Interface)
	// EnableIRQ unmasks the external interrupt line, when present.
	EnableIRQ(ifc *Interface)
	// DisableIRQ masks the external interrupt line, when present.
	DisableIRQ(ifc *Interface)
	// HandleEvent acknowledges a pending PHY condition and recomputes the
	// interface's link state, speed and duplex.
	HandleEvent(ifc *Interface)
}

// LogEnabled reports whether the interface logger emits records at lvl.
func (ifc *Interface) LogEnabled(lvl slog.Level) bool {
	return internalLogEnabled(ifc.log, lvl)
}

// LogAttrs logs to the interface logger, if one was configured.
func (ifc *Interface) LogAttrs(lvl slog.Level, msg string, attrs ...slog.Attr) {
	internalLogAttrs(ifc.log, lvl, msg, attrs...)
}
