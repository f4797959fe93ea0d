package ephy

import (
	"log/slog"
	"time"

	"github.com/soypat/ephy/internal"
	"github.com/soypat/ephy/mii"
)

// Interface is the per-transceiver record shared between the host stack and
// a PHY driver. The host owns the Interface; drivers only read it and
// mutate the designated link fields during their five operations.
//
// LinkState, LinkSpeed and Duplex are mutated exclusively by the driver's
// HandleEvent operation. LinkSpeed and Duplex are only meaningful while
// LinkState is true; they go stale, not zero, when the link drops.
type Interface struct {
	// PHYAddr is the transceiver's address on the management bus, 0-31.
	// A value above 31 is replaced with the chip default during driver Init,
	// before any register access occurs.
	PHYAddr uint8
	// LinkState is the current known link state.
	LinkState bool
	// LinkSpeed is the resolved link speed. Valid while LinkState is true.
	LinkSpeed Speed
	// Duplex is the resolved duplex mode. Valid while LinkState is true.
	Duplex Duplex
	// PHYEventPending signals the host that a PHY-originated condition
	// needs evaluation via the driver's HandleEvent. Set by the driver,
	// cleared by the host.
	PHYEventPending bool

	smi  SMI
	irq  IRQLine
	mac  MAC
	sink EventSink
	log  *slog.Logger

	// Latched once by Configure so per-operation code never re-inspects
	// collaborator presence.
	xfer    RegisterIO
	polling bool
}

// InterfaceConfig carries the collaborators an Interface is wired to.
// Presence or absence of the optional collaborators selects behavior once,
// at Configure time: SMI presence selects the register transport, IRQLine
// presence selects interrupt-driven over polled link change detection.
type InterfaceConfig struct {
	// PHYAddr is the management bus address of the PHY. Values above 31
	// are permitted here and substituted with the chip default at Init.
	PHYAddr uint8
	// SMI is the serial management interface. Optional; when nil all
	// register access goes through the MAC.
	SMI SMI
	// IRQLine is the external interrupt line. Optional; when nil the
	// interface is driven by the polling path.
	IRQLine IRQLine
	// MAC is the integrated MAC/NIC collaborator. Required.
	MAC MAC
	// Events receives driver notifications towards the host. Required.
	Events EventSink
	// Logger receives driver diagnostics. Optional.
	Logger *slog.Logger
}

// Configure resets all state of the interface and wires in collaborators.
// Must be called before registering the interface with a driver.
func (ifc *Interface) Configure(cfg InterfaceConfig) error {
	if cfg.MAC == nil {
		return ErrNoMAC
	} else if cfg.Events == nil {
		return ErrNoEventSink
	}
	*ifc = Interface{
		PHYAddr: cfg.PHYAddr,
		smi:     cfg.SMI,
		irq:     cfg.IRQLine,
		mac:     cfg.MAC,
		sink:    cfg.Events,
		log:     cfg.Logger,
		polling: cfg.IRQLine == nil,
	}
	if cfg.SMI != nil {
		ifc.xfer = cfg.SMI
	} else {
		ifc.xfer = cfg.MAC
	}
	return nil
}

// Polling reports whether link changes are detected by the driver's Tick
// operation. False means an external interrupt line drives detection.
func (ifc *Interface) Polling() bool { return ifc.polling }

// SMI returns the serial management interface collaborator, or nil.
func (ifc *Interface) SMI() SMI { return ifc.smi }

// IRQ returns the external interrupt line collaborator, or nil.
func (ifc *Interface) IRQ() IRQLine { return ifc.irq }

// MAC returns the MAC collaborator.
func (ifc *Interface) MAC() MAC { return ifc.mac }

// WritePHYReg writes a PHY register through the transport latched at
// Configure time. Transfer failures are not reported; see package docs.
func (ifc *Interface) WritePHYReg(regAddr uint8, value uint16) {
	ifc.xfer.WritePHYReg(OpWrite, ifc.PHYAddr, regAddr, value)
}

// ReadPHYReg reads a PHY register through the transport latched at
// Configure time. Transfer failures are not reported; see package docs.
func (ifc *Interface) ReadPHYReg(regAddr uint8) uint16 {
	return ifc.xfer.ReadPHYReg(OpRead, ifc.PHYAddr, regAddr)
}

// RaisePHYEvent marks the interface as needing evaluation and wakes the
// host dispatch loop.
func (ifc *Interface) RaisePHYEvent() {
	ifc.PHYEventPending = true
	ifc.sink.PHYEvent(ifc)
}

// NotifyLinkChange propagates a confirmed or re-evaluated link transition
// to the host stack.
func (ifc *Interface) NotifyLinkChange() {
	ifc.sink.LinkChange(ifc)
}

// DumpRegisters reads the full 32-register space in ascending address order
// and logs each address/value pair at debug level. Purely observational:
// reads only, no device state mutation beyond read side effects the chip
// itself defines.
func (ifc *Interface) DumpRegisters() {
	for addr := uint8(0); addr < 32; addr++ {
		value := ifc.ReadPHYReg(addr)
		ifc.LogAttrs(slog.LevelDebug, "phyreg",
			slog.Uint64("addr", uint64(addr)),
			internal.SlogHex16("value", value),
		)
	}
}

// Probe scans management bus addresses 0 through 31 for responding PHYs and
// writes found addresses to dst, which must hold at least 32 entries.
// An address responds if its basic status register reads as neither all
// zeros nor all ones; both patterns indicate an undriven or stuck bus.
// Returns an error only if no PHY is found.
func Probe(smi SMI, dst []uint8) (n int, err error) {
	const maxAddr = 31
	if len(dst) < maxAddr+1 {
		return -1, ErrShortBuffer
	}
	for addr := uint8(0); addr <= maxAddr; addr++ {
		v := smi.ReadPHYReg(OpRead, addr, mii.AddrBMSR)
		if v != 0xffff && v != 0x0000 {
			dst[n] = addr
			n++
		}
		time.Sleep(150 * time.Microsecond)
	}
	if n <= 0 {
		err = ErrNoPHYFound
	}
	return n, err
}
