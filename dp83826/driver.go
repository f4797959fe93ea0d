// Package dp83826 implements the ephy driver for the Texas Instruments
// DP83826 10/100 Ethernet PHY.
//
// The driver covers the management plane only: reset and interrupt pin
// configuration, link change detection over either the polled or the
// interrupt path, and decode of the negotiated link parameters from the
// PHYSTS register. Auto-negotiation itself runs in silicon; this driver
// only reads its results.
package dp83826

import (
	"log/slog"

	"github.com/soypat/ephy"
	"github.com/soypat/ephy/internal"
	"github.com/soypat/ephy/mii"
)

func init() {
	ephy.Register("dp83826", Driver{})
}

// Driver implements the five-operation PHY driver contract for the DP83826.
// It is stateless; all per-transceiver state lives in the ephy.Interface.
type Driver struct{}

var _ ephy.PHYDriver = Driver{}

// Init resets and configures the transceiver and forces an initial link
// evaluation by the host.
//
// The reset wait polls the control register with no timeout: against a
// non-responsive or absent device Init blocks indefinitely. Callers that do
// not trust the hardware should probe the bus first (ephy.Probe).
func (Driver) Init(ifc *ephy.Interface) error {
	ifc.LogAttrs(slog.LevelInfo, "dp83826:init", slog.Uint64("phyaddr", uint64(ifc.PHYAddr)))
	if ifc.PHYAddr > 31 {
		ifc.PHYAddr = DefaultAddr
	}
	if smi := ifc.SMI(); smi != nil {
		if err := smi.Init(); err != nil {
			return err
		}
	}
	if irq := ifc.IRQ(); irq != nil {
		if err := irq.Init(); err != nil {
			return err
		}
	}
	// Software reset. The bit self-clears once the chip comes back.
	ifc.WritePHYReg(mii.AddrBMCR, uint16(mii.BMCRReset))
	for ifc.ReadPHYReg(mii.AddrBMCR)&uint16(mii.BMCRReset) != 0 {
	}
	if ifc.LogEnabled(slog.LevelDebug) {
		ifc.LogAttrs(slog.LevelDebug, "dp83826:id",
			internal.SlogHex16("id1", ifc.ReadPHYReg(mii.AddrID1)),
			internal.SlogHex16("id2", ifc.ReadPHYReg(mii.AddrID2)),
		)
	}
	ifc.DumpRegisters()
	// INT/PWDN pin as an interrupt output.
	ifc.WritePHYReg(AddrPHYSCR, uint16(PHYSCRIntEn|PHYSCRIntOE))
	// Interrupt on link status changes.
	ifc.WritePHYReg(AddrMISR1, uint16(MISR1LinkIntEn))
	// Force an initial link evaluation even though no transition occurred.
	ifc.RaisePHYEvent()
	return nil
}

// Tick polls the link status bit on interfaces without an interrupt line.
// It only detects that the link state may have changed; the actual decode
// happens when the host responds to the raised event with HandleEvent.
func (Driver) Tick(ifc *ephy.Interface) {
	if !ifc.Polling() {
		return
	}
	linkUp := mii.BMSR(ifc.ReadPHYReg(mii.AddrBMSR)).LinkUp()
	if linkUp != ifc.LinkState {
		ifc.RaisePHYEvent()
	}
}

// EnableIRQ unmasks the external interrupt line. The chip's own interrupt
// enable bits are configured once during Init and are not touched here.
func (Driver) EnableIRQ(ifc *ephy.Interface) {
	if irq := ifc.IRQ(); irq != nil {
		irq.EnableIRQ()
	}
}

// DisableIRQ masks the external interrupt line.
func (Driver) DisableIRQ(ifc *ephy.Interface) {
	if irq := ifc.IRQ(); irq != nil {
		irq.DisableIRQ()
	}
}

// HandleEvent acknowledges the pending interrupt condition and, on a link
// status change, recomputes the interface's link state, speed and duplex
// from PHYSTS. On link up the MAC is reconfigured to match the negotiated
// parameters. The host is notified of every acknowledged link change, even
// when the decoded state equals the previous one.
func (Driver) HandleEvent(ifc *ephy.Interface) {
	// Reading MISR1 acknowledges the interrupt on the chip.
	misr := MISR1(ifc.ReadPHYReg(AddrMISR1))
	if misr&MISR1LinkInt == 0 {
		return
	}
	status := PHYSTS(ifc.ReadPHYReg(AddrPHYSTS))
	if status&PHYSTSLink != 0 {
		if status&PHYSTSSpeed10 != 0 {
			ifc.LinkSpeed = ephy.Speed10M
		} else {
			ifc.LinkSpeed = ephy.Speed100M
		}
		if status&PHYSTSDuplex != 0 {
			ifc.Duplex = ephy.DuplexHalf
		} else {
			ifc.Duplex = ephy.DuplexFull
		}
		ifc.LinkState = true
		// MAC clocking and framing must match what the PHY negotiated.
		ifc.MAC().UpdateMACConfig(ifc)
	} else {
		// Speed and duplex go stale while the link is down.
		ifc.LinkState = false
	}
	ifc.LogAttrs(slog.LevelDebug, "dp83826:linkchange",
		slog.Bool("up", ifc.LinkState),
		slog.String("speed", ifc.LinkSpeed.String()),
		slog.String("duplex", ifc.Duplex.String()),
	)
	ifc.NotifyLinkChange()
}
