package dp83826

import (
	"testing"

	"github.com/soypat/ephy"
	"github.com/soypat/ephy/internal/phytest"
	"github.com/soypat/ephy/mii"
)

// resetAfter makes reads of BMCR report the self-clearing reset bit as set
// for the first n reads after which it reads back clear.
func resetAfter(rf *phytest.RegFile, n int) {
	remaining := n
	prev := rf.OnRead
	rf.OnRead = func(phyAddr, regAddr uint8, value uint16) uint16 {
		if prev != nil {
			value = prev(phyAddr, regAddr, value)
		}
		if regAddr == mii.AddrBMCR {
			if remaining > 0 {
				remaining--
				return uint16(mii.BMCRReset)
			}
			return 0
		}
		return value
	}
}

func newPolledIfc(t *testing.T, mac *phytest.MAC, sink *phytest.Sink, phyAddr uint8) *ephy.Interface {
	t.Helper()
	var ifc ephy.Interface
	err := ifc.Configure(ephy.InterfaceConfig{
		PHYAddr: phyAddr,
		MAC:     mac,
		Events:  sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &ifc
}

func TestInitSequence(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	resetAfter(&mac.RegFile, 2)
	ifc := newPolledIfc(t, mac, sink, 1)

	err := Driver{}.Init(ifc)
	if err != nil {
		t.Fatal(err)
	}

	// Expected access sequence: reset write, three reset polls
	// (set, set, clear), 32-register dump, PHYSCR write, MISR1 write.
	log := mac.Log
	if len(log) != 1+3+32+2 {
		t.Fatalf("expected 38 accesses, got %d", len(log))
	}
	if log[0].Op != ephy.OpWrite || log[0].RegAddr != mii.AddrBMCR || log[0].Value != uint16(mii.BMCRReset) {
		t.Fatal("first access is not the reset write:", log[0])
	}
	for i := 1; i <= 3; i++ {
		if log[i].Op != ephy.OpRead || log[i].RegAddr != mii.AddrBMCR {
			t.Fatal("expected reset poll read at index", i)
		}
	}
	if log[1].Value&uint16(mii.BMCRReset) == 0 || log[2].Value&uint16(mii.BMCRReset) == 0 {
		t.Fatal("first two reset polls should read the reset bit set")
	}
	if log[3].Value&uint16(mii.BMCRReset) != 0 {
		t.Fatal("third reset poll should read the reset bit clear")
	}
	for i := 0; i < 32; i++ {
		a := log[4+i]
		if a.Op != ephy.OpRead || a.RegAddr != uint8(i) {
			t.Fatalf("dump access %d visited register %d", i, a.RegAddr)
		}
	}
	scr := log[36]
	if scr.Op != ephy.OpWrite || scr.RegAddr != AddrPHYSCR || scr.Value != uint16(PHYSCRIntEn|PHYSCRIntOE) {
		t.Fatal("interrupt pin configuration write missing or wrong:", scr)
	}
	misr := log[37]
	if misr.Op != ephy.OpWrite || misr.RegAddr != AddrMISR1 || misr.Value != uint16(MISR1LinkIntEn) {
		t.Fatal("link interrupt enable write missing or wrong:", misr)
	}

	if !ifc.PHYEventPending {
		t.Error("Init must leave an initial evaluation pending")
	}
	if sink.Events != 1 {
		t.Error("Init must wake the host exactly once, got:", sink.Events)
	}
	if sink.LinkChanges != 0 {
		t.Error("Init must not notify a link change")
	}
}

func TestInitCollaborators(t *testing.T) {
	smi := &phytest.SMI{}
	mac := &phytest.MAC{}
	irq := &phytest.IRQ{}
	sink := &phytest.Sink{}
	resetAfter(&smi.RegFile, 0)
	var ifc ephy.Interface
	err := ifc.Configure(ephy.InterfaceConfig{
		PHYAddr: 2,
		SMI:     smi,
		IRQLine: irq,
		MAC:     mac,
		Events:  sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := (Driver{}).Init(&ifc); err != nil {
		t.Fatal(err)
	}
	if smi.Inits != 1 {
		t.Error("SMI collaborator init count:", smi.Inits)
	}
	if irq.Inits != 1 {
		t.Error("IRQ line collaborator init count:", irq.Inits)
	}
	if len(mac.Log) != 0 {
		t.Error("accesses leaked to MAC transport with SMI present")
	}
}

func TestInitDefaultAddrSubstitution(t *testing.T) {
	mac := &phytest.MAC{}
	resetAfter(&mac.RegFile, 0)
	ifc := newPolledIfc(t, mac, &phytest.Sink{}, 0)
	ifc.PHYAddr = 40 // out of the valid 0-31 range.

	if err := (Driver{}).Init(ifc); err != nil {
		t.Fatal(err)
	}
	if ifc.PHYAddr != DefaultAddr {
		t.Fatal("out of range address not substituted, got:", ifc.PHYAddr)
	}
	for i, a := range mac.Log {
		if a.PHYAddr != DefaultAddr {
			t.Fatalf("access %d used address %d before substitution", i, a.PHYAddr)
		}
	}
}

func TestTickEdgeTriggered(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	ifc := newPolledIfc(t, mac, sink, 1)
	drv := Driver{}

	// Link down, state down: no event.
	drv.Tick(ifc)
	if sink.Events != 0 {
		t.Fatal("tick raised event with no link change")
	}

	// Link comes up: event raised, link fields untouched.
	mac.Regs[mii.AddrBMSR] = uint16(mii.BMSRLinkStatus)
	drv.Tick(ifc)
	if sink.Events != 1 {
		t.Fatal("tick did not raise event on link up edge")
	}
	if ifc.LinkState || ifc.LinkSpeed != ephy.SpeedUnknown || ifc.Duplex != ephy.DuplexUnknown {
		t.Fatal("tick must not mutate link fields")
	}

	// Host evaluates: state becomes up.
	mac.Regs[AddrMISR1] = uint16(MISR1LinkInt)
	mac.Regs[AddrPHYSTS] = uint16(PHYSTSLink)
	drv.HandleEvent(ifc)
	if !ifc.LinkState {
		t.Fatal("evaluation did not bring link up")
	}

	// No further change: repeated ticks stay silent.
	drv.Tick(ifc)
	drv.Tick(ifc)
	if sink.Events != 1 {
		t.Fatal("tick raised events without a transition:", sink.Events)
	}

	// Link drops: one more event.
	mac.Regs[mii.AddrBMSR] = 0
	drv.Tick(ifc)
	if sink.Events != 2 {
		t.Fatal("tick did not raise event on link down edge")
	}
}

func TestTickInactiveOnInterruptPath(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	var ifc ephy.Interface
	err := ifc.Configure(ephy.InterfaceConfig{
		MAC:     mac,
		IRQLine: &phytest.IRQ{},
		Events:  sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	mac.Regs[mii.AddrBMSR] = uint16(mii.BMSRLinkStatus)
	Driver{}.Tick(&ifc)
	if len(mac.Log) != 0 || sink.Events != 0 {
		t.Fatal("tick must be a no-op when an interrupt line is present")
	}
}

func TestHandleEventDecode(t *testing.T) {
	cases := []struct {
		name       string
		status     PHYSTS
		wantSpeed  ephy.Speed
		wantDuplex ephy.Duplex
	}{
		{"100M full", PHYSTSLink, ephy.Speed100M, ephy.DuplexFull},
		{"100M half", PHYSTSLink | PHYSTSDuplex, ephy.Speed100M, ephy.DuplexHalf},
		{"10M full", PHYSTSLink | PHYSTSSpeed10, ephy.Speed10M, ephy.DuplexFull},
		{"10M half", PHYSTSLink | PHYSTSSpeed10 | PHYSTSDuplex, ephy.Speed10M, ephy.DuplexHalf},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mac := &phytest.MAC{}
			sink := &phytest.Sink{}
			ifc := newPolledIfc(t, mac, sink, 1)
			mac.Regs[AddrMISR1] = uint16(MISR1LinkInt | MISR1LinkIntEn)
			mac.Regs[AddrPHYSTS] = uint16(tc.status)

			Driver{}.HandleEvent(ifc)
			if !ifc.LinkState {
				t.Fatal("link should be up")
			}
			if ifc.LinkSpeed != tc.wantSpeed {
				t.Errorf("speed = %v, want %v", ifc.LinkSpeed, tc.wantSpeed)
			}
			if ifc.Duplex != tc.wantDuplex {
				t.Errorf("duplex = %v, want %v", ifc.Duplex, tc.wantDuplex)
			}
			if mac.Updates != 1 {
				t.Error("MAC reconfiguration count:", mac.Updates)
			}
			if sink.LinkChanges != 1 {
				t.Error("host link change notification count:", sink.LinkChanges)
			}
		})
	}
}

func TestHandleEventAcknowledgesInterrupt(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	ifc := newPolledIfc(t, mac, sink, 1)
	mac.Regs[AddrMISR1] = uint16(MISR1LinkInt | MISR1LinkIntEn)
	mac.Regs[AddrPHYSTS] = uint16(PHYSTSLink)
	// Emulate clear-on-read of the interrupt flags.
	mac.OnRead = func(phyAddr, regAddr uint8, value uint16) uint16 {
		if regAddr == AddrMISR1 {
			mac.Regs[AddrMISR1] = uint16(MISR1LinkIntEn)
		}
		return value
	}
	drv := Driver{}
	drv.HandleEvent(ifc)
	if sink.LinkChanges != 1 {
		t.Fatal("first event not processed")
	}
	drv.HandleEvent(ifc)
	if sink.LinkChanges != 1 || mac.Updates != 1 {
		t.Fatal("acknowledged interrupt processed twice")
	}
}

func TestHandleEventReNotifiesSameState(t *testing.T) {
	// The interrupt path re-evaluates on every acknowledged interrupt,
	// even when the decoded state equals the previous one.
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	ifc := newPolledIfc(t, mac, sink, 1)
	mac.Regs[AddrMISR1] = uint16(MISR1LinkInt)
	mac.Regs[AddrPHYSTS] = uint16(PHYSTSLink)
	drv := Driver{}
	drv.HandleEvent(ifc)
	drv.HandleEvent(ifc)
	if sink.LinkChanges != 2 || mac.Updates != 2 {
		t.Fatal("expected re-notification on identical state:", sink.LinkChanges, mac.Updates)
	}
}

func TestHandleEventLinkDown(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	ifc := newPolledIfc(t, mac, sink, 1)
	// Previously established link.
	ifc.LinkState = true
	ifc.LinkSpeed = ephy.Speed100M
	ifc.Duplex = ephy.DuplexFull

	mac.Regs[AddrMISR1] = uint16(MISR1LinkInt)
	mac.Regs[AddrPHYSTS] = 0 // link bit clear.
	Driver{}.HandleEvent(ifc)

	if ifc.LinkState {
		t.Fatal("link should be down")
	}
	if ifc.LinkSpeed != ephy.Speed100M || ifc.Duplex != ephy.DuplexFull {
		t.Fatal("speed/duplex must be left stale while down")
	}
	if mac.Updates != 0 {
		t.Fatal("MAC must not be reconfigured on link down")
	}
	if sink.LinkChanges != 1 {
		t.Fatal("host must be notified of the down transition")
	}
}

func TestHandleEventSpurious(t *testing.T) {
	mac := &phytest.MAC{}
	sink := &phytest.Sink{}
	ifc := newPolledIfc(t, mac, sink, 1)
	mac.Regs[AddrMISR1] = uint16(MISR1LinkIntEn) // enabled, but no event flag.

	Driver{}.HandleEvent(ifc)
	if len(mac.Log) != 1 {
		t.Fatal("spurious event must only read the interrupt status register")
	}
	if ifc.LinkState || sink.LinkChanges != 0 || sink.Events != 0 || mac.Updates != 0 {
		t.Fatal("spurious event caused mutation or notification")
	}
}

func TestIRQGate(t *testing.T) {
	irq := &phytest.IRQ{}
	mac := &phytest.MAC{}
	var ifc ephy.Interface
	err := ifc.Configure(ephy.InterfaceConfig{MAC: mac, IRQLine: irq, Events: &phytest.Sink{}})
	if err != nil {
		t.Fatal(err)
	}
	drv := Driver{}
	drv.EnableIRQ(&ifc)
	drv.EnableIRQ(&ifc)
	drv.DisableIRQ(&ifc)
	if irq.Enables != 2 || irq.Disables != 1 {
		t.Fatal("gate calls not delegated:", irq.Enables, irq.Disables)
	}
	if len(mac.Log) != 0 {
		t.Fatal("IRQ gating must not touch chip registers")
	}

	// Without an interrupt line both operations are no-ops.
	ifcPolled := newPolledIfc(t, &phytest.MAC{}, &phytest.Sink{}, 0)
	drv.EnableIRQ(ifcPolled)
	drv.DisableIRQ(ifcPolled)
}
