// Package phytest provides simulated management-plane collaborators for
// driver tests: a 32-register PHY register file with an access log, and
// counting implementations of the interface collaborator contracts.
package phytest

import "github.com/soypat/ephy"

// Access records a single transfer through a RegFile.
type Access struct {
	Op      ephy.Opcode
	PHYAddr uint8
	RegAddr uint8
	// Value is the value written, or the value returned to the reader.
	Value uint16
}

// RegFile is a simulated 32-register PHY register file. Writes store into
// Regs; reads return Regs unless OnRead overrides the value. Every transfer
// is appended to Log in order.
type RegFile struct {
	Regs [32]uint16
	Log  []Access
	// OnRead, when non-nil, is consulted on every read and may override
	// the returned value. Useful for self-clearing and latched bits.
	OnRead func(phyAddr, regAddr uint8, value uint16) uint16
}

func (rf *RegFile) WritePHYReg(op ephy.Opcode, phyAddr, regAddr uint8, value uint16) {
	rf.Regs[regAddr&31] = value
	rf.Log = append(rf.Log, Access{Op: op, PHYAddr: phyAddr, RegAddr: regAddr, Value: value})
}

func (rf *RegFile) ReadPHYReg(op ephy.Opcode, phyAddr, regAddr uint8) uint16 {
	value := rf.Regs[regAddr&31]
	if rf.OnRead != nil {
		value = rf.OnRead(phyAddr, regAddr, value)
	}
	rf.Log = append(rf.Log, Access{Op: op, PHYAddr: phyAddr, RegAddr: regAddr, Value: value})
	return value
}

// Reads returns the number of read accesses of regAddr in the log.
func (rf *RegFile) Reads(regAddr uint8) (n int) {
	for i := range rf.Log {
		if rf.Log[i].Op == ephy.OpRead && rf.Log[i].RegAddr == regAddr {
			n++
		}
	}
	return n
}

// Writes returns the number of write accesses of regAddr in the log.
func (rf *RegFile) Writes(regAddr uint8) (n int) {
	for i := range rf.Log {
		if rf.Log[i].Op == ephy.OpWrite && rf.Log[i].RegAddr == regAddr {
			n++
		}
	}
	return n
}

// SMI is a RegFile exposed as a serial management interface collaborator.
type SMI struct {
	RegFile
	Inits int
}

func (s *SMI) Init() error {
	s.Inits++
	return nil
}

// MAC is a RegFile exposed as the MAC collaborator, counting
// reconfiguration requests.
type MAC struct {
	RegFile
	Updates int
}

func (m *MAC) UpdateMACConfig(*ephy.Interface) { m.Updates++ }

// Sink counts host notifications raised by a driver.
type Sink struct {
	Events      int
	LinkChanges int
}

func (s *Sink) PHYEvent(*ephy.Interface) { s.Events++ }

func (s *Sink) LinkChange(*ephy.Interface) { s.LinkChanges++ }

// IRQ counts interrupt line gate operations.
type IRQ struct {
	Inits    int
	Enables  int
	Disables int
}

func (q *IRQ) Init() error {
	q.Inits++
	return nil
}

func (q *IRQ) EnableIRQ()  { q.Enables++ }
func (q *IRQ) DisableIRQ() { q.Disables++ }

var (
	_ ephy.SMI       = (*SMI)(nil)
	_ ephy.MAC       = (*MAC)(nil)
	_ ephy.IRQLine   = (*IRQ)(nil)
	_ ephy.EventSink = (*Sink)(nil)
)
