// Package mdio provides management bus transports for ephy: a software
// defined (bitbang) MDIO/MDC interface usable on any two GPIO pins, and on
// Linux a transport that reaches a PHY through the kernel's own MDIO bus
// controller.
package mdio

import "github.com/soypat/ephy"

var _ ephy.SMI = (*BitBang)(nil) // compile time guarantee of interface implementation.

// BitBang provides a software defined (bitbang) MDIO/MDC management
// interface for PHY register access as the STA (management station, this
// implementation) which communicates with the PHY over Clause 22 framing.
// Inspired by linux/v3.13.1/source/drivers/net/phy/mdio-bitbang.c
//
// The HAL consists of three pin control callbacks. MDC is the clock line,
// MDIO the data line:
//
//	sendBit: set MDIO level, pulse MDC high then low
//	getBit:  pulse MDC high, sample MDIO, MDC low
//	setDir:  switch MDIO between output (true) and input (false)
//
// Use [NewPinBitBang] for a ready-made HAL over periph.io GPIO pins.
//
// Transfers follow the silent-failure contract of ephy.RegisterIO: a read
// the PHY does not answer yields 0xffff, the idle level of a pulled-up bus.
type BitBang struct {
	_sendBit func(bit bool)
	_getBit  func() (inputBit bool)
	_setDir  func(output bool)
}

// Configure initializes the MDIO bit-bang interface with the given pin
// control callbacks.
func (m *BitBang) Configure(sendBit func(bit bool), getBit func() bool, setDir func(setOut bool)) {
	if sendBit == nil || getBit == nil || setDir == nil {
		panic("nil callback")
	}
	m._getBit = getBit
	m._sendBit = sendBit
	m._setDir = setDir
	m.reset()
}

// Init implements the SMI collaborator contract by returning the bus to its
// idle state.
func (m *BitBang) Init() error {
	m.reset()
	return nil
}

func (m *BitBang) reset() {
	// setting direction to output releases the bus.
	m.setDir(true)
}

// ReadPHYReg reads a PHY register over Clause 22 framing.
func (m *BitBang) ReadPHYReg(op ephy.Opcode, phyAddr, regAddr uint8) uint16 {
	m.cmd(op, phyAddr, regAddr)
	m.setDir(false)
	// Check turnaround bit, PHY should drive it to zero.
	if m.getBit() {
		// PHY did not drive low, as would be expected. Ensure flush and
		// report the idle bus level.
		for i := 0; i < 32; i++ {
			m.getBit()
		}
		return 0xffff
	}
	ret := m.getNum(16)
	m.getBit()
	return ret
}

// WritePHYReg writes a value to a PHY register over Clause 22 framing.
func (m *BitBang) WritePHYReg(op ephy.Opcode, phyAddr, regAddr uint8, value uint16) {
	m.cmd(op, phyAddr, regAddr)
	// send turnaround (10)
	m.sendBit(true)
	m.sendBit(false)

	m.sendNum(value, 16)
	m.setDir(false)
	m.getBit()
}

func (m *BitBang) cmd(op ephy.Opcode, phy, reg uint8) {
	const writeDir = true
	m.setDir(writeDir)
	// Preamble, 32 bits of 1.
	for i := 0; i < 32; i++ {
		m.sendBit(true)
	}
	// Start of frame: 01.
	m.sendBit(false)
	m.sendBit(true)

	m.sendBit((op>>1)&1 != 0)
	m.sendBit((op>>0)&1 != 0)
	m.sendNum(uint16(phy), 5)
	m.sendNum(uint16(reg), 5)
}

func (m *BitBang) sendNum(val uint16, bits int) {
	for i := bits - 1; i >= 0; i-- {
		m.sendBit((val>>i)&1 != 0)
	}
}

func (m *BitBang) getNum(bits int) (ret uint16) {
	for i := bits - 1; i >= 0; i-- {
		ret <<= 1
		ret |= uint16(b2u8(m.getBit()))
	}
	return ret
}

// setDir configures pins preparing for write/read operations.
func (m *BitBang) setDir(outWrite bool) {
	m._setDir(outWrite)
}

func (m *BitBang) sendBit(b bool) {
	m._sendBit(b)
}

func (m *BitBang) getBit() bool {
	return m._getBit()
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
