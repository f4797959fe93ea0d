package dp83826

// Chip-specific register map of the DP83826, datasheet SNLS639.
// Generic Clause 22 registers (BMCR, BMSR, ID1/ID2) live in package mii.
// These values are a compatibility contract with the silicon and must match
// the datasheet bit-for-bit.
const (
	// DefaultAddr is the PHY address the chip assumes when the bootstrap
	// straps leave it unconfigured.
	DefaultAddr = 0

	AddrPHYSTS = 0x10 // PHY status register
	AddrPHYSCR = 0x11 // PHY specific control register
	AddrMISR1  = 0x12 // MII interrupt status register 1

	// ID1 is the value the chip reports in the first identifier register
	// (bits 3-18 of the TI OUI).
	ID1 = 0x2000
)

// PHYSTS represents the PHY status register at address 0x10. It exposes the
// resolved link, speed and duplex after negotiation completes.
type PHYSTS uint16

const (
	PHYSTSLink    PHYSTS = 0x0001 // link established
	PHYSTSSpeed10 PHYSTS = 0x0002 // 10BASE-Te when set, else 100BASE-TX
	PHYSTSDuplex  PHYSTS = 0x0004 // half duplex resolved when set
)

// PHYSCR represents the PHY specific control register at address 0x11,
// holding the INT/PWDN pin configuration.
type PHYSCR uint16

const (
	PHYSCRIntOE PHYSCR = 0x0001 // INT/PWDN pin is an interrupt output
	PHYSCRIntEn PHYSCR = 0x0002 // interrupt events enabled
)

// MISR1 represents MII interrupt status register 1 at address 0x12.
// Interrupt flags in the high byte are cleared by reading the register.
type MISR1 uint16

const (
	MISR1LinkIntEn MISR1 = 0x0020 // enable link status change interrupt
	MISR1LinkInt   MISR1 = 0x2000 // link status changed, cleared on read
)
