//go:build linux

package mdio

import (
	"errors"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/soypat/ephy"
)

var _ ephy.MAC = (*Netdev)(nil) // compile time guarantee of interface implementation.

// Netdev reaches a PHY through the MDIO bus controller of a kernel network
// device using the MII ioctls (SIOCGMIIPHY, SIOCGMIIREG, SIOCSMIIREG).
// It implements the MAC collaborator contract: the kernel driver is the
// integrated MAC and already tracks its PHY, so UpdateMACConfig only logs.
//
// Register writes require CAP_NET_ADMIN; reads work unprivileged on most
// drivers.
type Netdev struct {
	fd   int
	name [unix.IFNAMSIZ]byte
	log  *slog.Logger
}

// miiData mirrors struct mii_ioctl_data from linux/mii.h, laid over the
// ifreq union.
type miiData struct {
	name   [unix.IFNAMSIZ]byte
	phyID  uint16
	regNum uint16
	valIn  uint16
	valOut uint16
}

// NewNetdev opens an MII transport over the named network device. It fails
// if the device does not exist or its driver does not implement the MII
// ioctls.
func NewNetdev(ifname string, logger *slog.Logger) (*Netdev, error) {
	if len(ifname) >= unix.IFNAMSIZ {
		return nil, errors.New("interface name too long")
	} else if ifname == "" {
		return nil, errors.New("empty interface name")
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil, err
	}
	nd := &Netdev{fd: fd, log: logger}
	copy(nd.name[:], ifname)
	// Availability check doubling as PHY discovery.
	var mii miiData
	mii.name = nd.name
	if err := nd.ioctl(unix.SIOCGMIIPHY, &mii); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return nd, nil
}

// PHYAddr returns the address of the PHY the kernel driver reports as
// attached to the device.
func (nd *Netdev) PHYAddr() (uint8, error) {
	var mii miiData
	mii.name = nd.name
	err := nd.ioctl(unix.SIOCGMIIPHY, &mii)
	return uint8(mii.phyID), err
}

// ReadPHYReg reads a PHY register through the kernel. Failures are not
// reported per the RegisterIO contract; they yield 0xffff, the idle level
// of an undriven bus.
func (nd *Netdev) ReadPHYReg(op ephy.Opcode, phyAddr, regAddr uint8) uint16 {
	if op != ephy.OpRead {
		return 0xffff
	}
	var mii miiData
	mii.name = nd.name
	mii.phyID = uint16(phyAddr)
	mii.regNum = uint16(regAddr)
	if err := nd.ioctl(unix.SIOCGMIIREG, &mii); err != nil {
		return 0xffff
	}
	return mii.valOut
}

// WritePHYReg writes a PHY register through the kernel. Failures are not
// reported per the RegisterIO contract.
func (nd *Netdev) WritePHYReg(op ephy.Opcode, phyAddr, regAddr uint8, value uint16) {
	if op != ephy.OpWrite {
		return
	}
	var mii miiData
	mii.name = nd.name
	mii.phyID = uint16(phyAddr)
	mii.regNum = uint16(regAddr)
	mii.valIn = value
	if err := nd.ioctl(unix.SIOCSMIIREG, &mii); err != nil && nd.log != nil {
		nd.log.Error("mdio:netdev write failed", slog.String("err", err.Error()))
	}
}

// UpdateMACConfig logs the resolved link parameters. The kernel MAC driver
// reconfigures itself from its own PHY state machine.
func (nd *Netdev) UpdateMACConfig(ifc *ephy.Interface) {
	if nd.log != nil {
		nd.log.Info("mdio:netdev link parameters resolved",
			slog.String("speed", ifc.LinkSpeed.String()),
			slog.String("duplex", ifc.Duplex.String()),
		)
	}
}

// Close releases the underlying socket.
func (nd *Netdev) Close() error {
	return unix.Close(nd.fd)
}

func (nd *Netdev) ioctl(req uint, mii *miiData) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(nd.fd), uintptr(req), uintptr(unsafe.Pointer(mii)))
	if errno != 0 {
		return errno
	}
	return nil
}
