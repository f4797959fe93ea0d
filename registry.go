package ephy

import "sync"

var (
	driversMu sync.Mutex
	drivers   = make(map[string]PHYDriver)
)

// Register makes a PHY driver available to generic interface-management
// code under the given name. Chip driver packages call Register from their
// package init. Register panics on a nil driver or a duplicate name.
func Register(name string, drv PHYDriver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if drv == nil {
		panic("ephy: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("ephy: Register called twice for driver " + name)
	}
	drivers[name] = drv
}

// LookupDriver returns the driver registered under name.
func LookupDriver(name string) (PHYDriver, error) {
	driversMu.Lock()
	drv, ok := drivers[name]
	driversMu.Unlock()
	if !ok {
		return nil, ErrNoDriver
	}
	return drv, nil
}

// Drivers returns the names of all registered drivers.
func Drivers() []string {
	driversMu.Lock()
	defer driversMu.Unlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}
