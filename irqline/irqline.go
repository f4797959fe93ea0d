// Package irqline implements the ephy external interrupt line collaborator
// over a GPIO pin with edge detection.
package irqline

import (
	"errors"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"

	"github.com/soypat/ephy"
)

var _ ephy.IRQLine = (*Line)(nil) // compile time guarantee of interface implementation.

// Line watches a GPIO pin for falling edges and invokes a host-supplied
// handler per edge while the line is enabled. The DP83826 asserts its
// INT/PWDN output low on an interrupt condition.
//
// The handler runs on the watch goroutine. Serializing it against the
// host's tick and event dispatch contexts is the host's responsibility, as
// with a hardware interrupt controller.
type Line struct {
	pin      gpio.PinIn
	handler  func()
	enabled  atomic.Bool
	watching atomic.Bool
}

// NewLine returns a Line over pin invoking handler per falling edge.
// The line starts disabled; the driver's EnableIRQ operation unmasks it.
func NewLine(pin gpio.PinIn, handler func()) (*Line, error) {
	if pin == nil || handler == nil {
		return nil, errors.New("nil pin or handler")
	}
	return &Line{pin: pin, handler: handler}, nil
}

// Init configures falling edge detection and starts the edge watch.
func (l *Line) Init() error {
	if err := l.pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return err
	}
	if l.watching.CompareAndSwap(false, true) {
		go l.watch()
	}
	return nil
}

// EnableIRQ unmasks edge delivery to the handler. No chip-level effect.
func (l *Line) EnableIRQ() { l.enabled.Store(true) }

// DisableIRQ masks edge delivery to the handler. Edges arriving while
// masked are dropped, as by a hardware interrupt controller with the line
// masked and no latch.
func (l *Line) DisableIRQ() { l.enabled.Store(false) }

func (l *Line) watch() {
	for {
		if !l.pin.WaitForEdge(-1) {
			continue
		}
		if l.enabled.Load() {
			l.handler()
		}
	}
}
