package mdio

import (
	"errors"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// DefaultClockPeriod is a conservative MDC period honoring the MDIO spec
// maximum turnaround time of 340ns per half cycle.
const DefaultClockPeriod = 2 * 340 * time.Nanosecond

// NewPinBitBang returns a BitBang whose HAL drives two GPIO pins: mdio as
// the bidirectional data line and mdc as the clock. A zero clockPeriod
// selects [DefaultClockPeriod]. The MDIO pin is pulled up while sampling,
// so an unanswered read returns 0xffff.
func NewPinBitBang(mdio gpio.PinIO, mdc gpio.PinOut, clockPeriod time.Duration) (*BitBang, error) {
	if mdio == nil || mdc == nil {
		return nil, errors.New("nil MDIO or MDC pin")
	}
	if clockPeriod == 0 {
		clockPeriod = DefaultClockPeriod
	}
	half := clockPeriod / 2
	if err := mdc.Out(gpio.Low); err != nil {
		return nil, err
	}
	clock := func() {
		time.Sleep(half)
		mdc.Out(gpio.High)
		time.Sleep(half)
		mdc.Out(gpio.Low)
	}
	bb := &BitBang{}
	bb.Configure(func(bit bool) {
		mdio.Out(gpio.Level(bit))
		clock()
	}, func() bool {
		clock()
		return bool(mdio.Read())
	}, func(setOut bool) {
		if setOut {
			mdio.Out(gpio.High)
		} else {
			mdio.In(gpio.PullUp, gpio.NoEdge)
		}
	})
	return bb, nil
}
