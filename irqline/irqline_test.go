package irqline

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestLineGating(t *testing.T) {
	pin := &gpiotest.Pin{N: "PHY_INT", EdgesChan: make(chan gpio.Level)}
	fired := make(chan struct{}, 8)
	l, err := NewLine(pin, func() { fired <- struct{}{} })
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}

	// Edges while masked are dropped.
	pin.EdgesChan <- gpio.Low
	select {
	case <-fired:
		t.Fatal("masked edge delivered")
	case <-time.After(50 * time.Millisecond):
	}

	l.EnableIRQ()
	pin.EdgesChan <- gpio.Low
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("edge not delivered while enabled")
	}

	l.DisableIRQ()
	pin.EdgesChan <- gpio.Low
	select {
	case <-fired:
		t.Fatal("edge delivered after disable")
	case <-time.After(50 * time.Millisecond):
	}

	// Re-Init must not spawn a second watcher.
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	l.EnableIRQ()
	pin.EdgesChan <- gpio.Low
	<-fired
	select {
	case <-fired:
		t.Fatal("edge delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewLineValidation(t *testing.T) {
	pin := &gpiotest.Pin{N: "PHY_INT", EdgesChan: make(chan gpio.Level)}
	if _, err := NewLine(nil, func() {}); err == nil {
		t.Fatal("expected error on nil pin")
	}
	if _, err := NewLine(pin, nil); err == nil {
		t.Fatal("expected error on nil handler")
	}
}
