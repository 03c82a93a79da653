package max3010x

import (
	"errors"
	"testing"

	"go.viam.com/test"
	"periph.io/x/periph/conn/i2c/i2ctest"

	"github.com/cgxeiji/max3010x/v2/max30102"
)

func read(reg byte, r ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: max30102.Addr, W: []byte{reg}, R: r}
}

func write(w ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: max30102.Addr, W: w}
}

func TestAttach(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			read(max30102.RegPartID, max30102.PartID),
			read(max30102.RegRevID, 3),
			write(max30102.ModeCfg, 0x80),
		},
		DontPanic: true,
	}

	s, err := attach(bus, &settings{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.PartID, test.ShouldEqual, byte(max30102.PartID))
	test.That(t, s.RevID, test.ShouldEqual, byte(3))
	test.That(t, s.Mode(), test.ShouldEqual, max30102.ModeNone)
	test.That(t, s.String(), test.ShouldEqual, "MAX30102 rev.3 on playback")

	test.That(t, s.Close(), test.ShouldBeNil)
	test.That(t, s.IsShutdown(), test.ShouldBeTrue)
}

func TestAttachReset(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			read(max30102.RegPartID, max30102.PartID),
			read(max30102.RegRevID, 1),
			write(max30102.ModeCfg, 0x40),
		},
		DontPanic: true,
	}

	s := &settings{}
	undo := ResetOnOpen(true)(s)
	test.That(t, s.reset, test.ShouldBeTrue)

	_, err := attach(bus, s)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, bus.Close(), test.ShouldBeNil)

	undo(s)
	test.That(t, s.reset, test.ShouldBeFalse)
}

func TestAttachWrongDevice(t *testing.T) {
	// A MAX30100 answers on the same address.
	bus := &i2ctest.Playback{
		Ops:       []i2ctest.IO{read(max30102.RegPartID, 0x11)},
		DontPanic: true,
	}

	s, err := attach(bus, &settings{})
	test.That(t, s, test.ShouldBeNil)
	test.That(t, errors.Is(err, ErrNotDevice), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "0x11")
	test.That(t, bus.Close(), test.ShouldBeNil)
}

func TestAttachNoDevice(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}

	_, err := attach(bus, &settings{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrNotDevice), test.ShouldBeFalse)
}

func TestOnBus(t *testing.T) {
	s := &settings{bus: "1"}
	undo := OnBus("/dev/i2c-2")(s)
	test.That(t, s.bus, test.ShouldEqual, "/dev/i2c-2")
	undo(s)
	test.That(t, s.bus, test.ShouldEqual, "1")
}
