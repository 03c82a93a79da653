package max30102

import (
	"errors"
	"testing"

	"go.viam.com/test"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2ctest"
)

var errBus = errors.New("bus fault")

// playback expects exactly ops, in order.
func playback(ops ...i2ctest.IO) *i2ctest.Playback {
	return &i2ctest.Playback{Ops: ops, DontPanic: true}
}

// w is a write transfer.
func w(data ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: Addr, W: data}
}

// wr is a register read: the register address is written, then r is read.
func wr(reg byte, r ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: Addr, W: []byte{reg}, R: r}
}

// enter is the traffic of a mode transition.
func enter(mode byte) []i2ctest.IO {
	return []i2ctest.IO{w(ModeCfg, mode), w(FIFOWrPtr, 0, 0, 0)}
}

func ops(groups ...[]i2ctest.IO) []i2ctest.IO {
	var all []i2ctest.IO
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// faultyBus plays back ops but fails the fail-th transfer (1-based) without
// consuming an op.
type faultyBus struct {
	i2ctest.Playback
	fail int
	n    int
}

func newFaultyBus(fail int, ops ...i2ctest.IO) *faultyBus {
	return &faultyBus{
		Playback: i2ctest.Playback{Ops: ops, DontPanic: true},
		fail:     fail,
	}
}

func (f *faultyBus) Tx(addr uint16, w, r []byte) error {
	f.n++
	if f.n == f.fail {
		return errBus
	}
	return f.Playback.Tx(addr, w, r)
}

func done(t *testing.T, bus i2c.BusCloser) {
	t.Helper()
	test.That(t, bus.Close(), test.ShouldBeNil)
}

func TestNew(t *testing.T) {
	bus := playback()
	d := New(bus)
	test.That(t, d.Mode(), test.ShouldEqual, ModeNone)
	test.That(t, d.IsShutdown(), test.ShouldBeFalse)
	test.That(t, d.PulseWidth(), test.ShouldEqual, PW69)
	test.That(t, d.SamplingRate(), test.ShouldEqual, SR50)
	test.That(t, d.Destroy(), test.ShouldEqual, bus)
	done(t, bus)
}

func TestIDs(t *testing.T) {
	bus := playback(wr(RegRevID, 0xAB), wr(RegPartID, PartID))
	d := New(bus)

	rev, err := d.RevisionID()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rev, test.ShouldEqual, byte(0xAB))

	part, err := d.PartID()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, part, test.ShouldEqual, byte(PartID))
	done(t, bus)
}

func TestIDsBusError(t *testing.T) {
	bus := newFaultyBus(1)
	_, err := New(bus).PartID()
	test.That(t, errors.Is(err, errBus), test.ShouldBeTrue)
	done(t, bus)
}

func TestReadInterruptStatus(t *testing.T) {
	for _, tc := range []struct {
		name   string
		s1, s2 byte
		want   InterruptStatus
	}{
		{"none", 0, 0, InterruptStatus{}},
		{"power ready", PowerReady, 0, InterruptStatus{PowerReady: true}},
		{"almost full", AlmostFull, 0, InterruptStatus{FIFOAlmostFull: true}},
		{"new data", NewFIFOData, 0, InterruptStatus{NewFIFODataReady: true}},
		{"alc overflow", AmbientLightCancelOvf, 0, InterruptStatus{ALCOverflow: true}},
		{"temperature", 0, DieTempReady, InterruptStatus{TemperatureReady: true}},
		{"temperature only in status 2", DieTempReady, 0, InterruptStatus{}},
		{"all", 0xFF, 0xFF, InterruptStatus{true, true, true, true, true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := playback(wr(IntStat1, tc.s1, tc.s2))
			got, err := New(bus).ReadInterruptStatus()
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got, test.ShouldResemble, tc.want)
			done(t, bus)
		})
	}
}

func TestShutdownWakeUp(t *testing.T) {
	bus := playback(w(ModeCfg, modeSHDN), w(ModeCfg, 0))
	d := New(bus)

	test.That(t, d.Shutdown(), test.ShouldBeNil)
	test.That(t, d.IsShutdown(), test.ShouldBeTrue)
	test.That(t, d.WakeUp(), test.ShouldBeNil)
	test.That(t, d.IsShutdown(), test.ShouldBeFalse)
	done(t, bus)
}

func TestReset(t *testing.T) {
	bus := playback(ops(
		[]i2ctest.IO{w(ModeCfg, modeReset)},
		enter(0b011),
		[]i2ctest.IO{w(ModeCfg, modeReset|0b011)},
		// the reset bit is never kept
		[]i2ctest.IO{w(ModeCfg, modeSHDN|0b011)},
	)...)
	d := New(bus)

	test.That(t, d.Reset(), test.ShouldBeNil)
	ox, err := d.EnterOximeter()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ox.Reset(), test.ShouldBeNil)
	test.That(t, ox.Shutdown(), test.ShouldBeNil)
	done(t, bus)
}

func TestShadowUnchangedOnFailure(t *testing.T) {
	// The failed shutdown must not leak into the next write.
	bus := newFaultyBus(1, w(FIFOCfg, fifoRollover), w(ModeCfg, 0))
	d := New(bus)

	err := d.Shutdown()
	test.That(t, errors.Is(err, errBus), test.ShouldBeTrue)
	test.That(t, d.IsShutdown(), test.ShouldBeFalse)

	test.That(t, d.EnableFIFORollover(), test.ShouldBeNil)
	test.That(t, d.WakeUp(), test.ShouldBeNil)
	done(t, bus)
}
