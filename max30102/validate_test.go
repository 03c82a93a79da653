package max30102

import (
	"errors"
	"fmt"
	"testing"

	"go.viam.com/test"
	"periph.io/x/periph/conn/i2c/i2ctest"
)

type combo struct {
	pw PulseWidth
	sr SamplingRate
}

var rejected = map[Mode][]combo{
	ModeHeartRate: {
		{PW118, SR3200}, {PW215, SR3200}, {PW411, SR3200},
		{PW411, SR1600},
	},
	ModeOximeter: {
		{PW69, SR3200}, {PW118, SR3200}, {PW215, SR3200}, {PW411, SR3200},
		{PW118, SR1600}, {PW215, SR1600}, {PW411, SR1600},
		{PW215, SR1000}, {PW411, SR1000},
		{PW411, SR800},
	},
	ModeMultiLED: nil,
}

func TestCheckGrid(t *testing.T) {
	for m, bad := range rejected {
		t.Run(m.String(), func(t *testing.T) {
			for pw := PW69; pw <= PW411; pw++ {
				for sr := SR50; sr <= SR3200; sr++ {
					want := true
					for _, c := range bad {
						if c.pw == pw && c.sr == sr {
							want = false
						}
					}
					err := m.check(pw, sr)
					if want {
						test.That(t, err, test.ShouldBeNil)
					} else {
						test.That(t, errors.Is(err, ErrInvalidArguments), test.ShouldBeTrue)
					}
				}
			}
		})
	}
}

func TestSetSamplingRateRejected(t *testing.T) {
	// Nothing may reach the bus after the mode transition.
	bus := playback(enter(0b011)...)
	ox, err := New(bus).EnterOximeter()
	test.That(t, err, test.ShouldBeNil)

	err = ox.SetSamplingRate(SR3200)
	test.That(t, errors.Is(err, ErrInvalidArguments), test.ShouldBeTrue)
	test.That(t, ox.SamplingRate(), test.ShouldEqual, SR50)
	done(t, bus)
}

func TestSetSamplingRateHeartRate(t *testing.T) {
	bus := playback(ops(enter(0b010), []i2ctest.IO{
		w(SpO2Cfg, byte(SR3200)<<2),
		w(SpO2Cfg, byte(SR1600)<<2),
		w(SpO2Cfg, byte(SR1600)<<2|byte(PW215)),
	})...)
	hr, err := New(bus).EnterHeartRate()
	test.That(t, err, test.ShouldBeNil)

	test.That(t, hr.SetSamplingRate(SR3200), test.ShouldBeNil)
	// PW118 cannot be sampled at 3200sps.
	test.That(t, errors.Is(hr.SetLEDPulseWidth(PW118), ErrInvalidArguments), test.ShouldBeTrue)
	test.That(t, hr.PulseWidth(), test.ShouldEqual, PW69)

	test.That(t, hr.SetSamplingRate(SR1600), test.ShouldBeNil)
	test.That(t, hr.SetLEDPulseWidth(PW215), test.ShouldBeNil)
	test.That(t, errors.Is(hr.SetLEDPulseWidth(PW411), ErrInvalidArguments), test.ShouldBeTrue)
	test.That(t, hr.PulseWidth(), test.ShouldEqual, PW215)
	done(t, bus)
}

func TestSetPulseWidthBlocksSamplingRate(t *testing.T) {
	bus := playback(ops(enter(0b011), []i2ctest.IO{
		w(SpO2Cfg, byte(PW411)),
	})...)
	ox, err := New(bus).EnterOximeter()
	test.That(t, err, test.ShouldBeNil)

	test.That(t, ox.SetLEDPulseWidth(PW411), test.ShouldBeNil)
	for _, sr := range []SamplingRate{SR800, SR1000, SR1600, SR3200} {
		t.Run(sr.String(), func(t *testing.T) {
			test.That(t, errors.Is(ox.SetSamplingRate(sr), ErrInvalidArguments), test.ShouldBeTrue)
		})
	}
	test.That(t, ox.SamplingRate(), test.ShouldEqual, SR50)
	done(t, bus)
}

func TestMultiLEDHasNoRestriction(t *testing.T) {
	bus := playback(ops(enter(0b111), []i2ctest.IO{
		w(SpO2Cfg, byte(SR3200)<<2),
		w(SpO2Cfg, byte(SR3200)<<2|byte(PW411)),
	})...)
	ml, err := New(bus).EnterMultiLED()
	test.That(t, err, test.ShouldBeNil)

	test.That(t, ml.SetSamplingRate(SR3200), test.ShouldBeNil)
	test.That(t, ml.SetLEDPulseWidth(PW411), test.ShouldBeNil)
	done(t, bus)
}

func TestSetOutOfRange(t *testing.T) {
	bus := playback(enter(0b111)...)
	ml, err := New(bus).EnterMultiLED()
	test.That(t, err, test.ShouldBeNil)

	for _, err := range []error{
		ml.SetLEDPulseWidth(PW411 + 1),
		ml.SetSamplingRate(SR3200 + 1),
	} {
		test.That(t, errors.Is(err, ErrInvalidArguments), test.ShouldBeTrue)
	}
	done(t, bus)
}

func TestCheckMessage(t *testing.T) {
	err := ModeOximeter.check(PW411, SR800)
	test.That(t, err.Error(), test.ShouldEqual,
		fmt.Sprintf("max30102: 411µs pulses cannot be sampled at 800sps in oximeter mode: %v", ErrInvalidArguments))
}
