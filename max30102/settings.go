package max30102

import (
	"fmt"
	"math"
)

// Mode is the operating mode of the device, as encoded in the low three bits
// of the mode register.
type Mode byte

// Operating modes.
const (
	ModeNone      Mode = 0b000
	ModeHeartRate Mode = 0b010
	ModeOximeter  Mode = 0b011
	ModeMultiLED  Mode = 0b111
)

func modeFromBits(b byte) Mode {
	switch m := Mode(b & modeMask); m {
	case ModeHeartRate, ModeOximeter, ModeMultiLED:
		return m
	}
	return ModeNone
}

// Channels is the number of LED readings stored per FIFO sample. An
// uninitialized device stores none.
func (m Mode) Channels() int {
	switch m {
	case ModeHeartRate:
		return 1
	case ModeOximeter, ModeMultiLED:
		return 2
	}
	return 0
}

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "uninitialized"
	case ModeHeartRate:
		return "heart-rate"
	case ModeOximeter:
		return "oximeter"
	case ModeMultiLED:
		return "multi-led"
	}
	return fmt.Sprintf("Mode(%#b)", byte(m))
}

// ParseMode returns the mode named by s, as printed by Mode.String. The
// uninitialized mode cannot be parsed since the device can never go back to
// it.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeHeartRate, ModeOximeter, ModeMultiLED} {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("max30102: unknown mode %q: %w", s, ErrInvalidArguments)
}

// LED selects the pulse amplitude register(s) to write.
type LED byte

// LEDs. On the MAX30102, LED1 is red and LED2 is infrared.
const (
	LED1 LED = iota
	LED2
	AllLEDs
)

func (l LED) String() string {
	switch l {
	case LED1:
		return "led1"
	case LED2:
		return "led2"
	case AllLEDs:
		return "all"
	}
	return fmt.Sprintf("LED(%d)", byte(l))
}

// Milliamps converts a typical LED current to a pulse amplitude value. It
// accepts values from 0.0 to 51.0 mA and the value is rounded to the nearest
// multiple of 0.2.
func Milliamps(current float64) uint8 {
	if current > 51 {
		current = 51
	}
	if current < 0 {
		current = 0
	}
	return uint8(math.Round(current * 5))
}

// SampleAveraging is the number of samples averaged on-chip into a single FIFO
// sample.
type SampleAveraging byte

// Sample averaging
const (
	Sa1 SampleAveraging = iota
	Sa2
	Sa4
	Sa8
	Sa16
	Sa32
)

// Count returns the number of samples averaged.
func (s SampleAveraging) Count() int { return 1 << s }

func (s SampleAveraging) String() string {
	if s > Sa32 {
		return fmt.Sprintf("SampleAveraging(%d)", byte(s))
	}
	return fmt.Sprintf("%d samples", s.Count())
}

// SampleAveragingFromCount returns the setting that averages n samples.
func SampleAveragingFromCount(n int) (SampleAveraging, error) {
	for s := Sa1; s <= Sa32; s++ {
		if s.Count() == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("max30102: cannot average %d samples: %w", n, ErrInvalidArguments)
}

// AlmostFullLevel is the number of empty FIFO slots left when the FIFO almost
// full interrupt is issued. It takes values from 0 to 15.
type AlmostFullLevel byte

// PulseWidth is the LED pulse width, which determines the ADC resolution.
type PulseWidth byte

// LED Pulse Width Control
const (
	PW69  PulseWidth = iota // 15-bit ADC resolution
	PW118                   // 16-bit ADC resolution
	PW215                   // 17-bit ADC resolution
	PW411                   // 18-bit ADC resolution
)

var pulseWidths = [...]int{69, 118, 215, 411}

// Micros returns the pulse width in microseconds.
func (p PulseWidth) Micros() int {
	if p > PW411 {
		return 0
	}
	return pulseWidths[p]
}

// Resolution returns the ADC resolution in bits.
func (p PulseWidth) Resolution() int { return 15 + int(p) }

// shift is how far a raw 18-bit FIFO word is moved right to drop the bits
// that are unused at this resolution.
func (p PulseWidth) shift() uint { return uint(PW411 - p) }

func (p PulseWidth) String() string {
	if p > PW411 {
		return fmt.Sprintf("PulseWidth(%d)", byte(p))
	}
	return fmt.Sprintf("%dµs", p.Micros())
}

// PulseWidthFromMicros returns the pulse width setting of us microseconds.
func PulseWidthFromMicros(us int) (PulseWidth, error) {
	for i, v := range pulseWidths {
		if v == us {
			return PulseWidth(i), nil
		}
	}
	return 0, fmt.Errorf("max30102: unsupported pulse width %dµs: %w", us, ErrInvalidArguments)
}

// SamplingRate is the SpO2 sample rate control.
type SamplingRate byte

// SpO2 Sample Rate Control
const (
	SR50 SamplingRate = iota
	SR100
	SR200
	SR400
	SR800
	SR1000
	SR1600
	SR3200
)

var samplingRates = [...]int{50, 100, 200, 400, 800, 1000, 1600, 3200}

// Hz returns the number of samples per second.
func (s SamplingRate) Hz() int {
	if s > SR3200 {
		return 0
	}
	return samplingRates[s]
}

func (s SamplingRate) String() string {
	if s > SR3200 {
		return fmt.Sprintf("SamplingRate(%d)", byte(s))
	}
	return fmt.Sprintf("%dsps", s.Hz())
}

// SamplingRateFromHz returns the setting for hz samples per second.
func SamplingRateFromHz(hz int) (SamplingRate, error) {
	for i, v := range samplingRates {
		if v == hz {
			return SamplingRate(i), nil
		}
	}
	return 0, fmt.Errorf("max30102: unsupported sampling rate %dsps: %w", hz, ErrInvalidArguments)
}

// ADCRange is the SpO2 ADC full scale range.
type ADCRange byte

// SpO2 ADC Range Control
const (
	ADC2048 ADCRange = iota
	ADC4096
	ADC8192
	ADC16384
)

// Nanoamps returns the full scale of the range in nA.
func (a ADCRange) Nanoamps() int {
	if a > ADC16384 {
		return 0
	}
	return 2048 << a
}

func (a ADCRange) String() string {
	if a > ADC16384 {
		return fmt.Sprintf("ADCRange(%d)", byte(a))
	}
	return fmt.Sprintf("%dnA", a.Nanoamps())
}

// ADCRangeFromNanoamps returns the range with a full scale of na nA.
func ADCRangeFromNanoamps(na int) (ADCRange, error) {
	for a := ADC2048; a <= ADC16384; a++ {
		if a.Nanoamps() == na {
			return a, nil
		}
	}
	return 0, fmt.Errorf("max30102: unsupported ADC range %dnA: %w", na, ErrInvalidArguments)
}

// TimeSlot selects the LED that is active during a multi-LED time slot.
type TimeSlot byte

// Multi-LED time slots
const (
	SlotDisabled TimeSlot = iota
	SlotLED1
	SlotLED2
)

func (t TimeSlot) String() string {
	switch t {
	case SlotDisabled:
		return "disabled"
	case SlotLED1:
		return "led1"
	case SlotLED2:
		return "led2"
	}
	return fmt.Sprintf("TimeSlot(%d)", byte(t))
}

// TimeSlotFromName returns the time slot named by s, as printed by
// TimeSlot.String.
func TimeSlotFromName(s string) (TimeSlot, error) {
	for t := SlotDisabled; t <= SlotLED2; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("max30102: unknown time slot %q: %w", s, ErrInvalidArguments)
}

// InterruptStatus is a snapshot of the interrupt status registers.
type InterruptStatus struct {
	PowerReady       bool
	FIFOAlmostFull   bool
	NewFIFODataReady bool
	ALCOverflow      bool
	TemperatureReady bool
}

func interruptStatus(s1, s2 byte) InterruptStatus {
	return InterruptStatus{
		PowerReady:       s1&PowerReady != 0,
		FIFOAlmostFull:   s1&AlmostFull != 0,
		NewFIFODataReady: s1&NewFIFOData != 0,
		ALCOverflow:      s1&AmbientLightCancelOvf != 0,
		TemperatureReady: s2&DieTempReady != 0,
	}
}
