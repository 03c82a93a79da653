package max30102

import "fmt"

// Option defines a functional option for the device. Applying an option
// returns an option that restores the previous value.
type Option func(c *core) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed. It stops at the first option that fails.
func (c *core) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(c)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// Averaging sets the number of samples averaged into one FIFO sample.
func Averaging(sa SampleAveraging) Option {
	return func(c *core) (Option, error) {
		old := c.SampleAveraging()
		if err := c.SetSampleAveraging(sa); err != nil {
			return nil, err
		}
		return Averaging(old), nil
	}
}

// AlmostFullValue sets when the AlmostFull interrupt should be triggered. It can
// take values from 0 to 15.
func AlmostFullValue(level AlmostFullLevel) Option {
	return func(c *core) (Option, error) {
		old := c.FIFOAlmostFullLevel()
		if err := c.SetFIFOAlmostFullLevel(level); err != nil {
			return nil, err
		}
		return AlmostFullValue(old), nil
	}
}

// Rollover enables or disables the FIFO rollover.
func Rollover(on bool) Option {
	return func(c *core) (Option, error) {
		old := c.FIFORollover()
		if err := c.setRollover(on); err != nil {
			return nil, err
		}
		return Rollover(old), nil
	}
}

// PulseAmplitude sets the pulse amplitude of led. The amplitudes are not kept
// by the driver, so the previous values are read back from the device first.
func PulseAmplitude(led LED, amplitude uint8) Option {
	return func(c *core) (Option, error) {
		b := [2]byte{}
		if err := c.read(Led1PA, b[:]); err != nil {
			return nil, fmt.Errorf("max30102: could not get pulse amplitude: %w", err)
		}
		if err := c.SetPulseAmplitude(led, amplitude); err != nil {
			return nil, err
		}
		return pulseAmplitudes(b[0], b[1]), nil
	}
}

func pulseAmplitudes(led1, led2 uint8) Option {
	return func(c *core) (Option, error) {
		b := [2]byte{}
		if err := c.read(Led1PA, b[:]); err != nil {
			return nil, fmt.Errorf("max30102: could not get pulse amplitude: %w", err)
		}
		if err := c.write(Led1PA, led1, led2); err != nil {
			return nil, fmt.Errorf("max30102: could not configure pulse amplitude: %w", err)
		}
		return pulseAmplitudes(b[0], b[1]), nil
	}
}

// SetPulseAmplitude sets the pulse amplitude of led. The amplitude
// corresponds to a typical current of 0.0 mA for 0 up to 51.0 mA for 255;
// see Milliamps. AllLEDs writes both LEDs in a single transfer.
func (c *core) SetPulseAmplitude(led LED, amplitude uint8) error {
	var err error
	switch led {
	case LED1:
		err = c.write(Led1PA, amplitude)
	case LED2:
		err = c.write(Led2PA, amplitude)
	case AllLEDs:
		err = c.write(Led1PA, amplitude, amplitude)
	default:
		return fmt.Errorf("max30102: %v: %w", led, ErrInvalidArguments)
	}
	if err != nil {
		return fmt.Errorf("max30102: could not configure %v pulse amplitude: %w", led, err)
	}
	return nil
}

// SetSampleAveraging sets the number of samples averaged on-chip into a
// single FIFO sample.
func (c *core) SetSampleAveraging(sa SampleAveraging) error {
	if sa > Sa32 {
		return fmt.Errorf("max30102: sample averaging %v: %w", sa, ErrInvalidArguments)
	}
	if err := c.field(FIFOCfg, &c.fifoCfg, smpAveMask, byte(sa)<<smpAveShift); err != nil {
		return fmt.Errorf("max30102: could not configure sample averaging: %w", err)
	}
	return nil
}

// SampleAveraging returns the sample averaging last written to the device.
func (c *core) SampleAveraging() SampleAveraging {
	return SampleAveraging((c.fifoCfg & smpAveMask) >> smpAveShift)
}

// SetFIFOAlmostFullLevel sets the number of empty FIFO slots left when the
// FIFO almost full interrupt is issued.
func (c *core) SetFIFOAlmostFullLevel(level AlmostFullLevel) error {
	if level > 15 {
		return fmt.Errorf("max30102: FIFO almost full level %d: %w", level, ErrInvalidArguments)
	}
	if err := c.field(FIFOCfg, &c.fifoCfg, aFullMask, byte(level)); err != nil {
		return fmt.Errorf("max30102: could not configure almost full value to %d: %w", level, err)
	}
	return nil
}

// FIFOAlmostFullLevel returns the almost full level last written to the
// device.
func (c *core) FIFOAlmostFullLevel() AlmostFullLevel {
	return AlmostFullLevel(c.fifoCfg & aFullMask)
}

// EnableFIFORollover lets new samples overwrite the oldest ones when the FIFO
// is full.
func (c *core) EnableFIFORollover() error {
	return c.setRollover(true)
}

// DisableFIFORollover drops new samples when the FIFO is full. Dropped
// samples are counted; see OverflowSampleCount.
func (c *core) DisableFIFORollover() error {
	return c.setRollover(false)
}

func (c *core) setRollover(on bool) error {
	if err := c.flag(FIFOCfg, &c.fifoCfg, fifoRollover, on); err != nil {
		return fmt.Errorf("max30102: could not configure FIFO rollover: %w", err)
	}
	return nil
}

// FIFORollover reports whether FIFO rollover was last enabled.
func (c *core) FIFORollover() bool {
	return c.fifoCfg&fifoRollover != 0
}

// ClearFIFO resets the FIFO write and read pointers and the overflow counter
// to 0.
func (c *core) ClearFIFO() error {
	if err := c.clearFIFO(); err != nil {
		return fmt.Errorf("max30102: could not clear FIFO: %w", err)
	}
	return nil
}

// clearFIFO writes the write pointer, overflow counter and read pointer in
// one transfer.
func (c *core) clearFIFO() error {
	return c.write(FIFOWrPtr, 0, 0, 0)
}

func (c *core) interrupt(reg byte, shadow *byte, bit byte, on bool, name string) error {
	if err := c.flag(reg, shadow, bit, on); err != nil {
		return fmt.Errorf("max30102: could not configure %s interrupt: %w", name, err)
	}
	return nil
}

// EnableFIFOAlmostFullInterrupt enables the FIFO almost full interrupt.
func (c *core) EnableFIFOAlmostFullInterrupt() error {
	return c.interrupt(IntEna1, &c.intEna1, AlmostFull, true, "FIFO almost full")
}

// DisableFIFOAlmostFullInterrupt disables the FIFO almost full interrupt.
func (c *core) DisableFIFOAlmostFullInterrupt() error {
	return c.interrupt(IntEna1, &c.intEna1, AlmostFull, false, "FIFO almost full")
}

// EnableALCOverflowInterrupt enables the ambient light cancellation overflow
// interrupt.
func (c *core) EnableALCOverflowInterrupt() error {
	return c.interrupt(IntEna1, &c.intEna1, AmbientLightCancelOvf, true, "ALC overflow")
}

// DisableALCOverflowInterrupt disables the ambient light cancellation
// overflow interrupt.
func (c *core) DisableALCOverflowInterrupt() error {
	return c.interrupt(IntEna1, &c.intEna1, AmbientLightCancelOvf, false, "ALC overflow")
}

// EnableTemperatureReadyInterrupt enables the internal die temperature
// conversion ready interrupt.
func (c *core) EnableTemperatureReadyInterrupt() error {
	return c.interrupt(IntEna2, &c.intEna2, DieTempReady, true, "temperature ready")
}

// DisableTemperatureReadyInterrupt disables the internal die temperature
// conversion ready interrupt.
func (c *core) DisableTemperatureReadyInterrupt() error {
	return c.interrupt(IntEna2, &c.intEna2, DieTempReady, false, "temperature ready")
}

// EnabledInterrupts returns the interrupt enable flags last written to the
// device. PowerReady cannot be disabled and is always reported as false.
func (c *core) EnabledInterrupts() InterruptStatus {
	return interruptStatus(c.intEna1&^PowerReady, c.intEna2)
}

// PulseWidth returns the LED pulse width last written to the device.
func (c *core) PulseWidth() PulseWidth {
	return PulseWidth(c.spo2Cfg & pwMask)
}

// SamplingRate returns the sampling rate last written to the device.
func (c *core) SamplingRate() SamplingRate {
	return SamplingRate((c.spo2Cfg & srMask) >> srShift)
}

// ADCRange returns the ADC range last written to the device.
func (c *core) ADCRange() ADCRange {
	return ADCRange((c.spo2Cfg & adcMask) >> adcShift)
}
