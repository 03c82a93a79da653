package max30102

import "fmt"

// check fails if the device cannot sample at sr with pulses of width pw in
// mode m. Longer pulses take longer to convert, so they limit how fast the
// device can sample, and SpO2 mode has to pulse two LEDs per sample.
func (m Mode) check(pw PulseWidth, sr SamplingRate) error {
	var ok bool
	switch m {
	case ModeHeartRate:
		ok = checkRedOnly(pw, sr)
	case ModeOximeter:
		ok = checkRedIR(pw, sr)
	default:
		ok = true
	}
	if !ok {
		return fmt.Errorf("max30102: %v pulses cannot be sampled at %v in %v mode: %w", pw, sr, m, ErrInvalidArguments)
	}
	return nil
}

func checkRedOnly(pw PulseWidth, sr SamplingRate) bool {
	switch sr {
	case SR3200:
		return pw == PW69
	case SR1600:
		return pw != PW411
	}
	return true
}

func checkRedIR(pw PulseWidth, sr SamplingRate) bool {
	switch sr {
	case SR3200:
		return false
	case SR1600:
		return pw == PW69
	case SR1000:
		return pw == PW69 || pw == PW118
	case SR800:
		return pw != PW411
	}
	return true
}

// SetLEDPulseWidth configures the LED pulse width, which determines the ADC
// resolution. The width must be compatible with the current sampling rate in
// this mode; otherwise ErrInvalidArguments is returned and nothing is
// written.
func (s sampler) SetLEDPulseWidth(pw PulseWidth) error {
	if pw > PW411 {
		return fmt.Errorf("max30102: pulse width %v: %w", pw, ErrInvalidArguments)
	}
	if err := s.current(); err != nil {
		return err
	}
	if err := s.kind.check(pw, s.SamplingRate()); err != nil {
		return err
	}
	if err := s.field(SpO2Cfg, &s.spo2Cfg, pwMask, byte(pw)); err != nil {
		return fmt.Errorf("max30102: could not configure pulse width: %w", err)
	}
	return nil
}

// SetSamplingRate configures the sampling rate. The rate must be compatible
// with the current LED pulse width in this mode; otherwise
// ErrInvalidArguments is returned and nothing is written.
func (s sampler) SetSamplingRate(sr SamplingRate) error {
	if sr > SR3200 {
		return fmt.Errorf("max30102: sampling rate %v: %w", sr, ErrInvalidArguments)
	}
	if err := s.current(); err != nil {
		return err
	}
	if err := s.kind.check(s.PulseWidth(), sr); err != nil {
		return err
	}
	if err := s.field(SpO2Cfg, &s.spo2Cfg, srMask, byte(sr)<<srShift); err != nil {
		return fmt.Errorf("max30102: could not configure sampling rate: %w", err)
	}
	return nil
}
