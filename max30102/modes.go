package max30102

import "fmt"

// HeartRate is a device in heart-rate mode. Only the red LED is used, so
// each FIFO sample holds one channel.
type HeartRate struct {
	sampler
}

// Oximeter is a device in SpO2 mode. Each FIFO sample holds a red and an
// infrared channel.
type Oximeter struct {
	sampler
}

// MultiLED is a device in multi-LED mode. The LED of each channel is chosen
// with SetLEDTimeSlots.
type MultiLED struct {
	sampler
}

// sampler holds what every measurement mode has in common.
type sampler struct {
	*core
	kind Mode
}

// current fails when the device has since been moved into another mode.
func (s sampler) current() error {
	if m := s.core.Mode(); m != s.kind {
		return fmt.Errorf("%w: handle is %v, device is %v", ErrWrongMode, s.kind, m)
	}
	return nil
}

// enter writes the mode bits of m, keeping the other bits of the mode
// register, then clears the FIFO since its contents were sampled with the
// channel count of the previous mode.
func (c *core) enter(m Mode) error {
	if err := c.field(ModeCfg, &c.mode, modeMask, byte(m)); err != nil {
		return fmt.Errorf("max30102: could not enter %v mode: %w", m, err)
	}
	if err := c.clearFIFO(); err != nil {
		return fmt.Errorf("max30102: could not enter %v mode: %w", m, err)
	}
	return nil
}

// EnterHeartRate changes into heart-rate mode and clears the FIFO.
// If the FIFO cannot be cleared the device stays in the new mode, no handle
// is returned and handles of the previous mode fail with ErrWrongMode.
func (c *core) EnterHeartRate() (*HeartRate, error) {
	if err := c.enter(ModeHeartRate); err != nil {
		return nil, err
	}
	return &HeartRate{sampler{core: c, kind: ModeHeartRate}}, nil
}

// EnterOximeter changes into SpO2 mode and clears the FIFO.
// A failed FIFO clear leaves the device in SpO2 mode, as for EnterHeartRate.
func (c *core) EnterOximeter() (*Oximeter, error) {
	if err := c.enter(ModeOximeter); err != nil {
		return nil, err
	}
	return &Oximeter{sampler{core: c, kind: ModeOximeter}}, nil
}

// EnterMultiLED changes into multi-LED mode and clears the FIFO.
// A failed FIFO clear leaves the device in multi-LED mode, as for EnterHeartRate.
func (c *core) EnterMultiLED() (*MultiLED, error) {
	if err := c.enter(ModeMultiLED); err != nil {
		return nil, err
	}
	return &MultiLED{sampler{core: c, kind: ModeMultiLED}}, nil
}

// EnableNewFIFODataReadyInterrupt enables the new FIFO data ready interrupt.
func (h *HeartRate) EnableNewFIFODataReadyInterrupt() error {
	return h.dataReadyInterrupt(true)
}

// DisableNewFIFODataReadyInterrupt disables the new FIFO data ready interrupt.
func (h *HeartRate) DisableNewFIFODataReadyInterrupt() error {
	return h.dataReadyInterrupt(false)
}

// EnableNewFIFODataReadyInterrupt enables the new FIFO data ready interrupt.
func (o *Oximeter) EnableNewFIFODataReadyInterrupt() error {
	return o.dataReadyInterrupt(true)
}

// DisableNewFIFODataReadyInterrupt disables the new FIFO data ready interrupt.
func (o *Oximeter) DisableNewFIFODataReadyInterrupt() error {
	return o.dataReadyInterrupt(false)
}

func (s sampler) dataReadyInterrupt(on bool) error {
	if err := s.current(); err != nil {
		return err
	}
	if err := s.flag(IntEna1, &s.intEna1, NewFIFOData, on); err != nil {
		return fmt.Errorf("max30102: could not configure new FIFO data interrupt: %w", err)
	}
	return nil
}

// SetADCRange configures the SpO2 ADC full scale range.
func (o *Oximeter) SetADCRange(r ADCRange) error {
	if r > ADC16384 {
		return fmt.Errorf("max30102: ADC range %v: %w", r, ErrInvalidArguments)
	}
	if err := o.current(); err != nil {
		return err
	}
	if err := o.field(SpO2Cfg, &o.spo2Cfg, adcMask, byte(r)<<adcShift); err != nil {
		return fmt.Errorf("max30102: could not configure ADC range: %w", err)
	}
	return nil
}

// SetLEDTimeSlots configures which LED is active in each of the four time
// slots of a multi-LED sample. Slots must be enabled in order: once a slot is
// disabled, all the following ones must be disabled too. Otherwise
// ErrInvalidArguments is returned and nothing is written.
func (m *MultiLED) SetLEDTimeSlots(slots [4]TimeSlot) error {
	disabled := false
	for i, s := range slots {
		if s > SlotLED2 {
			return fmt.Errorf("max30102: slot %d is %v: %w", i+1, s, ErrInvalidArguments)
		}
		if disabled && s != SlotDisabled {
			return fmt.Errorf("max30102: slot %d enabled after a disabled slot: %w", i+1, ErrInvalidArguments)
		}
		disabled = s == SlotDisabled
	}
	if err := m.current(); err != nil {
		return err
	}
	err := m.write(
		SlotCfg0,
		byte(slots[1])<<4|byte(slots[0]),
		byte(slots[3])<<4|byte(slots[2]),
	)
	if err != nil {
		return fmt.Errorf("max30102: could not configure LED time slots: %w", err)
	}
	return nil
}
