// Package max3010x opens a MAX30102 on a host I²C bus.
//
// The register level driver lives in the max30102 package; a Sensor embeds
// its uninitialized handle, so after Open the device is moved into a
// measurement mode the same way:
//
//	s, err := max3010x.Open(max3010x.OnBus("1"))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	ox, err := s.EnterOximeter()
package max3010x

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/max3010x/v2/max30102"
)

// ErrNotDevice is returned when the device on the bus does not report the
// MAX30102 part ID (0x15).
var ErrNotDevice = errors.New("max3010x: part ID does not match a MAX30102")

// Sensor is a MAX30102 attached to a bus owned by the sensor.
type Sensor struct {
	*max30102.Device

	// PartID is the byte part ID as set by the manufacturer.
	PartID byte
	RevID  byte

	bus i2c.BusCloser
}

// Open initializes the host drivers, opens the I²C bus and checks that a
// MAX30102 answers on it. The device is left in the state it was found in
// unless ResetOnOpen is given.
func Open(options ...Option) (*Sensor, error) {
	s := &settings{}
	for _, opt := range options {
		opt(s)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("max3010x: could not initialize host: %w", err)
	}
	bus, err := i2creg.Open(s.bus)
	if err != nil {
		return nil, fmt.Errorf("max3010x: could not open I2C bus %q: %w", s.bus, err)
	}

	sensor, err := attach(bus, s)
	if err != nil {
		return nil, multierr.Combine(err, bus.Close())
	}
	return sensor, nil
}

// attach probes the device on bus. On success the sensor owns bus.
func attach(bus i2c.BusCloser, s *settings) (*Sensor, error) {
	d := max30102.New(bus)

	part, err := d.PartID()
	if err != nil {
		return nil, fmt.Errorf("max3010x: %w", err)
	}
	if part != max30102.PartID {
		return nil, fmt.Errorf("max3010x: found part ID %#x on %s: %w", part, bus, ErrNotDevice)
	}
	rev, err := d.RevisionID()
	if err != nil {
		return nil, fmt.Errorf("max3010x: %w", err)
	}

	if s.reset {
		if err := d.Reset(); err != nil {
			return nil, fmt.Errorf("max3010x: %w", err)
		}
	}

	return &Sensor{
		Device: d,
		PartID: part,
		RevID:  rev,
		bus:    bus,
	}, nil
}

// String returns the bus and revision of the sensor.
func (s *Sensor) String() string {
	return fmt.Sprintf("MAX30102 rev.%d on %s", s.RevID, s.bus)
}

// Close puts the device into power-save mode and closes the bus. The bus is
// closed even if the device could not be shut down.
func (s *Sensor) Close() error {
	return multierr.Combine(s.Shutdown(), s.bus.Close())
}
