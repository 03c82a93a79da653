// Package max30102 drives a MAX30102 pulse oximeter and heart-rate sensor
// over I²C.
//
// A Device starts uninitialized and is moved into a measurement mode with
// EnterHeartRate, EnterOximeter or EnterMultiLED. Each mode has its own handle
// type, so settings that only exist in one mode (ADC range, LED time slots)
// can only be called on that mode's handle. All handles of one device share
// the same state; after a transition only the newest handle should be used.
//
// The driver keeps a copy of the last value written to the mode, FIFO,
// SpO2 and interrupt-enable registers, so changing one field of a register
// never needs a bus read. A copy is updated only when the write succeeded.
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/MAX30102.pdf
package max30102

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/i2c"
)

var (
	// ErrInvalidArguments is returned when a setting is out of range or is
	// not compatible with the current configuration. Nothing is written to
	// the device in that case.
	ErrInvalidArguments = errors.New("max30102: invalid arguments")
	// ErrNotReady is returned by ReadTemperature while a conversion is in
	// progress. It is not a failure; call ReadTemperature again later.
	ErrNotReady = errors.New("max30102: temperature conversion not ready")
	// ErrWrongMode is returned when a mode specific operation is called on a
	// handle whose mode is no longer the current mode of the device.
	ErrWrongMode = errors.New("max30102: handle does not match the device mode")
)

type tempState uint8

const (
	tempIdle tempState = iota
	tempConverting
)

// core is the state shared by every handle of a device.
type core struct {
	dev *i2c.Dev

	// Shadows of the last values written to the device.
	mode    byte
	fifoCfg byte
	spo2Cfg byte
	intEna1 byte
	intEna2 byte

	temp tempState
}

// Device is a MAX30102 that has not been put into a measurement mode yet.
type Device struct {
	*core
}

// New returns a new MAX30102 device on the given bus. It does not touch the
// bus; all register copies start at zero.
func New(bus i2c.Bus) *Device {
	return &Device{
		core: &core{
			dev: &i2c.Dev{
				Addr: Addr,
				Bus:  bus,
			},
		},
	}
}

// Destroy returns the bus the device was created with. The device must not be
// used afterwards.
func (c *core) Destroy() i2c.Bus {
	return c.dev.Bus
}

func (c *core) write(data ...byte) error {
	return c.dev.Tx(data, nil)
}

func (c *core) read(reg byte, b []byte) error {
	return c.dev.Tx([]byte{reg}, b)
}

func (c *core) readByte(reg byte) (byte, error) {
	b := [1]byte{}
	if err := c.read(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// set writes v to reg and keeps it in shadow once the device accepted it.
func (c *core) set(reg byte, shadow *byte, v byte) error {
	if err := c.write(reg, v); err != nil {
		return err
	}
	*shadow = v
	return nil
}

// field replaces the bits of mask in reg with v.
func (c *core) field(reg byte, shadow *byte, mask, v byte) error {
	return c.set(reg, shadow, *shadow&^mask|v&mask)
}

// flag sets or clears a single bit of reg.
func (c *core) flag(reg byte, shadow *byte, bit byte, on bool) error {
	if on {
		return c.set(reg, shadow, *shadow|bit)
	}
	return c.set(reg, shadow, *shadow&^bit)
}

// RevisionID returns the revision ID of the device.
func (c *core) RevisionID() (byte, error) {
	rev, err := c.readByte(RegRevID)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not get revision ID: %w", err)
	}
	return rev, nil
}

// PartID returns the part ID of the device. A MAX30102 reports 0x15.
func (c *core) PartID() (byte, error) {
	part, err := c.readByte(RegPartID)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not get part ID: %w", err)
	}
	return part, nil
}

// ReadInterruptStatus reads both interrupt status registers. Reading them
// clears the interrupts on the device.
func (c *core) ReadInterruptStatus() (InterruptStatus, error) {
	b := [2]byte{}
	if err := c.read(IntStat1, b[:]); err != nil {
		return InterruptStatus{}, fmt.Errorf("max30102: could not read interrupt status: %w", err)
	}
	return interruptStatus(b[0], b[1]), nil
}

// Shutdown sets the device into power-save mode.
func (c *core) Shutdown() error {
	if err := c.flag(ModeCfg, &c.mode, modeSHDN, true); err != nil {
		return fmt.Errorf("max30102: could not shut down: %w", err)
	}
	return nil
}

// WakeUp wakes the device from power-save mode.
func (c *core) WakeUp() error {
	if err := c.flag(ModeCfg, &c.mode, modeSHDN, false); err != nil {
		return fmt.Errorf("max30102: could not wake up: %w", err)
	}
	return nil
}

// Reset triggers a software reset. All configurations, thresholds, and data
// registers are reset to their power-on state by the device; the reset bit
// clears itself and is never kept in the mode register copy.
func (c *core) Reset() error {
	if err := c.write(ModeCfg, c.mode|modeReset); err != nil {
		return fmt.Errorf("max30102: could not reset: %w", err)
	}
	return nil
}

// Mode returns the mode last written to the device.
func (c *core) Mode() Mode {
	return modeFromBits(c.mode)
}

// IsShutdown reports whether the device was last put into power-save mode.
func (c *core) IsShutdown() bool {
	return c.mode&modeSHDN != 0
}
