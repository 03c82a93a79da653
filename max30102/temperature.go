package max30102

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultPollInterval is used by PollTemperature when no interval is given.
// A die temperature conversion takes about 29ms.
const DefaultPollInterval = 10 * time.Millisecond

// ReadTemperature performs a die temperature measurement without blocking.
//
// The first call starts a conversion and returns ErrNotReady. Following calls
// return ErrNotReady until the device has finished, then return the
// temperature in °C. If a conversion was already started by someone else,
// ReadTemperature waits for it to end before starting its own.
func (c *core) ReadTemperature() (float32, error) {
	cfg, err := c.readByte(TempCfg)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read temperature state: %w", err)
	}
	// The device clears TempEna once the conversion is done.
	if cfg&TempEna != 0 {
		return 0, ErrNotReady
	}

	switch c.temp {
	case tempIdle:
		if err := c.write(TempCfg, TempEna); err != nil {
			return 0, fmt.Errorf("max30102: could not enable temperature: %w", err)
		}
		c.temp = tempConverting
		return 0, ErrNotReady

	case tempConverting:
		// TEMP_INTR, TEMP_FRAC
		b := [2]byte{}
		if err := c.read(TempInt, b[:]); err != nil {
			return 0, fmt.Errorf("max30102: could not read temperature: %w", err)
		}
		c.temp = tempIdle
		return float32(int8(b[0])) + float32(b[1])*0.0625, nil
	}

	return 0, fmt.Errorf("max30102: unknown temperature state %d", c.temp)
}

// TemperatureReader is a non-blocking temperature source. Every device
// handle implements it.
type TemperatureReader interface {
	ReadTemperature() (float32, error)
}

// PollTemperature calls t.ReadTemperature every interval until a temperature
// is returned, an error other than ErrNotReady occurs, or ctx is done.
func PollTemperature(ctx context.Context, t TemperatureReader, interval time.Duration) (float32, error) {
	return pollTemperature(ctx, clock.New(), t, interval)
}

func pollTemperature(ctx context.Context, clk clock.Clock, t TemperatureReader, interval time.Duration) (float32, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	tick := clk.Ticker(interval)
	defer tick.Stop()

	for {
		temp, err := t.ReadTemperature()
		if !errors.Is(err, ErrNotReady) {
			return temp, err
		}
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("max30102: could not get temperature: %w", ctx.Err())
		case <-tick.C:
		}
	}
}
