package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cgxeiji/max3010x/v2/max30102"
)

// sensorConfig is the [sensor] table of the configuration file, decoded into
// driver settings.
type sensorConfig struct {
	Mode       max30102.Mode
	Averaging  max30102.SampleAveraging
	AlmostFull max30102.AlmostFullLevel
	Rollover   bool
	Amplitude  uint8
	PulseWidth max30102.PulseWidth
	SampleRate max30102.SamplingRate
	ADCRange   max30102.ADCRange
	Slots      [4]max30102.TimeSlot
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("sensor.mode", max30102.ModeOximeter.String())
	v.SetDefault("sensor.averaging", 1)
	v.SetDefault("sensor.almost_full", 0)
	v.SetDefault("sensor.rollover", false)
	v.SetDefault("sensor.current", 2.8)
	v.SetDefault("sensor.pulse_width", 411)
	v.SetDefault("sensor.sample_rate", 100)
	v.SetDefault("sensor.adc_range", 4096)
	v.SetDefault("sensor.slots", []string{"led1", "led2"})
	return v
}

// loadConfig reads the configuration file at path. An empty path gives the
// default configuration.
func loadConfig(path string) (*sensorConfig, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config %s", path)
		}
	}
	return decode(v)
}

// readConfig reads a TOML configuration from in.
func readConfig(in io.Reader) (*sensorConfig, error) {
	v := newViper()
	if err := v.ReadConfig(in); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	return decode(v)
}

func decode(v *viper.Viper) (*sensorConfig, error) {
	var (
		cfg sensorConfig
		err error
	)

	if cfg.Mode, err = max30102.ParseMode(v.GetString("sensor.mode")); err != nil {
		return nil, errors.Wrap(err, "sensor.mode")
	}
	if cfg.Averaging, err = max30102.SampleAveragingFromCount(v.GetInt("sensor.averaging")); err != nil {
		return nil, errors.Wrap(err, "sensor.averaging")
	}
	level := v.GetInt("sensor.almost_full")
	if level < 0 || level > 15 {
		return nil, errors.Wrapf(max30102.ErrInvalidArguments, "sensor.almost_full: %d is not in 0..15", level)
	}
	cfg.AlmostFull = max30102.AlmostFullLevel(level)
	cfg.Rollover = v.GetBool("sensor.rollover")
	cfg.Amplitude = max30102.Milliamps(v.GetFloat64("sensor.current"))
	if cfg.PulseWidth, err = max30102.PulseWidthFromMicros(v.GetInt("sensor.pulse_width")); err != nil {
		return nil, errors.Wrap(err, "sensor.pulse_width")
	}
	if cfg.SampleRate, err = max30102.SamplingRateFromHz(v.GetInt("sensor.sample_rate")); err != nil {
		return nil, errors.Wrap(err, "sensor.sample_rate")
	}
	if cfg.ADCRange, err = max30102.ADCRangeFromNanoamps(v.GetInt("sensor.adc_range")); err != nil {
		return nil, errors.Wrap(err, "sensor.adc_range")
	}

	slots := v.GetStringSlice("sensor.slots")
	if len(slots) > len(cfg.Slots) {
		return nil, errors.Wrapf(max30102.ErrInvalidArguments, "sensor.slots: %d slots, at most %d", len(slots), len(cfg.Slots))
	}
	for i, name := range slots {
		if cfg.Slots[i], err = max30102.TimeSlotFromName(name); err != nil {
			return nil, errors.Wrapf(err, "sensor.slots[%d]", i)
		}
	}

	return &cfg, nil
}
