// Command max3010x inspects a MAX30102 sensor on a host I²C bus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"go.uber.org/multierr"

	"github.com/cgxeiji/max3010x/v2"
	"github.com/cgxeiji/max3010x/v2/max30102"
)

func main() {
	app := cli.NewApp()

	app.Name = "max3010x"
	app.Usage = "read a MAX30102 pulse oximeter"
	app.Version = "2.0.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "bus, b",
			Usage: "I²C bus `NAME` (\"/dev/i2c-1\", \"I2C1\", \"1\"); the first bus by default",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load sensor configuration from `FILE`",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}

	app.Before = func(c *cli.Context) error {
		log.SetFormatter(&log.TextFormatter{DisableColors: true})
		if c.GlobalBool("debug") {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:   "info",
			Usage:  "print the part and revision IDs and the interrupt status",
			Action: info,
		},
		{
			Name:  "temp",
			Usage: "measure the die temperature",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "timeout, t",
					Value: time.Second,
					Usage: "give up after `DURATION`",
				},
			},
			Action: temp,
		},
		{
			Name:  "read",
			Usage: "stream FIFO samples",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "count, n",
					Usage: "stop after `N` samples; 0 reads until interrupted",
				},
			},
			Action: read,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func open(c *cli.Context, options ...max3010x.Option) (*max3010x.Sensor, error) {
	options = append(options, max3010x.OnBus(c.GlobalString("bus")))
	s, err := max3010x.Open(options...)
	if err != nil {
		return nil, err
	}
	log.WithField("sensor", s).Debug("opened")
	return s, nil
}

func info(c *cli.Context) (err error) {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	status, err := s.ReadInterruptStatus()
	if err != nil {
		return err
	}
	fmt.Printf("part ID:  %#x\n", s.PartID)
	fmt.Printf("revision: %d\n", s.RevID)
	fmt.Printf("status:   %+v\n", status)
	return nil
}

func temp(c *cli.Context) (err error) {
	s, err := open(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	t, err := max30102.PollTemperature(ctx, s, max30102.DefaultPollInterval)
	if err != nil {
		return err
	}
	fmt.Printf("%.4f °C\n", t)
	return nil
}

// sampler is what the read command needs from a measurement mode handle.
type sampler interface {
	Mode() max30102.Mode
	OverflowSampleCount() (int, error)
	ReadFIFO(out []uint32) (int, error)
}

// configure moves the device into the configured mode and applies the
// configuration.
func configure(d *max30102.Device, cfg *sensorConfig) (sampler, error) {
	if _, err := d.Options(
		max30102.Averaging(cfg.Averaging),
		max30102.AlmostFullValue(cfg.AlmostFull),
		max30102.Rollover(cfg.Rollover),
	); err != nil {
		return nil, err
	}
	if err := d.SetPulseAmplitude(max30102.AllLEDs, cfg.Amplitude); err != nil {
		return nil, err
	}

	// The pulse width is set first: every width is valid at the 50sps reset
	// rate, so only the final combination is checked.
	switch cfg.Mode {
	case max30102.ModeHeartRate:
		hr, err := d.EnterHeartRate()
		if err != nil {
			return nil, err
		}
		if err := hr.SetLEDPulseWidth(cfg.PulseWidth); err != nil {
			return nil, err
		}
		return hr, hr.SetSamplingRate(cfg.SampleRate)

	case max30102.ModeOximeter:
		ox, err := d.EnterOximeter()
		if err != nil {
			return nil, err
		}
		if err := ox.SetADCRange(cfg.ADCRange); err != nil {
			return nil, err
		}
		if err := ox.SetLEDPulseWidth(cfg.PulseWidth); err != nil {
			return nil, err
		}
		return ox, ox.SetSamplingRate(cfg.SampleRate)

	case max30102.ModeMultiLED:
		ml, err := d.EnterMultiLED()
		if err != nil {
			return nil, err
		}
		if err := ml.SetLEDTimeSlots(cfg.Slots); err != nil {
			return nil, err
		}
		if err := ml.SetLEDPulseWidth(cfg.PulseWidth); err != nil {
			return nil, err
		}
		return ml, ml.SetSamplingRate(cfg.SampleRate)
	}
	return nil, errors.Errorf("cannot sample in %v mode", cfg.Mode)
}

func read(c *cli.Context) (err error) {
	cfg, err := loadConfig(c.GlobalString("config"))
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"mode":        cfg.Mode,
		"pulse_width": cfg.PulseWidth,
		"sample_rate": cfg.SampleRate,
		"averaging":   cfg.Averaging,
	}).Info("configuration loaded")

	s, err := open(c, max3010x.ResetOnOpen(true))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, s.Close())
	}()

	smp, err := configure(s.Device, cfg)
	if err != nil {
		return errors.Wrap(err, "could not configure sensor")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return stream(ctx, clock.New(), smp, cfg, c.Int("count"), func(sample []uint32) {
		fmt.Println(sample)
	})
}

// pollInterval is about a quarter of the FIFO sample period of cfg.
func pollInterval(cfg *sensorConfig) time.Duration {
	period := time.Second * time.Duration(cfg.Averaging.Count()) / time.Duration(cfg.SampleRate.Hz())
	return period/4 + time.Millisecond
}

// stream polls the FIFO and calls emit with the channels of each sample
// until limit samples were emitted, or forever if limit is 0. The FIFO is
// polled on ticks of clk.
func stream(ctx context.Context, clk clock.Clock, smp sampler, cfg *sensorConfig, limit int, emit func([]uint32)) error {
	ch := smp.Mode().Channels()
	buf := make([]uint32, 32*ch)

	tick := clk.Ticker(pollInterval(cfg))
	defer tick.Stop()

	total := 0
	for limit == 0 || total < limit {
		if lost, err := smp.OverflowSampleCount(); err != nil {
			return err
		} else if lost > 0 {
			log.WithField("lost", lost).Warn("FIFO overflow")
		}

		n, err := smp.ReadFIFO(buf)
		if err != nil {
			return err
		}
		log.WithField("samples", n).Debug("FIFO read")
		for i := 0; i < n && (limit == 0 || total < limit); i++ {
			emit(buf[i*ch : (i+1)*ch])
			total++
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}
