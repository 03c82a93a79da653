package max3010x

type settings struct {
	bus   string
	reset bool
}

// An Option configures how a sensor is opened. Applying an option returns
// an option that restores the previous value.
type Option func(s *settings) Option

// OnBus can be used to specify I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus.
func OnBus(name string) Option {
	return func(s *settings) Option {
		old := s.bus
		s.bus = name
		return OnBus(old)
	}
}

// ResetOnOpen triggers a software reset once the device has been found, so
// that it starts from its power-on configuration.
func ResetOnOpen(on bool) Option {
	return func(s *settings) Option {
		old := s.reset
		s.reset = on
		return ResetOnOpen(old)
	}
}
