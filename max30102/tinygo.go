package max30102

import (
	"fmt"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/physic"
	"tinygo.org/x/drivers"
)

// FromTinyGo wraps a TinyGo I²C bus so that it can be passed to New. The bus
// must already be configured; its speed cannot be changed through the
// wrapper.
func FromTinyGo(bus drivers.I2C) i2c.Bus {
	return &tinyGoBus{I2C: bus}
}

type tinyGoBus struct {
	drivers.I2C
}

func (b *tinyGoBus) String() string {
	return "tinygo-i2c"
}

func (b *tinyGoBus) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("max30102: %s: cannot set bus speed to %s", b, f)
}
