package max30102

// Register addresses
const (
	IntStat1  = 0x00
	IntStat2  = 0x01
	IntEna1   = 0x02
	IntEna2   = 0x03
	FIFOWrPtr = 0x04
	OvfCount  = 0x05
	FIFORdPtr = 0x06
	FIFOData  = 0x07
	FIFOCfg   = 0x08
	ModeCfg   = 0x09
	SpO2Cfg   = 0x0A
	Led1PA    = 0x0C
	Led2PA    = 0x0D
	SlotCfg0  = 0x11
	SlotCfg1  = 0x12
	TempInt   = 0x1F
	TempFrac  = 0x20
	TempCfg   = 0x21
	RegRevID  = 0xFE
	RegPartID = 0xFF
)

// Interrupt flags
const (
	// Status 1 / Enable 1
	AlmostFull            byte = (1 << 7)
	NewFIFOData           byte = (1 << 6)
	AmbientLightCancelOvf byte = (1 << 5)
	PowerReady            byte = (1 << 0)

	// Status 2 / Enable 2
	DieTempReady byte = (1 << 1)
)

// Device constants
const (
	Addr   = 0b101_0111
	PartID = 0x15
)

// Settings
const (
	TempEna byte = 0b0000_0001

	modeSHDN  byte = 0b1000_0000
	modeReset byte = 0b0100_0000
	modeMask  byte = 0b0000_0111

	fifoRollover byte = 0b0001_0000
	smpAveMask   byte = 0b1110_0000
	smpAveShift       = 5
	aFullMask    byte = 0b0000_1111

	adcMask  byte = 0b0110_0000
	adcShift      = 5
	srMask   byte = 0b0001_1100
	srShift       = 2
	pwMask   byte = 0b0000_0011
)

// FIFO geometry
const (
	fifoDepth      = 32
	ptrMask   byte = 0x1F

	bytesPerSample = 3
	maxChannels    = 2
)
