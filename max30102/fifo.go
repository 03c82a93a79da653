package max30102

import "fmt"

// AvailableSampleCount returns the number of samples waiting in the FIFO.
// The write and read pointers wrap around at 32, so a full FIFO reads as 0.
func (c *core) AvailableSampleCount() (int, error) {
	// FIFO_WR_PTR, OVF_COUNTER, FIFO_RD_PTR
	b := [3]byte{}
	if err := c.read(FIFOWrPtr, b[:]); err != nil {
		return 0, fmt.Errorf("max30102: could not read FIFO pointers: %w", err)
	}
	wr := b[0] & ptrMask
	rd := b[2] & ptrMask
	return int((wr - rd) & ptrMask), nil
}

// OverflowSampleCount returns the number of samples lost because the FIFO was
// full while rollover was disabled.
func (c *core) OverflowSampleCount() (int, error) {
	ovf, err := c.readByte(OvfCount)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read FIFO overflow counter: %w", err)
	}
	return int(ovf & ptrMask), nil
}

// ReadFIFO reads samples from the FIFO until all the available samples are
// read or out is full, and returns the number of samples read.
//
// out holds one element per channel per sample: one channel in heart-rate
// mode, two otherwise. Values are shifted right so that they fit the ADC
// resolution of the current pulse width. If out cannot hold a whole sample,
// nothing is read.
func (s sampler) ReadFIFO(out []uint32) (int, error) {
	ch := s.kind.Channels()
	if len(out) < ch {
		return 0, nil
	}
	buf := [fifoDepth * maxChannels * bytesPerSample]byte{}
	n, err := s.readSamples(buf[:], len(out)/ch)
	if err != nil || n == 0 {
		return 0, err
	}
	shift := s.PulseWidth().shift()
	for i := range out[:n*ch] {
		b := buf[i*bytesPerSample:]
		out[i] = (uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])) >> shift
	}
	return n, nil
}

// ReadFIFOBytes is like ReadFIFO but copies the raw 3-byte big-endian FIFO
// words into out, without shifting them. out needs 3 bytes per channel per
// sample.
func (s sampler) ReadFIFOBytes(out []byte) (int, error) {
	size := s.kind.Channels() * bytesPerSample
	if len(out) < size {
		return 0, nil
	}
	return s.readSamples(out, len(out)/size)
}

// readSamples reads up to limit samples into buf in a single transfer.
func (s sampler) readSamples(buf []byte, limit int) (int, error) {
	if err := s.current(); err != nil {
		return 0, err
	}
	n, err := s.AvailableSampleCount()
	if err != nil {
		return 0, err
	}
	if n > limit {
		n = limit
	}
	if n == 0 {
		return 0, nil
	}
	if err := s.read(FIFOData, buf[:n*s.kind.Channels()*bytesPerSample]); err != nil {
		return 0, fmt.Errorf("max30102: could not read %d samples from FIFO: %w", n, err)
	}
	return n, nil
}
