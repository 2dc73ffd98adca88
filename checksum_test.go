package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		init uint8
		want uint8
	}{
		{"empty settings seed", nil, sumInitSettings, 255 - 171},
		{"empty macro seed", nil, sumInitMacro, 255 - 181},
		{"single byte", []byte{0x01}, sumInitSettings, 255 - 172},
		{"wraps modulo 256", []byte{0xFF, 0xFF}, sumInitSettings, 255 - 169},
		{"longer run", []byte{1, 2, 3, 4, 5}, sumInitMacro, 255 - 196},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checksum(tt.data, tt.init))
		})
	}
}

func TestVerifyChecksum_RoundTrip(t *testing.T) {
	data := []byte{0x08, 0x00, 0x1A, 0xFF, 0x00, 0x42}
	for _, init := range []uint8{0, 1, sumInitSettings, sumInitMacro, 255} {
		sum := checksum(data, init)
		assert.True(t, verifyChecksum(data, init, sum), "init %d", init)
	}
}

func TestVerifyChecksum_DetectsSingleBitCorruption(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40}
	sum := checksum(data, sumInitSettings)

	for i := range data {
		for bit := 0; bit < 8; bit++ {
			corrupted := append([]byte(nil), data...)
			corrupted[i] ^= 1 << bit
			assert.False(t, verifyChecksum(corrupted, sumInitSettings, sum),
				"flip byte %d bit %d went undetected", i, bit)
		}
	}
}
