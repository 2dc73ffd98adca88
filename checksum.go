package main

// Sum-complement checksum seeds observed in USB captures. Settings below
// 0x0100 use 171; key-combo and macro data uses 181.
const (
	sumInitSettings uint8 = 171
	sumInitMacro    uint8 = 181
)

// checksum returns the sum-complement checksum of data: the one's complement
// of the modulo-256 sum of all bytes, seeded with init.
func checksum(data []byte, init uint8) uint8 {
	sum := init
	for _, b := range data {
		sum += b
	}
	return 255 - sum
}

// verifyChecksum reports whether claimed matches the checksum of data.
func verifyChecksum(data []byte, init, claimed uint8) bool {
	return checksum(data, init) == claimed
}
