package main

// Device identity and the pieces of transport logic that are not platform
// specific. The configuration interface is found by vendor/product ID plus a
// report descriptor scan: only the interface exposing report ID 8 speaks the
// protocol.

const (
	lamzuVendorID = 0x3554

	// The mouse sometimes interleaves unrelated input reports between a
	// request and its reply; skip a few before giving up.
	maxResponseSkips = 3
)

// Products this tool has been verified against. The protocol may work on
// other LAMZU mice but is untested there.
var supportedProducts = map[uint16]string{
	0xF50D: "LAMZU Atlantis Mini Pro (wired)",
	0xF50F: "LAMZU Atlantis Mini Pro (wireless)",
}

// DeviceInfo describes one discovered candidate device.
type DeviceInfo struct {
	Path      string
	VendorID  uint16
	ProductID uint16
	Name      string
}

// hasReportID walks a USB HID report descriptor and reports whether it
// declares report ID id. Only short items are handled; long items do not
// occur in mouse descriptors.
func hasReportID(descriptor []byte, id uint8) bool {
	const (
		longItemPrefix = 0xFE
		reportIDItem   = 0x85 // 1-byte report ID item
		itemSizeMask   = 0x03
	)

	for i := 0; i < len(descriptor); {
		prefix := descriptor[i]
		i++

		if prefix == longItemPrefix {
			if i >= len(descriptor) {
				return false
			}
			// Long item: next byte is its data size.
			i += int(descriptor[i]) + 2
			continue
		}

		size := int(prefix & itemSizeMask)
		if size == 3 {
			size = 4
		}
		if prefix == reportIDItem && i < len(descriptor) && descriptor[i] == id {
			return true
		}
		i += size
	}
	return false
}
