package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux transport over the hidraw character devices. Discovery matches
// vendor/product via HIDIOCGRAWINFO and confirms the configuration
// interface by scanning the report descriptor for report ID 8.

// hidraw ioctl request values (linux/hidraw.h).
const (
	hidIocGRDescSize = 0x80044801 // _IOR('H', 0x01, int)
	hidIocGRDesc     = 0x90044802 // _IOR('H', 0x02, struct hidraw_report_descriptor)
	hidIocGRawInfo   = 0x80084803 // _IOR('H', 0x03, struct hidraw_devinfo)

	hidMaxDescriptorSize = 4096
)

type hidrawDevInfo struct {
	Bustype uint32
	Vendor  int16
	Product int16
}

type hidrawReportDescriptor struct {
	Size  uint32
	Value [hidMaxDescriptorSize]byte
}

type hidrawTransport struct {
	fd      int
	path    string
	timeout time.Duration
}

// openTransport opens the configured device path, or the first compatible
// device found.
func openTransport(config *Config) (Transport, error) {
	path := config.Device
	if path == "" {
		devices, err := listDevices()
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			return nil, ErrNoDevice
		}
		path = devices[0].Path
		if verbose {
			fmt.Printf("using device: %s (%s)\n", devices[0].Name, path)
		}
	}

	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &hidrawTransport{
		fd:      fd,
		path:    path,
		timeout: time.Duration(config.TimeoutMs) * time.Millisecond,
	}, nil
}

// listDevices enumerates /dev/hidraw* and returns the compatible
// configuration interfaces.
func listDevices() ([]DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/hidraw*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var devices []DeviceInfo
	for _, path := range paths {
		info, ok := probeDevice(path)
		if ok {
			devices = append(devices, info)
		}
	}
	return devices, nil
}

// probeDevice checks whether path is a supported mouse's configuration
// interface. Devices we cannot open (usually a permissions problem) are
// skipped silently unless verbose.
func probeDevice(path string) (DeviceInfo, bool) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		if verbose && !os.IsNotExist(err) {
			fmt.Printf("skipping %s: %v\n", path, err)
		}
		return DeviceInfo{}, false
	}
	defer unix.Close(fd)

	var devInfo hidrawDevInfo
	if err := ioctl(fd, hidIocGRawInfo, unsafe.Pointer(&devInfo)); err != nil {
		return DeviceInfo{}, false
	}

	vendor, product := uint16(devInfo.Vendor), uint16(devInfo.Product)
	name, ok := supportedProducts[product]
	if vendor != lamzuVendorID || !ok {
		return DeviceInfo{}, false
	}

	var desc hidrawReportDescriptor
	if err := ioctl(fd, hidIocGRDescSize, unsafe.Pointer(&desc.Size)); err != nil {
		return DeviceInfo{}, false
	}
	if desc.Size > hidMaxDescriptorSize {
		return DeviceInfo{}, false
	}
	if err := ioctl(fd, hidIocGRDesc, unsafe.Pointer(&desc)); err != nil {
		return DeviceInfo{}, false
	}
	if !hasReportID(desc.Value[:desc.Size], reportID) {
		return DeviceInfo{}, false
	}

	return DeviceInfo{Path: path, VendorID: vendor, ProductID: product, Name: name}, true
}

func ioctl(fd int, request uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), request, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Exchange writes one report and blocks for its reply, skipping interleaved
// reports that do not carry the configuration report ID.
func (t *hidrawTransport) Exchange(frame [frameSize]byte) ([frameSize]byte, error) {
	var resp [frameSize]byte

	frame[0] = reportID
	if n, err := unix.Write(t.fd, frame[:]); err != nil {
		return resp, &TransportError{Op: "write", Err: err}
	} else if n != frameSize {
		return resp, &TransportError{Op: "write", Err: fmt.Errorf("short write (%d of %d bytes)", n, frameSize)}
	}

	for i := 0; i < maxResponseSkips; i++ {
		ready, err := t.wait()
		if err != nil {
			return resp, err
		}
		if !ready {
			return resp, &TransportError{Op: "read", Err: os.ErrDeadlineExceeded}
		}

		buf := make([]byte, frameSize)
		n, err := unix.Read(t.fd, buf)
		if err != nil {
			return resp, &TransportError{Op: "read", Err: err}
		}
		if n != frameSize || buf[0] != reportID {
			continue // not ours
		}
		copy(resp[:], buf)
		return resp, nil
	}

	return resp, &TransportError{Op: "read", Err: ErrNoResponse}
}

// wait polls the device until it is readable or the timeout elapses.
func (t *hidrawTransport) wait() (bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(t.timeout.Milliseconds()))
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return false, &TransportError{Op: "poll", Err: err}
		}
		return n > 0, nil
	}
}

func (t *hidrawTransport) Close() error {
	return unix.Close(t.fd)
}
