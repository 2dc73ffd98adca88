package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"unsafe"
)

// Windows transport over the native HID APIs (hid.dll + setupapi.dll).
// Discovery enumerates the HID device interface class and matches
// vendor/product attributes; the configuration endpoint lives on its own
// USB interface, identified by the mi_XX component of the device path.

var (
	hidDLL   = syscall.NewLazyDLL("hid.dll")
	setupapi = syscall.NewLazyDLL("setupapi.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	hidDGetHidGuid                  = hidDLL.NewProc("HidD_GetHidGuid")
	hidDGetAttributes               = hidDLL.NewProc("HidD_GetAttributes")
	setupDiGetClassDevs             = setupapi.NewProc("SetupDiGetClassDevsW")
	setupDiEnumDeviceInterfaces     = setupapi.NewProc("SetupDiEnumDeviceInterfaces")
	setupDiGetDeviceInterfaceDetail = setupapi.NewProc("SetupDiGetDeviceInterfaceDetailW")
	setupDiDestroyDeviceInfoList    = setupapi.NewProc("SetupDiDestroyDeviceInfoList")
	createFile                      = kernel32.NewProc("CreateFileW")
	closeHandle                     = kernel32.NewProc("CloseHandle")
	writeFile                       = kernel32.NewProc("WriteFile")
	readFile                        = kernel32.NewProc("ReadFile")
)

const (
	digcfPresent         = 0x00000002
	digcfDeviceInterface = 0x00000010
	invalidHandleValue   = ^uintptr(0)
	genericRead          = 0x80000000
	genericWrite         = 0x40000000
	fileShareRead        = 0x00000001
	fileShareWrite       = 0x00000002
	openExisting         = 3

	// USB interface carrying the vendor configuration collection.
	configInterfaceNumber = 1
)

type guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

type spDeviceInterfaceData struct {
	cbSize             uint32
	interfaceClassGuid guid
	flags              uint32
	reserved           uintptr
}

type spDeviceInterfaceDetailData struct {
	cbSize     uint32
	devicePath [1]uint16
}

type hiddAttributes struct {
	Size          uint32
	VendorID      uint16
	ProductID     uint16
	VersionNumber uint16
}

type windowsTransport struct {
	handle syscall.Handle
	path   string
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

	handle, err := openDeviceHandle(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &windowsTransport{handle: handle, path: path}, nil
}

// listDevices enumerates HID interfaces and returns the compatible
// configuration interfaces.
func listDevices() ([]DeviceInfo, error) {
	var hidGuid guid
	hidDGetHidGuid.Call(uintptr(unsafe.Pointer(&hidGuid)))

	hDevInfo, _, _ := setupDiGetClassDevs.Call(
		uintptr(unsafe.Pointer(&hidGuid)),
		0,
		0,
		digcfPresent|digcfDeviceInterface,
	)
	if hDevInfo == invalidHandleValue {
		return nil, errors.New("failed to enumerate HID devices")
	}
	defer setupDiDestroyDeviceInfoList.Call(hDevInfo)

	var devices []DeviceInfo
	for index := uint32(0); ; index++ {
		var ifaceData spDeviceInterfaceData
		ifaceData.cbSize = uint32(unsafe.Sizeof(ifaceData))

		ret, _, _ := setupDiEnumDeviceInterfaces.Call(
			hDevInfo,
			0,
			uintptr(unsafe.Pointer(&hidGuid)),
			uintptr(index),
			uintptr(unsafe.Pointer(&ifaceData)),
		)
		if ret == 0 {
			break
		}

		var requiredSize uint32
		setupDiGetDeviceInterfaceDetail.Call(
			hDevInfo,
			uintptr(unsafe.Pointer(&ifaceData)),
			0,
			0,
			uintptr(unsafe.Pointer(&requiredSize)),
			0,
		)

		detailBuf := make([]byte, requiredSize)
		detail := (*spDeviceInterfaceDetailData)(unsafe.Pointer(&detailBuf[0]))
		detail.cbSize = uint32(unsafe.Sizeof(spDeviceInterfaceDetailData{}))

		ret, _, _ = setupDiGetDeviceInterfaceDetail.Call(
			hDevInfo,
			uintptr(unsafe.Pointer(&ifaceData)),
			uintptr(unsafe.Pointer(detail)),
			uintptr(requiredSize),
			0,
			0,
		)
		if ret == 0 {
			continue
		}

		path := syscall.UTF16ToString((*[512]uint16)(unsafe.Pointer(&detail.devicePath[0]))[:512])
		if info, ok := probeDevice(path); ok {
			devices = append(devices, info)
		}
	}
	return devices, nil
}

// probeDevice checks whether path is a supported mouse's configuration
// interface.
func probeDevice(path string) (DeviceInfo, bool) {
	if extractInterfaceNumber(path) != configInterfaceNumber {
		return DeviceInfo{}, false
	}

	handle, err := openDeviceHandle(path)
	if err != nil {
		return DeviceInfo{}, false
	}
	defer closeHandle.Call(uintptr(handle))

	var attrs hiddAttributes
	attrs.Size = uint32(unsafe.Sizeof(attrs))
	ret, _, _ := hidDGetAttributes.Call(uintptr(handle), uintptr(unsafe.Pointer(&attrs)))
	if ret == 0 {
		return DeviceInfo{}, false
	}

	name, ok := supportedProducts[attrs.ProductID]
	if attrs.VendorID != lamzuVendorID || !ok {
		return DeviceInfo{}, false
	}
	return DeviceInfo{Path: path, VendorID: attrs.VendorID, ProductID: attrs.ProductID, Name: name}, true
}

// extractInterfaceNumber parses the mi_XX component out of a HID device
// path, e.g. \\?\hid#vid_3554&pid_f50d&mi_01&col01#...
func extractInterfaceNumber(devicePath string) int {
	miIndex := strings.Index(strings.ToLower(devicePath), "&mi_")
	if miIndex == -1 {
		return -1
	}
	start := miIndex + 4
	if start+2 > len(devicePath) {
		return -1
	}
	n, err := strconv.ParseInt(devicePath[start:start+2], 16, 32)
	if err != nil {
		return -1
	}
	return int(n)
}

func openDeviceHandle(devicePath string) (syscall.Handle, error) {
	pathPtr, err := syscall.UTF16PtrFromString(devicePath)
	if err != nil {
		return syscall.InvalidHandle, err
	}

	handle, _, _ := createFile.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		genericRead|genericWrite,
		fileShareRead|fileShareWrite,
		0,
		openExisting,
		0,
		0,
	)
	if handle == invalidHandleValue {
		return syscall.InvalidHandle, errors.New("failed to open device")
	}
	return syscall.Handle(handle), nil
}

// Exchange writes one report and blocks for its reply, skipping interleaved
// reports that do not carry the configuration report ID.
func (t *windowsTransport) Exchange(frame [frameSize]byte) ([frameSize]byte, error) {
	var resp [frameSize]byte
	if t.handle == syscall.InvalidHandle {
		return resp, &TransportError{Op: "write", Err: errors.New("device not open")}
	}

	frame[0] = reportID
	var written uint32
	ret, _, err := writeFile.Call(
		uintptr(t.handle),
		uintptr(unsafe.Pointer(&frame[0])),
		uintptr(frameSize),
		uintptr(unsafe.Pointer(&written)),
		0,
	)
	if ret == 0 {
		return resp, &TransportError{Op: "write", Err: err}
	}
	if written != frameSize {
		return resp, &TransportError{Op: "write", Err: fmt.Errorf("short write (%d of %d bytes)", written, frameSize)}
	}

	for i := 0; i < maxResponseSkips; i++ {
		buf := make([]byte, frameSize)
		var read uint32
		ret, _, err := readFile.Call(
			uintptr(t.handle),
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(frameSize),
			uintptr(unsafe.Pointer(&read)),
			0,
		)
		if ret == 0 {
			return resp, &TransportError{Op: "read", Err: err}
		}
		if read != frameSize || buf[0] != reportID {
			continue // not ours
		}
		copy(resp[:], buf)
		return resp, nil
	}

	return resp, &TransportError{Op: "read", Err: ErrNoResponse}
}

func (t *windowsTransport) Close() error {
	if t.handle != syscall.InvalidHandle {
		closeHandle.Call(uintptr(t.handle))
		t.handle = syscall.InvalidHandle
	}
	return nil
}
