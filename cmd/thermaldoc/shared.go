package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	thermaldoc "github.com/inkwell-labs/thermaldoc"
	"github.com/inkwell-labs/thermaldoc/transport"
)

// defaultBaudRate matches the teacher pack's serial thermal printers
// (sschueller-xp-d463b-pdf-printer's openSerialPort default).
const defaultBaudRate = 9600

// openDevice opens a transport sink for path: a MAC address
// ("AA:BB:CC:DD:EE:FF") dials Bluetooth RFCOMM channel 1, anything
// else opens it as a serial device path.
func openDevice(path string) (transport.Sink, error) {
	if _, err := net.ParseMAC(path); err == nil {
		slog.Debug("opening bluetooth sink", "mac", path)
		return transport.OpenBluetooth(path, 1)
	}
	slog.Debug("opening serial sink", "path", path, "baud", defaultBaudRate)
	return transport.OpenSerial(path, defaultBaudRate)
}

// newCore builds a Core, wiring a transport to device when non-empty.
// Commands that only render to PNG never need a device and may pass "".
func newCore(device string) (*thermaldoc.Core, error) {
	core := thermaldoc.NewCore()
	if device == "" {
		return core, nil
	}
	sink, err := openDevice(device)
	if err != nil {
		return nil, err
	}
	core.Transport = transport.New(sink)
	return core, nil
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
