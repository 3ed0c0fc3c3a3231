// Package transport owns the single physical connection to a printer
// and serializes every job through it. Exactly three points in a print
// observe cancellation: fetching an image during lowering (handled
// upstream, in document), the inter-sub-program pause, and the
// blocking sink write itself.
package transport

import (
	"io"
	"net"
	"os"

	"go.bug.st/serial"
	"golang.org/x/sys/unix"

	"github.com/inkwell-labs/thermaldoc/xerr"
)

// Sink is anything that accepts a finished byte stream for one
// sub-program. Write should return only once the bytes are handed to
// the device or have failed; the sinks in this package make a single
// write attempt and do not retry.
type Sink interface {
	Write(p []byte) (int, error)
	Close() error
}

// SerialSink writes to a serial port opened at printer defaults: 8
// data bits, no parity, one stop bit.
//
// Lifted from sschueller-xp-d463b-pdf-printer's openSerialPort.
type SerialSink struct {
	port io.ReadWriteCloser
}

// OpenSerial opens path (e.g. "/dev/ttyUSB0") at baudRate.
func OpenSerial(path string, baudRate int) (*SerialSink, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(path, mode)
	if err != nil {
		return nil, xerr.DeviceUnavailable(err)
	}
	return &SerialSink{port: p}, nil
}

func (s *SerialSink) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	if err != nil {
		return n, xerr.DeviceUnavailable(err)
	}
	return n, nil
}

func (s *SerialSink) Close() error { return s.port.Close() }

// BluetoothSink writes to an RFCOMM socket connected to a paired
// printer's MAC address.
//
// Lifted from sschueller-xp-d463b-pdf-printer's openBluetoothSocket:
// raw AF_BLUETOOTH/BTPROTO_RFCOMM socket, MAC reversed to little-endian
// for SockaddrRFCOMM, fd wrapped as an *os.File for io.ReadWriteCloser.
type BluetoothSink struct {
	conn io.ReadWriteCloser
}

// OpenBluetooth connects to mac (format "XX:XX:XX:XX:XX:XX") on the
// given RFCOMM channel (1 for most receipt printers).
func OpenBluetooth(mac string, channel int) (*BluetoothSink, error) {
	hw, err := net.ParseMAC(mac)
	if err != nil || len(hw) != 6 {
		return nil, xerr.InvalidParam("transport", "mac", "not a 6-byte MAC address")
	}
	var addr [6]byte
	for i := 0; i < 6; i++ {
		addr[i] = hw[5-i]
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, xerr.DeviceUnavailable(err)
	}
	sa := &unix.SockaddrRFCOMM{Addr: addr, Channel: uint8(channel)}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, xerr.DeviceUnavailable(err)
	}
	return &BluetoothSink{conn: os.NewFile(uintptr(fd), "bluetooth")}, nil
}

func (b *BluetoothSink) Write(p []byte) (int, error) {
	n, err := b.conn.Write(p)
	if err != nil {
		return n, xerr.DeviceUnavailable(err)
	}
	return n, nil
}

func (b *BluetoothSink) Close() error { return b.conn.Close() }
