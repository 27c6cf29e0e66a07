package engine

import (
	"fmt"
	"log/slog"
	"time"

	"go.bug.st/serial"
)

// Trigger lines wired to the EEG recorder, one event class per line.
const (
	LineCue      = "1"
	LineImpulse  = "2"
	LinePrompt   = "3"
	LineResponse = "4"
)

const triggerPulseMS = 5

// DLPIO8G drives a DLP-IO8-G USB line driver used to mark stimulus events in
// a concurrent EEG recording. All methods are safe on a correctly opened
// device; a nil *DLPIO8G is simply not used by callers.
type DLPIO8G struct {
	port serial.Port
	log  *slog.Logger
}

func NewDLPIO8G(device string, baudrate int, log *slog.Logger) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: baudrate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}

	d := &DLPIO8G{port: port, log: log}

	// Ping
	if _, err := port.Write([]byte{0x27}); err != nil {
		port.Close()
		return nil, err
	}
	buf := make([]byte, 1)
	n, err := port.Read(buf)
	if err != nil || n != 1 || buf[0] != 'Q' {
		port.Close()
		return nil, fmt.Errorf("device did not respond to ping correctly")
	}

	// Binary mode
	if _, err := port.Write([]byte{0x5C}); err != nil {
		port.Close()
		return nil, err
	}

	return d, nil
}

func (d *DLPIO8G) Close() {
	if d.port != nil {
		d.port.Close()
	}
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{0x27}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == 'Q'
}

// Set raises the given output lines.
func (d *DLPIO8G) Set(lines string) {
	if _, err := d.port.Write([]byte(lines)); err != nil {
		d.log.Warn("trigger set failed", "lines", lines, "error", err)
	}
}

// Unset drops the given output lines. The clear command for line N is the
// letter on the same key column of the device protocol.
func (d *DLPIO8G) Unset(lines string) {
	cmd := []byte(lines)
	for i := range cmd {
		switch cmd[i] {
		case '1':
			cmd[i] = 'Q'
		case '2':
			cmd[i] = 'W'
		case '3':
			cmd[i] = 'E'
		case '4':
			cmd[i] = 'R'
		case '5':
			cmd[i] = 'T'
		case '6':
			cmd[i] = 'Y'
		case '7':
			cmd[i] = 'U'
		case '8':
			cmd[i] = 'I'
		}
	}
	if _, err := d.port.Write(cmd); err != nil {
		d.log.Warn("trigger unset failed", "lines", lines, "error", err)
	}
}

func (d *DLPIO8G) Delay(ms int) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// Pulse raises a line for a few milliseconds and drops it again, marking one
// event in the recording.
func (d *DLPIO8G) Pulse(line string) {
	d.Set(line)
	d.Delay(triggerPulseMS)
	d.Unset(line)
}
