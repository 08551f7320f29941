package platform

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	c "lautenbacher.net/luxmon/config"
)

// hd44780 is a minimal driver for the ubiquitous two-line character display,
// wired in 4 bit mode: one register-select pin, one enable pin and four data
// pins. Write-only, the R/W pin is assumed tied to ground.
type hd44780 struct {
	rs      rpio.Pin
	enable  rpio.Pin
	data    [4]rpio.Pin
	columns int
}

func newHD44780(cfg c.LcdConfig, columns int) *hd44780 {
	lcd := &hd44780{
		rs:      rpio.Pin(cfg.RSPin),
		enable:  rpio.Pin(cfg.EnablePin),
		columns: columns,
	}
	for i, pin := range cfg.DataPins {
		lcd.data[i] = rpio.Pin(pin)
	}
	return lcd
}

func (l *hd44780) init() {
	l.rs.Output()
	l.enable.Output()
	for _, pin := range l.data {
		pin.Output()
	}

	// Power-on reset sequence for 4 bit mode, per the datasheet.
	time.Sleep(50 * time.Millisecond)
	l.writeNibble(0x03)
	time.Sleep(5 * time.Millisecond)
	l.writeNibble(0x03)
	time.Sleep(150 * time.Microsecond)
	l.writeNibble(0x03)
	time.Sleep(150 * time.Microsecond)
	l.writeNibble(0x02)

	l.command(0x28) // 4 bit bus, two lines, 5x8 font
	l.command(0x0C) // display on, cursor off
	l.command(0x06) // cursor moves right, no shift
	l.clear()
}

func (l *hd44780) clear() {
	l.command(0x01)
	time.Sleep(2 * time.Millisecond)
}

// render replaces the full display contents with the two given lines.
func (l *hd44780) render(line1, line2 string) {
	l.command(0x80) // DDRAM address 0: line 1, column 0
	l.writeLine(line1)
	l.command(0xC0) // DDRAM address 0x40: line 2, column 0
	l.writeLine(line2)
}

func (l *hd44780) writeLine(line string) {
	if len(line) > l.columns {
		line = line[:l.columns]
	}
	for _, ch := range []byte(line) {
		l.write(ch)
	}
	// Pad to the full width so stale characters never linger.
	for i := len(line); i < l.columns; i++ {
		l.write(' ')
	}
}

func (l *hd44780) command(b byte) {
	l.rs.Low()
	l.writeByte(b)
}

func (l *hd44780) write(b byte) {
	l.rs.High()
	l.writeByte(b)
}

func (l *hd44780) writeByte(b byte) {
	l.writeNibble(b >> 4)
	l.writeNibble(b & 0x0F)
	time.Sleep(50 * time.Microsecond)
}

func (l *hd44780) writeNibble(n byte) {
	for i, pin := range l.data {
		if n&(1<<i) != 0 {
			pin.High()
		} else {
			pin.Low()
		}
	}
	l.pulseEnable()
}

func (l *hd44780) pulseEnable() {
	l.enable.High()
	time.Sleep(time.Microsecond)
	l.enable.Low()
	time.Sleep(time.Microsecond)
}
