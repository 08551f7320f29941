package platform

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
	c "lautenbacher.net/luxmon/config"
)

// RPiPlatform drives the real hardware: an MCP3208 ADC on SPI0 for the light
// sensor, one GPIO pin for the alarm output and an HD44780 character display
// in 4 bit mode.
type RPiPlatform struct {
	config    *c.Config
	spiMutex  sync.Mutex
	alarmPin  rpio.Pin
	lcd       *hd44780
	readyChan chan bool
}

func NewRPiPlatform(conf *c.Config) *RPiPlatform {
	return &RPiPlatform{
		config:    conf,
		readyChan: make(chan bool),
	}
}

func (p *RPiPlatform) Start() error {
	slog.Info("Initialise GPIO and SPI...")
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(p.config.Hardware.SPIFrequency)

	p.alarmPin = rpio.Pin(p.config.Hardware.AlarmPin)
	p.alarmPin.Output()
	p.alarmPin.Low()

	p.lcd = newHD44780(p.config.Hardware.Lcd, p.config.Display.Columns)
	p.lcd.init()

	close(p.readyChan)
	return nil
}

func (p *RPiPlatform) Stop() {
	p.alarmPin.Low()
	rpio.SpiEnd(rpio.Spi0)
	if err := rpio.Close(); err != nil {
		slog.Error("Error closing rpio", "error", err)
	}
}

func (p *RPiPlatform) Ready() <-chan bool {
	return p.readyChan
}

// ReadIntensity reads one 12 bit sample from the configured ADC channel.
func (p *RPiPlatform) ReadIntensity() int {
	p.spiMutex.Lock()
	defer p.spiMutex.Unlock()
	ch := p.config.Hardware.AdcChannel
	data := []byte{0x06 | (ch >> 2), ch << 6, 0}
	rpio.SpiExchange(data)
	return ((int(data[1]) & 0x0F) << 8) | int(data[2])
}

func (p *RPiPlatform) Render(line1, line2 string) {
	p.lcd.render(line1, line2)
}

func (p *RPiPlatform) SetAlarm(on bool) {
	if on {
		p.alarmPin.High()
	} else {
		p.alarmPin.Low()
	}
}
