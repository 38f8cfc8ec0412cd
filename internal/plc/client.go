package plc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"

	mm "motor_monitoring"
)

// Register addresses on the FX5U.
const (
	regVoltage uint16 = 100 // D100
	regTemp    uint16 = 102 // D102
)

const defaultTimeout = 3 * time.Second

// registerReader is the slice of the modbus client the poll path needs.
type registerReader interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
}

// Config is the transport configuration for the controller connection.
type Config struct {
	Endpoint string // host:port, e.g. "192.168.3.39:5007"
	UnitID   byte
	Timeout  time.Duration
}

// Client reads the controller's analog registers over Modbus TCP and
// converts them to physical units.
type Client struct {
	handler *modbus.TCPClientHandler
	conn    registerReader
}

// NewClient builds a client for the given endpoint. The underlying TCP
// connection is established lazily on the first read.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("plc: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	return &Client{
		handler: h,
		conn:    modbus.NewClient(h),
	}, nil
}

// Read polls D100 and D102 and returns a converted reading. Any transport
// failure aborts the whole cycle; partial readings are never returned.
func (c *Client) Read() (mm.ControllerReading, error) {
	rawV, err := c.readRegister(regVoltage)
	if err != nil {
		return mm.ControllerReading{}, fmt.Errorf("plc: read D%d: %w", regVoltage, err)
	}
	rawT, err := c.readRegister(regTemp)
	if err != nil {
		return mm.ControllerReading{}, fmt.Errorf("plc: read D%d: %w", regTemp, err)
	}

	return mm.ControllerReading{
		RawVoltage: rawV,
		RawTemp:    rawT,
		VoltageV:   VoltageFromRaw(int(rawV)),
		TempC:      TemperatureFromRaw(int(rawT)),
		At:         time.Now().UTC(),
	}, nil
}

// Close tears down the TCP connection if one was established.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

func (c *Client) readRegister(addr uint16) (uint16, error) {
	b, err := c.conn.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, err
	}
	if len(b) < 2 {
		return 0, fmt.Errorf("short register response: %d bytes", len(b))
	}
	return binary.BigEndian.Uint16(b[:2]), nil
}
