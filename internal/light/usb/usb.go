package usb

import (
	"context"
	"fmt"
	"sync"

	"github.com/sstallion/go-hid"
	"go.uber.org/zap"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/light"
	"github.com/marsfan/busylight/internal/logging"
)

var logger = logging.New("usb")

// model describes one supported USB light product.
type model struct {
	vendorID  uint16
	productID uint16
	wrap      func(info *hid.DeviceInfo, dev *hid.Device) (light.Light, error)
}

var supported = []model{
	{vendorID: blinkStickVendorID, productID: blinkStickProductID, wrap: wrapBlinkStick},
	{vendorID: luxaforVendorID, productID: luxaforProductID, wrap: wrapLuxafor},
}

// Finder enumerates supported USB HID lights. Units that fail to open
// or identify are logged and skipped; they never fail the probe.
type Finder struct{}

func NewFinder() (*Finder, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("hidapi init: %w", err)
	}
	return &Finder{}, nil
}

func (f *Finder) Find(_ context.Context) ([]light.Light, error) {
	var found []light.Light
	for _, m := range supported {
		m := m
		err := hid.Enumerate(m.vendorID, m.productID, func(info *hid.DeviceInfo) error {
			dev, err := hid.OpenPath(info.Path)
			if err != nil {
				logger.With(zap.String("path", info.Path), zap.Error(err)).
					Warn("Could not open HID light")
				return nil
			}
			l, err := m.wrap(info, dev)
			if err != nil {
				dev.Close()
				logger.With(zap.String("path", info.Path), zap.Error(err)).
					Warn("Could not identify HID light")
				return nil
			}
			logger.With(zap.String("light", l.Name()), zap.String("path", info.Path)).
				Debug("Found HID light")
			found = append(found, l)
			return nil
		})
		if err != nil {
			// hidapi reports "none matched" the same way as a failed
			// enumeration
			logger.With(zap.Error(err)).Debug("HID enumeration returned nothing")
		}
	}
	return found, nil
}

func (f *Finder) Close() error {
	return hid.Exit()
}

// hidLight is the transport shared by every USB model: a frame encoder
// over an open HID handle. The mutex serializes report writes.
type hidLight struct {
	light.TaskRunner

	name      string
	path      string
	vendorID  uint16
	productID uint16
	feature   bool // write via feature reports instead of output reports
	encode    func(c color.Color) []byte

	mu  sync.Mutex
	dev *hid.Device
}

func (h *hidLight) ID() string { return h.path }

func (h *hidLight) Name() string { return h.name }

func (h *hidLight) SetColor(c color.Color) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dev == nil {
		return fmt.Errorf("%s: %w", h.name, light.ErrUnavailable)
	}

	var err error
	if h.feature {
		_, err = h.dev.SendFeatureReport(h.encode(c))
	} else {
		_, err = h.dev.Write(h.encode(c))
	}
	if err != nil {
		return fmt.Errorf("%s: %v: %w", h.name, err, light.ErrUnavailable)
	}
	return nil
}

func (h *hidLight) TurnOff() error {
	return h.SetColor(color.Black)
}

func (h *hidLight) IsPluggedIn() bool {
	present := false
	_ = hid.Enumerate(h.vendorID, h.productID, func(info *hid.DeviceInfo) error {
		if info.Path == h.path {
			present = true
		}
		return nil
	})
	return present
}

func (h *hidLight) IsUnplugged() bool {
	return !h.IsPluggedIn()
}

func (h *hidLight) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dev == nil {
		return nil
	}
	err := h.dev.Close()
	h.dev = nil
	return err
}
