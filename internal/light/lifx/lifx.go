package lifx

import (
	"context"
	"fmt"
	"time"

	"github.com/pdf/golifx"
	"github.com/pdf/golifx/common"
	"github.com/pdf/golifx/protocol"
	"go.uber.org/zap"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/light"
	"github.com/marsfan/busylight/internal/logging"
)

var logger = logging.New("lifx")

const (
	discoveryInterval = 15 * time.Second
	fadeDuration      = 50 * time.Millisecond
	kelvin            = 3500
)

// Finder wraps a LAN discovery client and hands out light handles for
// every LIFX bulb it currently knows about.
type Finder struct {
	client *golifx.Client
}

func NewFinder() (*Finder, error) {
	client, err := golifx.NewClient(&protocol.V2{})
	if err != nil {
		return nil, fmt.Errorf("lifx client: %w", err)
	}
	_ = client.SetDiscoveryInterval(discoveryInterval)
	return &Finder{client: client}, nil
}

func (f *Finder) Find(_ context.Context) ([]light.Light, error) {
	devices, err := f.client.GetLights()
	if err != nil {
		// nothing discovered yet is a normal early state
		logger.With(zap.Error(err)).Debug("No LIFX lights known yet")
		return nil, nil
	}

	found := make([]light.Light, 0, len(devices))
	for _, d := range devices {
		label, err := d.GetLabel()
		if err != nil {
			logger.With(zap.Uint64("id", d.ID()), zap.Error(err)).
				Warn("Skipping LIFX light that did not report a label")
			continue
		}
		found = append(found, &lifxLight{
			client: f.client,
			device: d,
			id:     fmt.Sprintf("lifx:%016x", d.ID()),
			name:   label,
		})
	}
	return found, nil
}

func (f *Finder) Close() error {
	return f.client.Close()
}

type lifxLight struct {
	light.TaskRunner

	client *golifx.Client
	device common.Light
	id     string
	name   string
}

func (l *lifxLight) ID() string { return l.id }

func (l *lifxLight) Name() string { return l.name }

func (l *lifxLight) SetColor(c color.Color) error {
	hue, saturation, brightness := c.HSB()
	lifxColor := common.Color{
		Hue:        hue,
		Saturation: saturation,
		Brightness: brightness,
		Kelvin:     kelvin,
	}

	if err := l.device.SetPower(true); err != nil {
		return fmt.Errorf("%s: %v: %w", l.name, err, light.ErrUnavailable)
	}
	if err := l.device.SetColor(lifxColor, fadeDuration); err != nil {
		return fmt.Errorf("%s: %v: %w", l.name, err, light.ErrUnavailable)
	}
	return nil
}

func (l *lifxLight) TurnOff() error {
	if err := l.device.SetPowerDuration(false, fadeDuration); err != nil {
		return fmt.Errorf("%s: %v: %w", l.name, err, light.ErrUnavailable)
	}
	return nil
}

func (l *lifxLight) IsPluggedIn() bool {
	_, err := l.client.GetLightByID(l.device.ID())
	return err == nil
}

func (l *lifxLight) IsUnplugged() bool {
	return !l.IsPluggedIn()
}

// Close is a no-op; the shared discovery client owns the socket.
func (l *lifxLight) Close() error {
	return nil
}
