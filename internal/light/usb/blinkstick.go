package usb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sstallion/go-hid"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/light"
)

const (
	blinkStickVendorID  = 0x20A0
	blinkStickProductID = 0x41E5
)

// report selects the feature report used to address a stick's LEDs.
type report byte

const (
	reportSingle report = 1
	reportLeds8  report = 6
	reportLeds16 report = 7
	reportLeds32 report = 8
	reportLeds64 report = 9
)

func reportForLeds(n int) (report, error) {
	switch {
	case n == 1:
		return reportSingle, nil
	case n <= 8:
		return reportLeds8, nil
	case n <= 16:
		return reportLeds16, nil
	case n <= 32:
		return reportLeds32, nil
	case n <= 64:
		return reportLeds64, nil
	}
	return 0, fmt.Errorf("no report addresses %d leds", n)
}

// blinkStickType is the model number a BlinkStick reports.
type blinkStickType uint16

var blinkStickNames = map[blinkStickType]string{
	0x001: "BlinkStick",
	0x002: "BlinkStick Pro",
	0x200: "BlinkStick Square",
	0x201: "BlinkStick Strip",
	0x202: "BlinkStick Nano",
	0x203: "BlinkStick Flex",
}

var blinkStickLeds = map[blinkStickType]int{
	0x001: 1,
	0x002: 192,
	0x200: 8,
	0x201: 8,
	0x202: 2,
	0x203: 32,
}

// identifyBlinkStick derives the model from the serial's major number
// ("BS012345-2.0" reports major 2), falling back to the USB release
// number for models that encode it there.
func identifyBlinkStick(serial string, release uint16) (blinkStickType, error) {
	if i := strings.LastIndex(serial, "-"); i >= 0 {
		major := strings.SplitN(serial[i+1:], ".", 2)[0]
		if v, err := strconv.ParseUint(major, 10, 16); err == nil {
			if t := blinkStickType(v); blinkStickLeds[t] > 0 {
				return t, nil
			}
		}
	}
	if t := blinkStickType(release); blinkStickLeds[t] > 0 {
		return t, nil
	}
	return 0, fmt.Errorf("unsupported BlinkStick (serial %q, release %#x)", serial, release)
}

func wrapBlinkStick(info *hid.DeviceInfo, dev *hid.Device) (light.Light, error) {
	t, err := identifyBlinkStick(info.SerialNbr, info.ReleaseNbr)
	if err != nil {
		return nil, err
	}
	nleds := blinkStickLeds[t]
	rep, err := reportForLeds(nleds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", blinkStickNames[t], err)
	}

	return &hidLight{
		name:      blinkStickNames[t],
		path:      info.Path,
		vendorID:  blinkStickVendorID,
		productID: blinkStickProductID,
		feature:   true,
		encode:    blinkStickFrame(rep, nleds),
		dev:       dev,
	}, nil
}

// blinkStickFrame builds the feature report for one color. Single-LED
// sticks take RGB in report 1; multi-LED models take a channel byte
// followed by one GRB triple per LED.
func blinkStickFrame(rep report, nleds int) func(color.Color) []byte {
	if rep == reportSingle {
		return func(c color.Color) []byte {
			return []byte{byte(rep), c.Red, c.Green, c.Blue}
		}
	}
	return func(c color.Color) []byte {
		buf := make([]byte, 2+3*nleds)
		buf[0] = byte(rep)
		for i := 0; i < nleds; i++ {
			buf[2+3*i] = c.Green
			buf[3+3*i] = c.Red
			buf[4+3*i] = c.Blue
		}
		return buf
	}
}
