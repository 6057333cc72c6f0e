package usb

import (
	"github.com/sstallion/go-hid"

	"github.com/marsfan/busylight/internal/color"
	"github.com/marsfan/busylight/internal/light"
)

const (
	luxaforVendorID  = 0x04D8
	luxaforProductID = 0xF372
)

func wrapLuxafor(info *hid.DeviceInfo, dev *hid.Device) (light.Light, error) {
	return &hidLight{
		name:      "Luxafor Flag",
		path:      info.Path,
		vendorID:  luxaforVendorID,
		productID: luxaforProductID,
		encode:    luxaforFrame,
		dev:       dev,
	}, nil
}

// luxaforFrame sets all LEDs in static-color mode. The leading zero is
// the report ID.
func luxaforFrame(c color.Color) []byte {
	return []byte{0x00, 0x01, 0xFF, c.Red, c.Green, c.Blue, 0x00, 0x00}
}
