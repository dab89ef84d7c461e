package utils

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256 // px, square

// QRCodeDataURL renders content as a scannable PNG wrapped in a data URL,
// ready to drop into an <img> tag. Nothing is written to disk or object
// storage; the artifact is regenerated on every request.
func QRCodeDataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
