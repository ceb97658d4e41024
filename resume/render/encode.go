package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// DataURIPrefix precedes the base64 payload of an encoded resume.
const DataURIPrefix = "data:image/png;base64,"

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI wraps PNG bytes as a data:image/png;base64 URI.
func DataURI(pngBytes []byte) string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes)
}
