// Package avatar turns a picked profile image into the data URL stored on
// an employee's details, and back into a small terminal preview.
package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	appErrors "onboard/internal/errors"
)

const (
	// MaxEdge is the longest side kept after downscaling.
	MaxEdge = 256
	// MaxFileBytes bounds the accepted upload.
	MaxFileBytes = 5 << 20

	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
)

// EncodeFile reads path and returns its data URL.
func EncodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", invalidImage(fmt.Sprintf("open image: %v", err), err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Encode(f)
}

// Encode accepts JPEG or PNG bytes, shrinks the image so neither side
// exceeds MaxEdge and returns a base64 data URL in the source format.
func Encode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return "", invalidImage(fmt.Sprintf("read image: %v", err), err)
	}
	if len(raw) == 0 {
		return "", invalidImage("image is empty", nil)
	}
	if len(raw) > MaxFileBytes {
		return "", invalidImage("image exceeds 5 MB", nil)
	}
	mime := http.DetectContentType(raw)
	if mime != mimeJPEG && mime != mimePNG {
		return "", invalidImage("only JPEG and PNG images are supported", nil)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", invalidImage(fmt.Sprintf("decode image: %v", err), err)
	}
	img = Fit(img, MaxEdge)

	var out bytes.Buffer
	switch mime {
	case mimeJPEG:
		err = jpeg.Encode(&out, img, &jpeg.Options{Quality: 85})
	default:
		err = png.Encode(&out, img)
	}
	if err != nil {
		return "", invalidImage(fmt.Sprintf("encode image: %v", err), err)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

// Fit scales img down, preserving aspect ratio, so that neither side is
// larger than maxEdge. Smaller images are returned unchanged.
func Fit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = max(1, h*maxEdge/w)
	} else {
		nw = max(1, w*maxEdge/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// Decode parses a data URL produced by Encode.
func Decode(dataURL string) (image.Image, string, error) {
	raw := strings.TrimSpace(dataURL)
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", invalidImage("invalid data url prefix", nil)
	}
	comma := strings.Index(raw, ",")
	if comma <= len("data:") {
		return nil, "", invalidImage("invalid data url payload", nil)
	}
	meta := raw[len("data:"):comma]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, "", invalidImage("data url must be base64", nil)
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if mime != mimeJPEG && mime != mimePNG {
		return nil, "", invalidImage("unsupported data url mime type", nil)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw[comma+1:])
	if err != nil {
		return nil, "", invalidImage("unable to decode data url", err)
	}
	img, _, err := image.Decode(bytes.NewReader(decoded))
	if err != nil {
		return nil, "", invalidImage(fmt.Sprintf("decode image: %v", err), err)
	}
	return img, mime, nil
}

func invalidImage(msg string, err error) error {
	return appErrors.New(appErrors.CodeInvalidImage, msg, err)
}
