package capture

import (
	"image"
	"sync"
)

// RawFrame is one captured frame as delivered by the backend: an RGBA pixel
// buffer whose rows may carry stride padding. The holder must Release the
// frame to return its buffer slot to the backend.
type RawFrame struct {
	Pix         []byte
	Width       int
	Height      int
	PixelStride int // bytes per pixel
	RowStride   int // bytes per row, >= PixelStride*Width

	releaseOnce sync.Once
	release     func()
}

// NewRawFrame wraps a backend buffer. release may be nil.
func NewRawFrame(pix []byte, width, height, pixelStride, rowStride int, release func()) *RawFrame {
	return &RawFrame{
		Pix:         pix,
		Width:       width,
		Height:      height,
		PixelStride: pixelStride,
		RowStride:   rowStride,
		release:     release,
	}
}

// Release returns the frame's buffer slot to the backend. Idempotent.
func (f *RawFrame) Release() {
	f.releaseOnce.Do(func() {
		if f.release != nil {
			f.release()
		}
	})
}

// ToRGBA copies the frame into a dense image, stripping row padding.
// Returns ErrDecodeFailed when the buffer is inconsistent with its stride.
func (f *RawFrame) ToRGBA() (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 || f.PixelStride != 4 {
		return nil, ErrDecodeFailed
	}
	rowBytes := f.PixelStride * f.Width
	if f.RowStride < rowBytes {
		return nil, ErrDecodeFailed
	}
	need := f.RowStride*(f.Height-1) + rowBytes
	if len(f.Pix) < need {
		return nil, ErrDecodeFailed
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.RowStride : y*f.RowStride+rowBytes]
		dst := img.Pix[y*img.Stride : y*img.Stride+rowBytes]
		copy(dst, src)
	}
	return img, nil
}
