// Package ocr adapts the text-recognition collaborator's callback completion
// into a single awaitable extraction call.
package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
)

// Recognizer is the opaque OCR collaborator: one decoded frame in, an
// ordered sequence of non-blank text lines (block-then-line traversal order)
// or a failure out, delivered through callbacks.
type Recognizer interface {
	Process(img image.Image, onResult func(lines []string), onErr func(err error))
}

// Bridge turns a Recognizer's success/failure callbacks into one suspension
// point per frame.
type Bridge struct {
	rec Recognizer
}

// NewBridge creates a bridge over the given recognizer.
func NewBridge(rec Recognizer) *Bridge {
	return &Bridge{rec: rec}
}

// ExtractText runs the recognizer over one frame and waits for the first
// completion. Both callbacks resolve the same single-shot slot; late or
// duplicate deliveries are ignored. Recognizer failure degrades to an empty
// result; transient OCR trouble must not abort the scan. The only error
// returned is the context's.
func (b *Bridge) ExtractText(ctx context.Context, img image.Image) ([]string, error) {
	type completion struct {
		lines []string
		err   error
	}

	done := make(chan completion, 1)
	resolve := func(c completion) {
		select {
		case done <- c:
		default: // already resolved; drop late delivery
		}
	}

	b.rec.Process(img,
		func(lines []string) { resolve(completion{lines: lines}) },
		func(err error) { resolve(completion{err: err}) },
	)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case c := <-done:
		if c.err != nil {
			fmt.Fprintf(os.Stderr, "screenguard: ocr failed, continuing with empty text: %v\n", c.err)
			return []string{}, nil
		}
		return dropBlank(c.lines), nil
	}
}

// dropBlank removes blank lines while preserving order and duplicates.
func dropBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
