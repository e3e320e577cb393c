package ocr

import (
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
	"time"
)

// stubRecognizer fires scripted callbacks, possibly several times.
type stubRecognizer struct {
	deliver func(onResult func([]string), onErr func(error))
}

func (s *stubRecognizer) Process(_ image.Image, onResult func([]string), onErr func(error)) {
	s.deliver(onResult, onErr)
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func TestExtractTextPreservesOrderAndDuplicates(t *testing.T) {
	rec := &stubRecognizer{deliver: func(onResult func([]string), _ func(error)) {
		onResult([]string{"첫 줄", "둘째 줄", "첫 줄", "  ", ""})
	}}
	b := NewBridge(rec)

	lines, err := b.ExtractText(context.Background(), testImage())
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	want := []string{"첫 줄", "둘째 줄", "첫 줄"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}

func TestExtractTextFailureDegradesToEmpty(t *testing.T) {
	rec := &stubRecognizer{deliver: func(_ func([]string), onErr func(error)) {
		onErr(errors.New("engine unavailable"))
	}}
	b := NewBridge(rec)

	lines, err := b.ExtractText(context.Background(), testImage())
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("lines = %q, want empty", lines)
	}
	if lines == nil {
		t.Error("degraded result should be an empty slice, not nil")
	}
}

func TestExtractTextFirstCompletionWins(t *testing.T) {
	rec := &stubRecognizer{deliver: func(onResult func([]string), onErr func(error)) {
		onResult([]string{"winner"})
		onErr(errors.New("late failure must be ignored"))
		onResult([]string{"late duplicate"})
	}}
	b := NewBridge(rec)

	lines, err := b.ExtractText(context.Background(), testImage())
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"winner"}) {
		t.Errorf("lines = %q, want [winner]", lines)
	}
}

func TestExtractTextCancellation(t *testing.T) {
	rec := &stubRecognizer{deliver: func(onResult func([]string), _ func(error)) {
		// Late delivery after cancellation must not panic or block.
		go func() {
			time.Sleep(20 * time.Millisecond)
			onResult([]string{"too late"})
		}()
	}}
	b := NewBridge(rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.ExtractText(ctx, testImage())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	time.Sleep(40 * time.Millisecond) // let the late callback fire
}
