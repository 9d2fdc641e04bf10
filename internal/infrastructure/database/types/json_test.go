package types

import (
	"testing"
	"time"

	"github.com/jyokotori/neko-words/internal/entity"
)

func TestHistoryScanSources(t *testing.T) {
	raw := `[{"date":"2025-01-02T03:04:05Z","grade":"good","interval":6,"ease":2.5}]`
	for _, src := range []any{raw, []byte(raw)} {
		var h History
		if err := h.Scan(src); err != nil {
			t.Fatalf("scan %T: %v", src, err)
		}
		if len(h) != 1 || h[0].Grade != entity.GradeGood || h[0].Interval != 6 {
			t.Fatalf("unexpected history %+v", h)
		}
		if !h[0].Date.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Fatalf("unexpected date %v", h[0].Date)
		}
	}

	var empty History
	if err := empty.Scan(nil); err != nil || empty != nil {
		t.Fatalf("nil source should leave history empty: %v %v", empty, err)
	}
	if err := empty.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported source")
	}
}

func TestExamplesValue(t *testing.T) {
	v, err := Examples(nil).Value()
	if err != nil || string(v.([]byte)) != "[]" {
		t.Fatalf("nil examples should encode as [], got %v %v", v, err)
	}
	v, err = Examples{{Sentence: "Hi.", Translation: "Salut."}}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var back Examples
	if err := back.Scan(v); err != nil || len(back) != 1 || back[0].Translation != "Salut." {
		t.Fatalf("round trip failed: %+v %v", back, err)
	}
}
