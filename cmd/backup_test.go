package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNormalizeTables(t *testing.T) {
	got := normalizeTables([]string{" Words ", "", "REVIEWS"})
	if strings.Join(got, ",") != "words,reviews" {
		t.Fatalf("normalizeTables = %v", got)
	}
	if normalizeTables([]string{" ", ""}) != nil {
		t.Fatal("blank entries should normalize to nil")
	}
}

func TestCLIProgress(t *testing.T) {
	var out bytes.Buffer
	p := newCLIProgress(&out)
	p.StartTable("words", 3)
	p.Increment("words", 1)
	p.Increment("words", 2)
	p.FinishTable("words")

	text := out.String()
	for _, want := range []string{"words: 3 rows to export", "words: 1/3 rows", "words: 3/3 rows", "words: done, 3/3 rows"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestCLIProgressIgnoresOtherTables(t *testing.T) {
	var out bytes.Buffer
	p := newCLIProgress(&out)
	p.StartTable("reviews", 0)
	p.Increment("words", 5)
	p.FinishTable("reviews")
	if !strings.Contains(out.String(), "reviews: done, 0 rows") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestDefaultExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	if got := defaultExportFilename(true, now); got != "nekowords-backup-20240309-140506.jsonl.gz" {
		t.Fatalf("defaultExportFilename = %q", got)
	}
}

func TestCloseStackOrder(t *testing.T) {
	var order []string
	var stack closeStack
	stack.push(func() error { order = append(order, "file"); return nil })
	stack.push(func() error { order = append(order, "gzip"); return nil })
	if err := stack.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if strings.Join(order, ",") != "gzip,file" {
		t.Fatalf("close order = %v", order)
	}
}

func TestProgressStep(t *testing.T) {
	cases := map[int]int{0: 1000, 10: 1, 400: 20, 1_000_000: 1000}
	for total, want := range cases {
		if got := progressStep(total); got != want {
			t.Fatalf("progressStep(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestImportTally(t *testing.T) {
	tally := importTally{}
	if tally.String() != "nothing" {
		t.Fatalf("empty tally = %q", tally.String())
	}
	tally.Increment("words", 2)
	tally.Increment("reviews", 2)
	tally.Increment("words", 1)
	if got := tally.String(); got != "2 reviews, 3 words" {
		t.Fatalf("tally = %q", got)
	}
}
