package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// fakeClient scripts the translation endpoint for tests. It records every
// request so call counts and batch composition can be asserted.
type fakeClient struct {
	calls []string
	fn    func(text string) (string, error)
}

func (f *fakeClient) Translate(ctx context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	return f.fn(text)
}

// fastOptions keeps the inter-call delays out of test runtime.
func fastOptions() Options {
	return Options{
		BatchDelay: time.Nanosecond,
		ItemDelay:  time.Nanosecond,
	}
}

// ---------------------------------------------------------------------------
// Partition
// ---------------------------------------------------------------------------

func TestPartition_RespectsBudget(t *testing.T) {
	items := []string{"aaaa", "bbbb", "cccc", "dddd"}
	batches := Partition(items, 10)

	// Each item counts 5 (4 runes + separator), so two fit per batch.
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}
	for _, b := range batches {
		size := 0
		for _, item := range b {
			size += utf8.RuneCountInString(item) + 1
		}
		if size > 10 {
			t.Errorf("batch %v exceeds budget: %d", b, size)
		}
	}
}

func TestPartition_PreservesOrderAndLosesNothing(t *testing.T) {
	items := []string{"one", "two", "three", "four", "five"}
	batches := Partition(items, 9)

	var flat []string
	for _, b := range batches {
		flat = append(flat, b...)
	}
	if len(flat) != len(items) {
		t.Fatalf("got %d items back, want %d", len(flat), len(items))
	}
	for i := range items {
		if flat[i] != items[i] {
			t.Errorf("item %d: %q, want %q", i, flat[i], items[i])
		}
	}
}

func TestPartition_OversizedItemFormsOwnBatch(t *testing.T) {
	big := strings.Repeat("x", 50)
	batches := Partition([]string{"short", big, "tail"}, 10)

	found := false
	for _, b := range batches {
		for _, item := range b {
			if item == big {
				found = true
				if len(b) != 1 {
					t.Errorf("oversized item shares a batch: %v", b)
				}
			}
		}
	}
	if !found {
		t.Error("oversized item was dropped")
	}
}

func TestPartition_CountsRunesNotBytes(t *testing.T) {
	// Four CJK runes are twelve bytes; a rune-based budget of 10 fits two
	// per batch, a byte-based one would not fit even one.
	items := []string{"立即转换", "按分类整理"}
	batches := Partition(items, 11)
	if len(batches) != 1 {
		t.Errorf("got %d batches, want 1", len(batches))
	}
}

// ---------------------------------------------------------------------------
// TranslateAll: cache interaction
// ---------------------------------------------------------------------------

func TestTranslateAll_WarmCacheMakesNoCalls(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) {
		return "", errors.New("must not be called")
	}}
	tr := New(fc, fastOptions())

	cache := map[string]string{"Hello.": "你好。", "Bye.": "再见。"}
	got := tr.TranslateAll(context.Background(), []string{"Hello.", "Bye."}, cache)

	if len(fc.calls) != 0 {
		t.Errorf("warm cache triggered %d calls", len(fc.calls))
	}
	if got["Hello."] != "你好。" || got["Bye."] != "再见。" {
		t.Errorf("cache contents changed: %v", got)
	}
}

func TestTranslateAll_NeverOverwritesExistingEntries(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		return "NEW:" + text, nil
	}}
	tr := New(fc, fastOptions())

	cache := map[string]string{"Hello.": "你好。"}
	got := tr.TranslateAll(context.Background(), []string{"Hello.", "Fresh."}, cache)

	if got["Hello."] != "你好。" {
		t.Errorf("existing entry overwritten: %q", got["Hello."])
	}
	if got["Fresh."] != "NEW:Fresh." {
		t.Errorf("miss not translated: %q", got["Fresh."])
	}
}

func TestTranslateAll_NilCache(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		return text, nil
	}}
	tr := New(fc, fastOptions())

	got := tr.TranslateAll(context.Background(), []string{"a"}, nil)
	if got == nil {
		t.Fatal("returned nil map")
	}
	if _, ok := got["a"]; !ok {
		t.Error("miss not inserted into fresh map")
	}
}

// ---------------------------------------------------------------------------
// TranslateAll: batch path and fallbacks
// ---------------------------------------------------------------------------

func TestTranslateAll_BatchAligned(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		parts := strings.Split(text, Separator)
		for i, p := range parts {
			parts[i] = "  译:" + p + "  " // padded to exercise trimming
		}
		return strings.Join(parts, Separator), nil
	}}
	tr := New(fc, fastOptions())

	got := tr.TranslateAll(context.Background(), []string{"one", "two", "three"}, nil)

	if len(fc.calls) != 1 {
		t.Fatalf("got %d calls, want 1 batch call", len(fc.calls))
	}
	for _, src := range []string{"one", "two", "three"} {
		if got[src] != "译:"+src {
			t.Errorf("%q -> %q, want %q", src, got[src], "译:"+src)
		}
	}
}

func TestTranslateAll_MismatchFallsBackPerItem(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		if strings.Contains(text, Separator) {
			// Endpoint collapsed the newlines: wrong segment count.
			return "mangled single line", nil
		}
		return "译:" + text, nil
	}}
	tr := New(fc, fastOptions())

	srcs := []string{"one", "two", "three"}
	got := tr.TranslateAll(context.Background(), srcs, nil)

	// One failed batch call plus one call per member.
	if len(fc.calls) != 1+len(srcs) {
		t.Fatalf("got %d calls, want %d", len(fc.calls), 1+len(srcs))
	}
	for _, src := range srcs {
		if got[src] != "译:"+src {
			t.Errorf("%q -> %q after fallback", src, got[src])
		}
	}
}

func TestTranslateAll_TransportErrorFallsBackPerItem(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		if strings.Contains(text, Separator) {
			return "", errors.New("connection reset")
		}
		return "译:" + text, nil
	}}
	tr := New(fc, fastOptions())

	got := tr.TranslateAll(context.Background(), []string{"one", "two"}, nil)
	if got["one"] != "译:one" || got["two"] != "译:two" {
		t.Errorf("fallback did not translate members: %v", got)
	}
}

func TestTranslateAll_PerItemFailureKeepsOriginal(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		if text == "bad" || strings.Contains(text, Separator) {
			return "", errors.New("endpoint down")
		}
		return "译:" + text, nil
	}}
	tr := New(fc, fastOptions())

	got := tr.TranslateAll(context.Background(), []string{"good", "bad"}, nil)

	if got["good"] != "译:good" {
		t.Errorf("good item: %q", got["good"])
	}
	if got["bad"] != "bad" {
		t.Errorf("failed item not mapped to itself: %q", got["bad"])
	}
}

func TestTranslateAll_TotalOutageMapsEverythingToItself(t *testing.T) {
	fc := &fakeClient{fn: func(string) (string, error) {
		return "", errors.New("endpoint down")
	}}
	tr := New(fc, fastOptions())

	srcs := []string{"one", "two", "three"}
	got := tr.TranslateAll(context.Background(), srcs, nil)

	for _, src := range srcs {
		if got[src] != src {
			t.Errorf("%q -> %q, want identity", src, got[src])
		}
	}
}

// ---------------------------------------------------------------------------
// TranslateAll: persistence hook
// ---------------------------------------------------------------------------

func TestTranslateAll_PersistsAfterEveryBatch(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		return text, nil
	}}

	persisted := 0
	opts := fastOptions()
	opts.MaxBatchChars = 5 // "aaaa" counts 5, so one item per batch
	opts.Persist = func(m map[string]string) error {
		persisted++
		return nil
	}
	tr := New(fc, opts)

	tr.TranslateAll(context.Background(), []string{"aaaa", "bbbb", "cccc"}, nil)
	if persisted != 3 {
		t.Errorf("persist called %d times, want once per batch (3)", persisted)
	}
}

func TestTranslateAll_PersistErrorDoesNotAbort(t *testing.T) {
	fc := &fakeClient{fn: func(text string) (string, error) {
		return text, nil
	}}

	var reported []string
	opts := fastOptions()
	opts.Persist = func(map[string]string) error {
		return errors.New("disk full")
	}
	opts.OnError = func(format string, args ...any) {
		reported = append(reported, format)
	}
	tr := New(fc, opts)

	got := tr.TranslateAll(context.Background(), []string{"a", "b"}, nil)
	if len(got) != 2 {
		t.Errorf("run aborted on persist error: %v", got)
	}
	if len(reported) == 0 {
		t.Error("persist error not reported")
	}
}

// ---------------------------------------------------------------------------
// Endpoint response decoding
// ---------------------------------------------------------------------------

func TestDecodeResponse(t *testing.T) {
	body := []byte(`[[["你好","Hello",null,null,10],["世界","World",null,null,10]],null,"en"]`)
	got, err := decodeResponse(body)
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if got != "你好世界" {
		t.Errorf("got %q, want %q", got, "你好世界")
	}
}

func TestDecodeResponse_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>rate limited</html>"},
		{"empty array", "[]"},
		{"wrong shape", `["just a string"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeResponse([]byte(tc.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
