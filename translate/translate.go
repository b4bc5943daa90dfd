// Package translate implements the deduplicating, batched, cache-backed
// translation of catalog descriptions using the Google Translate free
// endpoint.
//
// The external translator is treated as an unreliable oracle: transport
// failures, malformed responses, and segment-count mismatches are all
// recovered by falling back from the batch call to per-item calls, and from
// a failed per-item call to the untranslated original. No translation
// failure is fatal; the worst outcome for any description is passthrough.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	retry "github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"
)

// ---------------------------------------------------------------------------
// Client interface + Google free endpoint implementation
// ---------------------------------------------------------------------------

// Client is the capability interface for the external translation service.
type Client interface {
	// Translate returns the translation of text. Newline boundaries in the
	// input are expected (not guaranteed) to be preserved in the output.
	Translate(ctx context.Context, text string) (string, error)
}

// translateURL is the Google Translate free endpoint (no API key).
const translateURL = "https://translate.googleapis.com/translate_a/single"

// requestTimeout is the per-request timeout for the endpoint.
const requestTimeout = 30 * time.Second

// Google calls the Google Translate free endpoint. Requests go through a
// circuit breaker so a dead endpoint stops being hammered and the pipeline
// degrades to passthrough quickly, and through a short retry policy for
// transient transport failures.
type Google struct {
	source string
	target string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

// NewGoogle returns a client translating from source to target locale
// (e.g. "en" → "zh-CN"). proxy is an optional HTTP/HTTPS proxy URL; when
// empty, the standard proxy environment variables apply.
func NewGoogle(source, target, proxy string) *Google {
	return &Google{
		source: source,
		target: target,
		client: makeHTTPClient(proxy, requestTimeout),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "google-translate",
			Timeout: 60 * time.Second,
		}),
	}
}

// Translate implements Client.
func (g *Google) Translate(ctx context.Context, text string) (string, error) {
	var out string
	err := retry.Do(
		func() error {
			res, err := g.cb.Execute(func() (interface{}, error) {
				return g.call(ctx, text)
			})
			if err != nil {
				return err
			}
			out = res.(string)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(1*time.Second),
		retry.LastErrorOnly(true),
		// Retrying while the breaker is open only burns time.
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, gobreaker.ErrOpenState) &&
				!errors.Is(err, gobreaker.ErrTooManyRequests)
		}),
	)
	return out, err
}

// call issues one GET to the endpoint and decodes the response.
func (g *Google) call(ctx context.Context, text string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {g.source},
		"tl":     {g.target},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", translateURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation endpoint returned status %d: %s",
			resp.StatusCode, truncate(string(body), 200))
	}

	return decodeResponse(body)
}

// decodeResponse extracts the translated text from the endpoint's response.
// The body is a JSON array whose first element lists translated segments;
// each segment's first element is the translated text.
func decodeResponse(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	segments, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape: %s", truncate(string(body), 200))
	}

	var sb strings.Builder
	for _, s := range segments {
		seg, ok := s.([]any)
		if !ok || len(seg) == 0 {
			continue
		}
		if text, ok := seg[0].(string); ok {
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// makeHTTPClient builds an HTTP client with proxy support: an explicit
// proxy URL wins, otherwise HTTP_PROXY/HTTPS_PROXY env vars apply.
func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ---------------------------------------------------------------------------
// Batching translator
// ---------------------------------------------------------------------------

// Separator joins batch members and splits batch responses. The alignment
// check relies on the endpoint preserving line count — the one fragile
// assumption of the whole subsystem.
const Separator = "\n"

// Options controls batching behavior. The zero value gets sensible defaults.
type Options struct {
	// MaxBatchChars is the cumulative character budget per batch, counting
	// each string with one separator unit. Default: 4000, staying under the
	// endpoint's ~5000 character ceiling.
	MaxBatchChars int
	// BatchDelay is the pause between batch calls, to stay polite with the
	// endpoint's informal rate limits. Default: 1.5s.
	BatchDelay time.Duration
	// ItemDelay is the pause between per-item fallback calls. Default: 300ms.
	ItemDelay time.Duration
	// Persist, when set, is called with the cache after every batch so a
	// crash mid-run loses at most one batch of work. Errors are reported
	// through OnError and never abort the run.
	Persist func(map[string]string) error
	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
	// OnError emits failure messages.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveBudget() int {
	if o.MaxBatchChars > 0 {
		return o.MaxBatchChars
	}
	return 4000
}

func (o *Options) effectiveBatchDelay() time.Duration {
	if o.BatchDelay > 0 {
		return o.BatchDelay
	}
	return 1500 * time.Millisecond
}

func (o *Options) effectiveItemDelay() time.Duration {
	if o.ItemDelay > 0 {
		return o.ItemDelay
	}
	return 300 * time.Millisecond
}

// Translator batches description strings through a Client.
type Translator struct {
	client Client
	opts   Options
}

// New returns a Translator using the given client.
func New(client Client, opts Options) *Translator {
	return &Translator{client: client, opts: opts}
}

// TranslateAll ensures cache covers every input description and returns it.
// Cache hits are left untouched (a later run never overwrites an existing
// translation); misses are translated in size-bounded batches and inserted.
// TranslateAll never fails: a description whose translation cannot be
// obtained is mapped to itself.
func (t *Translator) TranslateAll(ctx context.Context, descriptions []string, cache map[string]string) map[string]string {
	if cache == nil {
		cache = map[string]string{}
	}

	var misses []string
	for _, d := range descriptions {
		if _, ok := cache[d]; !ok {
			misses = append(misses, d)
		}
	}
	if len(misses) == 0 {
		return cache
	}

	batches := Partition(misses, t.opts.effectiveBudget())
	t.opts.log("Translating %d descriptions in %d batches...", len(misses), len(batches))

	done := 0
	for i, b := range batches {
		done += t.translateBatch(ctx, i+1, len(batches), b, cache)
		t.opts.log("  [%d/%d]", done, len(misses))

		t.persist(cache)

		if i < len(batches)-1 {
			sleep(ctx, t.opts.effectiveBatchDelay())
		}
	}

	return cache
}

// translateBatch handles one batch, falling back to per-item calls on any
// batch-level failure. It returns how many members were actually translated
// (as opposed to kept as-is).
func (t *Translator) translateBatch(ctx context.Context, n, total int, batch []string, cache map[string]string) int {
	combined := strings.Join(batch, Separator)

	result, err := t.client.Translate(ctx, combined)
	if err != nil {
		t.opts.logError("  Batch %d/%d failed: %v, retrying individually...", n, total, err)
		return t.translateIndividually(ctx, batch, cache)
	}

	parts := strings.Split(result, Separator)
	if len(parts) != len(batch) {
		t.opts.logError("  Batch %d/%d: segment count mismatch (%d != %d), retrying individually...",
			n, total, len(parts), len(batch))
		return t.translateIndividually(ctx, batch, cache)
	}

	for i, src := range batch {
		cache[src] = strings.TrimSpace(parts[i])
	}
	return len(batch)
}

// translateIndividually is the degraded path: one call per string, keeping
// the original on per-item failure so every member ends up with a value.
func (t *Translator) translateIndividually(ctx context.Context, batch []string, cache map[string]string) int {
	done := 0
	for i, src := range batch {
		out, err := t.client.Translate(ctx, src)
		if err != nil {
			cache[src] = src // keep the original on failure
		} else {
			cache[src] = strings.TrimSpace(out)
			done++
		}
		if i < len(batch)-1 {
			sleep(ctx, t.opts.effectiveItemDelay())
		}
	}
	return done
}

func (t *Translator) persist(cache map[string]string) {
	if t.opts.Persist == nil {
		return
	}
	if err := t.opts.Persist(cache); err != nil {
		t.opts.logError("  saving cache: %v", err)
	}
}

// Partition splits items into batches whose cumulative character count
// (each item counted with one separator unit) stays within budget. A single
// item exceeding the budget on its own still forms a one-element batch; no
// item is ever split across batches or dropped. Input order is preserved.
func Partition(items []string, budget int) [][]string {
	var batches [][]string
	var batch []string
	size := 0

	for _, item := range items {
		added := utf8.RuneCountInString(item) + 1
		if size+added > budget && len(batch) > 0 {
			batches = append(batches, batch)
			batch = nil
			size = 0
		}
		batch = append(batch, item)
		size += added
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches
}

// sleep waits for d unless ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
