// Package cache implements the persistent translation cache: a JSON file
// mapping source strings to their translations, keyed by exact string
// equality.
//
// The file is human-diffable (sorted keys, 2-space indent, raw UTF-8) and
// safe to hand-edit or delete. Deleting it forces a full re-translation on
// the next run.
package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Load reads the cache file at path. A missing, unreadable or corrupt file
// degrades to an empty cache — the run must never abort because of cache
// state. The returned error is informational only; the map is always usable.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return map[string]string{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]string{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

// Save writes the full cache to path atomically: the JSON is written to a
// temporary file in the same directory and renamed over the target, so a
// crash mid-write cannot corrupt previously saved entries.
func Save(path string, m map[string]string) error {
	data, err := marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// marshal renders the cache with sorted keys, 2-space indent and unescaped
// UTF-8, ending in a newline. The format matches what json.dumps with
// ensure_ascii=False produced, so caches written by earlier tooling keep
// working.
func marshal(m map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		if err := encodeString(enc, &buf, k); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		if err := encodeString(enc, &buf, m[k]); err != nil {
			return nil, err
		}
	}
	if len(keys) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// encodeString writes a single JSON string without the trailing newline
// json.Encoder appends.
func encodeString(enc *json.Encoder, buf *bytes.Buffer, s string) error {
	if err := enc.Encode(s); err != nil {
		return err
	}
	b := buf.Bytes()
	if len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
	return nil
}
