// Package loader reads store catalogs from local files, for offline use and
// for fixtures. A catalog file holds a JSON array of items, a list envelope
// such as {"items": [...]}, or one item per line (JSONL).
package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/flavortown/pkg/debug"
	"github.com/vanderheijden86/flavortown/pkg/metrics"
	"github.com/vanderheijden86/flavortown/pkg/model"
)

// CatalogFileEnvVar names a catalog file used instead of the API.
const CatalogFileEnvVar = "FLAVORTOWN_CATALOG"

// PreferredCatalogNames defines the lookup order inside a directory.
var PreferredCatalogNames = []string{"store.json", "catalog.json", "items.jsonl", "store.jsonl"}

// FindCatalogPath resolves path to a catalog file. A directory is searched for
// PreferredCatalogNames, then for any non-empty .json or .jsonl file.
func FindCatalogPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("no catalog found at %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	for _, name := range PreferredCatalogNames {
		candidate := filepath.Join(path, name)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() && fi.Size() > 0 {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") && !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
			continue
		}
		candidate := filepath.Join(path, name)
		if fi, err := e.Info(); err == nil && fi.Size() > 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no catalog file found in %s", path)
}

// DefaultMaxBufferSize is the default buffer size for the scanner (10MB).
const DefaultMaxBufferSize = 1024 * 1024 * 10

// ParseOptions configures the behavior of ParseItems.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed JSON).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// BufferSize sets the maximum line size (in bytes) for JSONL input.
	// Lines longer than this are skipped with a warning.
	// If 0, uses DefaultMaxBufferSize (10MB).
	BufferSize int

	// ItemFilter optionally filters parsed items. Return true to include.
	ItemFilter func(*model.Item) bool
}

// LoadItemsFromFile reads a catalog from path, which may be a directory.
func LoadItemsFromFile(path string) ([]model.Item, error) {
	return LoadItemsFromFileWithOptions(path, ParseOptions{})
}

// LoadItemsFromFileWithOptions reads a catalog with custom options.
func LoadItemsFromFileWithOptions(path string, opts ParseOptions) ([]model.Item, error) {
	defer metrics.Timer(metrics.CatalogLoad)()

	resolved, err := FindCatalogPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	items, err := ParseItemsWithOptions(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resolved, err)
	}
	debug.Log("loaded %d items from %s", len(items), resolved)
	return items, nil
}

// ParseItems parses catalog content from a reader.
// Handles UTF-8 BOM stripping and all three layouts.
func ParseItems(r io.Reader) ([]model.Item, error) {
	return ParseItemsWithOptions(r, ParseOptions{})
}

// ParseItemsWithOptions parses catalog content with custom options. Array and
// envelope documents must be valid as a whole; JSONL lines that fail to
// decode are skipped with a warning. Items are not validated here.
func ParseItemsWithOptions(r io.Reader, opts ParseOptions) ([]model.Item, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	reader := bufio.NewReaderSize(r, maxCapacity)
	head, err := reader.Peek(firstTokenWindow)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	switch firstToken(stripBOM(head)) {
	case 0:
		return nil, nil
	case '[':
		return parseDocument(reader, opts)
	case '{':
		// A single object is either an envelope or the first JSONL record.
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("error reading catalog: %w", err)
		}
		data = stripBOM(data)
		if model.IsEnvelope(data) {
			return parseDocument(bytes.NewReader(data), opts)
		}
		return parseLines(bufio.NewReaderSize(bytes.NewReader(data), maxCapacity), maxCapacity, opts, warn)
	default:
		return parseLines(reader, maxCapacity, opts, warn)
	}
}

// firstTokenWindow bounds how far ahead the layout sniffing looks.
const firstTokenWindow = 512

func firstToken(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return c
		}
	}
	return 0
}

func parseDocument(r io.Reader, opts ParseOptions) ([]model.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	items, err := model.DecodeList[model.Item](stripBOM(data))
	if err != nil {
		return nil, err
	}
	return applyFilter(items, opts.ItemFilter), nil
}

func parseLines(reader *bufio.Reader, maxCapacity int, opts ParseOptions, warn func(string)) ([]model.Item, error) {
	var items []model.Item

	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading catalog at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var item model.Item
		if err := json.Unmarshal(line, &item); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		if opts.ItemFilter != nil && !opts.ItemFilter(&item) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func applyFilter(items []model.Item, keep func(*model.Item) bool) []model.Item {
	if keep == nil {
		return items
	}
	out := items[:0]
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// SaveItems writes items as a JSON array in the flattened local shape,
// creating the parent directory if needed.
func SaveItems(path string, items []model.Item) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
