package shared

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed audio_extensions.txt
var defaultExtensions []byte

// ExtensionSet holds lower-case file extensions without the leading dot.
type ExtensionSet map[string]struct{}

// Has reports whether ext (with or without a leading dot, any case) is in the set.
func (s ExtensionSet) Has(ext string) bool {
	_, ok := s[normalizeExt(ext)]
	return ok
}

// DefaultExtensions returns the embedded list of common audio extensions.
func DefaultExtensions() ExtensionSet {
	set, _ := parseExtensions(defaultExtensions)
	return set
}

// NewExtensionSet builds a set from a list of extensions.
func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		if ext = normalizeExt(ext); ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}

// LoadExtensions reads a newline-separated extension list. Blank lines and "#" comments are ignored.
func LoadExtensions(path string) (ExtensionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extension list: %w", err)
	}

	set, err := parseExtensions(data)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: extension list %s is empty", ErrInvalidConfig, path)
	}
	return set, nil
}

// ResolveExtensions picks the extension set for the tag scanner: file, then list, then the embedded default.
func ResolveExtensions(cfg LocalConfig) (ExtensionSet, error) {
	if cfg.ExtensionsFile != "" {
		return LoadExtensions(cfg.ExtensionsFile)
	}
	if len(cfg.Extensions) > 0 {
		return NewExtensionSet(cfg.Extensions), nil
	}
	return DefaultExtensions(), nil
}

func parseExtensions(data []byte) (ExtensionSet, error) {
	set := make(ExtensionSet)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		if ext := normalizeExt(line); ext != "" {
			set[ext] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse extension list: %w", err)
	}
	return set, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
