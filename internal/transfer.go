package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Format imports and exports subscription files of one kind
type Format struct {
	Name       string
	Extensions []string // lowercase, with leading dot
	Import     func(path string) ([]Subscription, error)
	Export     func(path string, subs []Subscription) error
}

// formats is the registry of available file formats
var formats = map[string]Format{}

// RegisterFormat registers a file format under its name
func RegisterFormat(f Format) {
	formats[f.Name] = f
}

// GetFormat returns the format with the given name
func GetFormat(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, fmt.Errorf("unknown format: %s (available: %v)", name, AvailableFormats())
	}
	return f, nil
}

// AvailableFormats returns the registered format names, sorted
func AvailableFormats() []string {
	var names []string
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnownFormat returns true if the name is a registered format
func IsKnownFormat(name string) bool {
	_, ok := formats[name]
	return ok
}

// ParseFileArg splits a file argument that may have a format prefix.
// Example: "xlsx:subs.xlsx" → ("xlsx", "subs.xlsx")
// Example: "subs.json" → ("", "subs.json")
// Example: "C:\data\subs.xlsx" → ("", "C:\data\subs.xlsx") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownFormat(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg
}

// ResolveFormat picks the format for a file argument: an explicit prefix wins,
// then the file extension.
func ResolveFormat(arg string) (Format, string, error) {
	name, path := ParseFileArg(arg)
	if name != "" {
		f, err := GetFormat(name)
		return f, path, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range AvailableFormats() {
		for _, e := range formats[name].Extensions {
			if e == ext {
				return formats[name], path, nil
			}
		}
	}
	return Format{}, path, fmt.Errorf("cannot infer format of %q (use one of %v as prefix, e.g. json:%s)", path, AvailableFormats(), path)
}

func importJSON(path string) ([]Subscription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return decodeSubscriptionsJSON(data)
}

func exportJSON(path string, subs []Subscription) error {
	var buf bytes.Buffer
	if err := encodeSubscriptionsJSON(&buf, subs); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}

func init() {
	RegisterFormat(Format{
		Name:       "json",
		Extensions: []string{".json"},
		Import:     importJSON,
		Export:     exportJSON,
	})
}
