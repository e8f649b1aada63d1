package metadata

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Source loads region metadata records.
type Source interface {
	Load() ([]*RegionMetadata, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() ([]*RegionMetadata, error)

// Load implements Source.
func (f SourceFunc) Load() ([]*RegionMetadata, error) { return f() }

// YAMLSource decodes a catalog held in memory.
type YAMLSource []byte

// Load implements Source.
func (s YAMLSource) Load() ([]*RegionMetadata, error) {
	return DecodeYAML(bytes.NewReader(s))
}

// FileSource reads a catalog from a YAML file on disk.
type FileSource string

// Load implements Source.
func (s FileSource) Load() ([]*RegionMetadata, error) {
	data, err := os.ReadFile(string(s))
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	regions, err := YAMLSource(data).Load()
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", string(s), err)
	}
	return regions, nil
}

// StaticSource serves records built in code.
type StaticSource []*RegionMetadata

// Load implements Source.
func (s StaticSource) Load() ([]*RegionMetadata, error) { return s, nil }

// Embedded returns the catalog compiled into the binary.
func Embedded() Source {
	return YAMLSource(embeddedCatalog)
}
