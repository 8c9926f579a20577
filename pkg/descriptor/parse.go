// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/modgraph/modgraph/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is a *.module.cue descriptor validated against #Module.
	FormatCUE Format = "cue"
	// FormatTOML is a *.module.toml descriptor.
	FormatTOML Format = "toml"
	// FormatYAML is a *.module.yaml or *.module.yml descriptor.
	FormatYAML Format = "yaml"
)

var (
	//go:embed module_schema.cue
	moduleSchema string

	// ErrUnsupportedFormat is returned for files without a known descriptor suffix.
	ErrUnsupportedFormat = errors.New("unsupported descriptor format")

	suffixes = []struct {
		suffix string
		format Format
	}{
		{".module.cue", FormatCUE},
		{".module.toml", FormatTOML},
		{".module.yaml", FormatYAML},
		{".module.yml", FormatYAML},
	}
)

type (
	// Format is the on-disk encoding of a descriptor file.
	Format string

	// File is the decoded form of a descriptor file, shared by every format.
	File struct {
		Name          string   `json:"name" toml:"name" yaml:"name"`
		Root          string   `json:"root,omitempty" toml:"root,omitempty" yaml:"root,omitempty"`
		PCHUsage      string   `json:"pch_usage,omitempty" toml:"pch_usage,omitempty" yaml:"pch_usage,omitempty"`
		PublicScopes  []string `json:"public_scopes" toml:"public_scopes" yaml:"public_scopes"`
		PrivateScopes []string `json:"private_scopes" toml:"private_scopes" yaml:"private_scopes"`
		PublicDeps    []string `json:"public_deps" toml:"public_deps" yaml:"public_deps"`
		PrivateDeps   []string `json:"private_deps" toml:"private_deps" yaml:"private_deps"`
	}
)

// FormatFromPath returns the descriptor format implied by the file name.
func FormatFromPath(path string) (Format, bool) {
	base := strings.ToLower(filepath.Base(path))
	for _, s := range suffixes {
		if strings.HasSuffix(base, s.suffix) && len(base) > len(s.suffix) {
			return s.format, true
		}
	}
	return "", false
}

// Parse decodes data according to the format implied by path.
func Parse(data []byte, path string) (*File, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	switch format {
	case FormatCUE:
		return ParseCUE(data, path)
	case FormatTOML:
		return ParseTOML(data, path)
	case FormatYAML:
		return ParseYAML(data, path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// ParseCUE validates data against the #Module schema and decodes it.
func ParseCUE(data []byte, path string) (*File, error) {
	result, err := cueutil.ParseAndDecodeString[File](moduleSchema, data, "#Module", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// ParseTOML decodes a TOML descriptor. Unknown keys are rejected.
func ParseTOML(data []byte, path string) (*File, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// ParseYAML decodes a YAML descriptor. Unknown keys are rejected and an empty
// document is an error.
func ParseYAML(data []byte, path string) (*File, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty descriptor", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// Descriptor converts the file into a Descriptor. dir is the directory that
// holds the file; it becomes the module root unless the file sets root, in
// which case a relative root is joined to dir.
func (f *File) Descriptor(dir, source string) Descriptor {
	root := dir
	if f.Root != "" {
		root = filepath.FromSlash(f.Root)
		if !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}
	}

	d := New(ModuleName(f.Name), filepath.Clean(root))
	d.Source = source
	d = d.WithPublicScopes(toScopes(f.PublicScopes)...).
		WithPrivateScopes(toScopes(f.PrivateScopes)...).
		WithPublicDependencies(toNames(f.PublicDeps)...).
		WithPrivateDependencies(toNames(f.PrivateDeps)...)
	if f.PCHUsage != "" {
		d.PCHUsage = PCHUsage(f.PCHUsage)
	}
	return d
}

func toScopes(in []string) []ScopeID {
	out := make([]ScopeID, len(in))
	for i, s := range in {
		out[i] = ScopeID(s)
	}
	return out
}

func toNames(in []string) []ModuleName {
	out := make([]ModuleName, len(in))
	for i, s := range in {
		out[i] = ModuleName(s)
	}
	return out
}
