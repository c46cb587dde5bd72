package metadata

import (
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"docmapper/internal/common"
)

// File is the root of a YAML metadata file.
type File struct {
	// Version of the metadata schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Contracts lists the markers per contract.
	Contracts []ContractEntry `yaml:"contracts"`
}

// ContractEntry binds markers to a contract identifier, either the full
// "import/path.Name" or the short "pkg.Name".
type ContractEntry struct {
	Name     string `yaml:"contract"`
	Contract `yaml:",inline"`
}

// LoadFile loads and parses a YAML metadata file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metadata YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Contracts {
		for j := range f.Contracts[i].Indexes {
			idx := &f.Contracts[i].Indexes[j]
			for k := range idx.Fields {
				if idx.Fields[k].Order == 0 {
					idx.Fields[k].Order = Ascending
				}
			}
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata file %s: %w", path, err)
	}

	return nil
}

// Metadata implements Source.
func (f *File) Metadata(contract reflect.Type) (Contract, bool) {
	if contract == nil {
		return Contract{}, false
	}

	return f.Lookup(contract.PkgPath(), contract.Name())
}

// Lookup returns the markers of the contract name declared in pkgPath.
// Entries naming the full import path are preferred over short package
// aliases.
func (f *File) Lookup(pkgPath, name string) (Contract, bool) {
	if f == nil || name == "" {
		return Contract{}, false
	}

	full := pkgPath + "." + name
	short := common.ShortName(pkgPath, name)

	var fallback *ContractEntry

	for i := range f.Contracts {
		e := &f.Contracts[i]

		switch e.Name {
		case full:
			return e.Contract, true
		case short:
			if fallback == nil {
				fallback = e
			}
		}
	}

	if fallback != nil {
		return fallback.Contract, true
	}

	return Contract{}, false
}
