package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed regulatory.yaml
var defaultTaxTableYAML []byte

var (
	defaultTableOnce sync.Once
	defaultTable     *domain.TaxTable
)

// DefaultTaxTable returns the embedded tax-year table.
// It panics if the embedded file is invalid, which is a build defect.
func DefaultTaxTable() *domain.TaxTable {
	defaultTableOnce.Do(func() {
		table, err := ParseTaxTable(defaultTaxTableYAML, "yaml")
		if err != nil {
			panic(fmt.Sprintf("embedded tax table: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// ResolveParameters returns the parameters for year from the embedded table.
// It never fails; unknown years fall back to the nearest known year.
func ResolveParameters(year int) domain.TaxYearParameters {
	return DefaultTaxTable().Resolve(year)
}

// LoadTaxTable reads a tax table from a .yaml, .yml or .toml file and validates it
func LoadTaxTable(filename string) (*domain.TaxTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax table %s: %w", filename, err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	table, err := ParseTaxTable(data, format)
	if err != nil {
		return nil, fmt.Errorf("tax table %s: %w", filename, err)
	}
	return table, nil
}

// ParseTaxTable decodes and validates a tax table in the given format (yaml or toml)
func ParseTaxTable(data []byte, format string) (*domain.TaxTable, error) {
	var table domain.TaxTable

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &table); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tax table format %q", format)
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("tax table validation failed: %w", err)
	}
	return &table, nil
}

// TableResolver resolves parameters from a specific table, defaulting to the embedded one
type TableResolver struct {
	Table *domain.TaxTable
}

// NewTableResolver loads the table at path, or uses the embedded table when path is empty
func NewTableResolver(path string) (*TableResolver, error) {
	if path == "" {
		return &TableResolver{Table: DefaultTaxTable()}, nil
	}
	table, err := LoadTaxTable(path)
	if err != nil {
		return nil, err
	}
	return &TableResolver{Table: table}, nil
}

// Resolve returns the parameters for year
func (r *TableResolver) Resolve(year int) domain.TaxYearParameters {
	if r == nil || r.Table == nil {
		return ResolveParameters(year)
	}
	return r.Table.Resolve(year)
}
