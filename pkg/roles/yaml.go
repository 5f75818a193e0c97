package roles

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlCatalog mirrors the on-disk catalog format:
//
//	roles:
//	  manager:
//	    label: Manager
//	    description: Runs day-to-day operations.
//	    inherits: [provider]
//	    permissions:
//	      - contracts:read:all
//	      - contracts:write:all
type yamlCatalog struct {
	Roles map[string]yamlRole `yaml:"roles"`
}

type yamlRole struct {
	Label       string   `yaml:"label"`
	Description string   `yaml:"description"`
	Inherits    []string `yaml:"inherits"`
	Permissions []string `yaml:"permissions"`
}

// LoadCatalog reads catalog definitions from YAML. Role names in the file
// must belong to the closed role set; anything else is a configuration
// error surfaced immediately rather than a runtime value to fail closed on.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}

	var doc yamlCatalog
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if len(doc.Roles) == 0 {
		return nil, errors.Join(ErrInvalidCatalog, errors.New("no roles defined"))
	}

	defs := make(map[Role]Definition, len(doc.Roles))
	for name, entry := range doc.Roles {
		role, err := ParseRole(name)
		if err != nil {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("role %q: %w", name, err))
		}

		inherits := make([]Role, 0, len(entry.Inherits))
		for _, inh := range entry.Inherits {
			parent, err := ParseRole(inh)
			if err != nil {
				return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("role %q inherits %q: %w", name, inh, err))
			}
			inherits = append(inherits, parent)
		}

		defs[role] = Definition{
			Label:       entry.Label,
			Description: entry.Description,
			Permissions: entry.Permissions,
			Inherits:    inherits,
		}
	}

	return NewCatalog(defs)
}

// LoadCatalogFile loads catalog definitions from a YAML file on disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
