package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the on-disk shape of a role override file.
type overrideFile struct {
	Roles []roleOverride `yaml:"roles"`
}

// roleOverride adds or replaces one role profile.
type roleOverride struct {
	// Role is the role name to add or replace.
	Role string `yaml:"role"`
	// Description replaces the capability description.
	Description string `yaml:"description"`
	// Tools lists the named tools granted to the role.
	Tools []string `yaml:"tools"`
}

// LoadOverrides merges role profiles from a YAML file into the catalog.
// Profiles with an existing role name are replaced wholesale.
func (c *Catalog) LoadOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read role overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse role overrides: %w", err)
	}

	for _, o := range file.Roles {
		if o.Role == "" {
			return fmt.Errorf("role override missing role name")
		}
		c.profiles[o.Role] = profileSpec{
			Description: o.Description,
			Tools:       o.Tools,
		}
	}
	return nil
}
