package roles

import (
	"errors"
	"fmt"
	"slices"

	"github.com/fieldport/authzkit/pkg/permissions"
)

// maxInheritanceDepth bounds the inheritance chain. The closed role set is
// small, so anything deeper indicates a definition error.
const maxInheritanceDepth = 10

// Definition describes a single role in catalog configuration: its display
// metadata, directly granted permission patterns, and the roles it inherits
// grants from.
type Definition struct {
	Label       string
	Description string
	Permissions []string
	Inherits    []Role
}

// Meta carries the presentation metadata for a role.
type Meta struct {
	Label       string
	Description string
}

// Catalog is the immutable Role -> permission-set mapping. All grants,
// including inherited ones, are precomputed at construction so per-request
// checks are pure map lookups. A Catalog is safe for concurrent use.
type Catalog struct {
	grants map[Role][]string
	meta   map[Role]Meta
}

// NewCatalog builds a catalog from role definitions. It rejects roles
// outside the closed set, unknown or circular inheritance, and malformed
// grant patterns. Unknown roles queried at runtime fail closed to an empty
// grant set; configuration errors fail loudly here instead.
func NewCatalog(defs map[Role]Definition) (*Catalog, error) {
	for role, def := range defs {
		if !role.Valid() {
			return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("role %q is not in the closed role set", string(role)))
		}
		for _, inherited := range def.Inherits {
			if _, ok := defs[inherited]; !ok {
				return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("role %q inherits undefined role %q", role, inherited))
			}
		}
		for _, p := range def.Permissions {
			if p == "" {
				return nil, errors.Join(ErrInvalidCatalog, fmt.Errorf("role %q grants an empty permission", role))
			}
		}
	}

	if err := validateInheritance(defs); err != nil {
		return nil, err
	}

	grants := make(map[Role][]string, len(defs))
	meta := make(map[Role]Meta, len(defs))
	for role, def := range defs {
		all := collectGrants(role, defs, make(map[Role]bool), 0)
		grants[role] = permissions.Normalize(all)
		meta[role] = Meta{Label: def.Label, Description: def.Description}
	}

	return &Catalog{grants: grants, meta: meta}, nil
}

// MustNewCatalog is NewCatalog that panics on error. Intended for static
// catalogs defined in code, where a bad definition should prevent startup.
func MustNewCatalog(defs map[Role]Definition) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(fmt.Sprintf("roles: building catalog: %v", err))
	}
	return c
}

// PermissionsFor returns the full grant set for a role, inherited grants
// included. Unknown roles get an empty set, never an error, so a failed
// role decode can never widen into an allow.
func (c *Catalog) PermissionsFor(role Role) []string {
	grants, ok := c.grants[role]
	if !ok {
		return nil
	}
	return slices.Clone(grants)
}

// Can checks whether the role's grants cover the permission.
func (c *Catalog) Can(role Role, permission string) error {
	if !permissions.Granted(c.grants[role], permission) {
		return ErrPermissionNotGranted
	}
	return nil
}

// CanAny checks whether the role's grants cover at least one of the given
// permissions. An empty permission list is trivially satisfied.
func (c *Catalog) CanAny(role Role, perms ...string) error {
	if !permissions.GrantedAny(c.grants[role], perms) {
		return ErrPermissionNotGranted
	}
	return nil
}

// DisplayMetadata returns the label and description for a role. Unknown
// roles get zero metadata.
func (c *Catalog) DisplayMetadata(role Role) Meta {
	return c.meta[role]
}

// Roles returns the catalog's roles ordered by rank, least privileged first.
func (c *Catalog) Roles() []Role {
	result := make([]Role, 0, len(c.grants))
	for role := range c.grants {
		result = append(result, role)
	}
	slices.SortFunc(result, func(a, b Role) int {
		return a.Rank() - b.Rank()
	})
	return result
}

// Verify checks that every permission an operation plans to require is
// granted to at least one role. A key nobody can ever satisfy is a
// programming defect and must surface at startup or in tests, not degrade
// into routine denials in production.
func (c *Catalog) Verify(required ...string) error {
	for _, p := range required {
		if err := permissions.Validate(p); err != nil {
			return errors.Join(ErrCatalogMisconfigured, fmt.Errorf("required permission %q: %w", p, err))
		}
		granted := false
		for _, grants := range c.grants {
			if permissions.Granted(grants, p) {
				granted = true
				break
			}
		}
		if !granted {
			return errors.Join(ErrCatalogMisconfigured, fmt.Errorf("permission %q is granted to no role", p))
		}
	}
	return nil
}

// collectGrants gathers direct and inherited grant patterns for a role.
func collectGrants(role Role, defs map[Role]Definition, visited map[Role]bool, depth int) []string {
	if depth > maxInheritanceDepth || visited[role] {
		return nil
	}
	visited[role] = true

	def, ok := defs[role]
	if !ok {
		return nil
	}

	result := slices.Clone(def.Permissions)
	for _, inherited := range def.Inherits {
		result = append(result, collectGrants(inherited, defs, visited, depth+1)...)
	}
	return result
}

// validateInheritance rejects cycles in role inheritance.
func validateInheritance(defs map[Role]Definition) error {
	for role := range defs {
		if err := walkInheritance(role, defs, []Role{role}); err != nil {
			return err
		}
	}
	return nil
}

func walkInheritance(role Role, defs map[Role]Definition, path []Role) error {
	def, ok := defs[role]
	if !ok {
		return nil
	}
	for _, inherited := range def.Inherits {
		if slices.Contains(path, inherited) {
			return errors.Join(ErrCircularInheritance, fmt.Errorf("%s -> %s", role, inherited))
		}
		if err := walkInheritance(inherited, defs, append(path, inherited)); err != nil {
			return err
		}
	}
	return nil
}
