package permissions

import (
	"slices"
	"sort"
	"strings"
)

const (
	// Delimiter separates the parts of a permission key (resource:action:scope).
	Delimiter = ":"

	// Wildcard matches everything when used alone, or an entire subtree
	// when used as a trailing segment (e.g. "contracts:*").
	Wildcard = "*"

	// ScopeOwn limits a permission to resources the principal owns.
	ScopeOwn = "own"

	// ScopeAll extends a permission to every resource inside the tenant.
	ScopeAll = "all"
)

// Key is a parsed permission key. Grants in the role catalog and checks at
// operation boundaries both use the canonical "resource:action:scope" form;
// Key exists for call sites that need the individual parts.
type Key struct {
	Resource string
	Action   string
	Scope    string
}

// String returns the canonical string form of the key.
func (k Key) String() string {
	return k.Resource + Delimiter + k.Action + Delimiter + k.Scope
}

// Parse splits a permission key into its parts. It returns
// ErrInvalidPermission when the key does not have exactly three non-empty
// parts or the scope is neither "own" nor "all".
func Parse(permission string) (Key, error) {
	parts := strings.Split(permission, Delimiter)
	if len(parts) != 3 {
		return Key{}, ErrInvalidPermission
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" || strings.ContainsAny(p, " \t") {
			return Key{}, ErrInvalidPermission
		}
	}
	if parts[2] != ScopeOwn && parts[2] != ScopeAll {
		return Key{}, ErrInvalidPermission
	}
	return Key{Resource: parts[0], Action: parts[1], Scope: parts[2]}, nil
}

// Matches reports whether a concrete permission key matches a grant pattern.
//
// Matching rules:
//   - exact match: "contracts:read:own" matches "contracts:read:own"
//   - global wildcard: "*" matches any permission
//   - subtree wildcard: "contracts:*" matches any permission whose key
//     starts with "contracts:"; "contracts:read:*" matches both scopes
func Matches(permission, pattern string) bool {
	if permission == pattern || pattern == Wildcard {
		return true
	}

	if strings.HasSuffix(pattern, Wildcard) {
		prefix := strings.TrimSuffix(pattern, Wildcard)
		prefix = strings.TrimSuffix(prefix, Delimiter)
		return strings.HasPrefix(permission, prefix+Delimiter)
	}

	return false
}

// Granted reports whether any grant pattern matches the permission key.
func Granted(grants []string, permission string) bool {
	for _, g := range grants {
		if Matches(permission, g) {
			return true
		}
	}
	return false
}

// GrantedAny reports whether at least one of the required permissions is
// covered by the grants. An empty required set is trivially satisfied.
func GrantedAny(grants, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(grants) == 0 {
		return false
	}
	if slices.Contains(grants, Wildcard) {
		return true
	}
	for _, req := range required {
		if Granted(grants, req) {
			return true
		}
	}
	return false
}

// GrantedAll reports whether every required permission is covered by the
// grants. An empty required set is trivially satisfied.
func GrantedAll(grants, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(grants) == 0 {
		return false
	}
	if slices.Contains(grants, Wildcard) {
		return true
	}
	for _, req := range required {
		if !Granted(grants, req) {
			return false
		}
	}
	return true
}

// Normalize deduplicates grants and removes patterns already covered by a
// broader wildcard in the same set. The result is sorted so that identical
// grant sets compare equal regardless of input order. Returns nil for empty
// input.
func Normalize(grants []string) []string {
	if len(grants) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(grants))
	unique := make([]string, 0, len(grants))
	for _, g := range grants {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		unique = append(unique, g)
	}

	if len(unique) == 0 {
		return nil
	}
	if slices.Contains(unique, Wildcard) {
		return []string{Wildcard}
	}

	result := make([]string, 0, len(unique))
	for _, g := range unique {
		covered := false
		for _, other := range unique {
			if other == g {
				continue
			}
			if strings.HasSuffix(other, Wildcard) && Matches(g, other) {
				covered = true
				break
			}
		}
		if !covered {
			result = append(result, g)
		}
	}

	sort.Strings(result)
	return result
}

// Validate checks that every permission key is a concrete, well-formed
// "resource:action:scope" triple. Grant patterns with wildcards are not
// accepted here; this is the boundary for keys arriving from call sites.
func Validate(permissions ...string) error {
	for _, p := range permissions {
		if _, err := Parse(p); err != nil {
			return err
		}
	}
	return nil
}
