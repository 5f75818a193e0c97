// Package roles defines the closed role hierarchy and the permission
// catalog that translates a role into its grant set.
//
// The role set is fixed: client < provider < manager < admin < super_admin.
// Free-form role strings from the membership store are decoded exactly once
// through ParseRole; unknown values fail closed to RoleUnknown, which ranks
// at zero and is granted nothing. Nothing in this package performs I/O at
// check time - catalogs are built once and then consulted with pure map
// lookups, making them safe for unbounded concurrent use.
//
// Catalogs can be defined in code (see DefaultCatalog) or loaded from YAML
// via LoadCatalog. Either way, role inheritance is flattened at construction
// so a higher-ranked role's grants are a strict superset of everything it
// inherits.
//
// Basic usage:
//
//	catalog := roles.DefaultCatalog()
//
//	role, err := roles.ParseRole("manager")
//	if err != nil {
//	    // unknown role: role is RoleUnknown, which can never be granted anything
//	}
//
//	if err := catalog.Can(role, "contracts:read:all"); err != nil {
//	    // denied
//	}
//
// Operations should register the permission keys they require with
// Catalog.Verify at startup or in tests. A required key that no role is
// granted is a programming defect (ErrCatalogMisconfigured) and must not be
// mistaken for a legitimate denial.
package roles
