package roles

// DefaultCatalog returns the built-in catalog for the business-management
// platform. Each role inherits the full grant set of the role directly
// below it in the hierarchy, so a higher rank always carries a superset of
// a lower rank's permissions.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(map[Role]Definition{
		RoleClient: {
			Label:       "Client",
			Description: "External customer with read access to their own records.",
			Permissions: []string{
				"contracts:read:own",
				"invoices:read:own",
				"documents:read:own",
				"profile:update:own",
			},
		},
		RoleProvider: {
			Label:       "Provider",
			Description: "Workforce member delivering services for the company.",
			Inherits:    []Role{RoleClient},
			Permissions: []string{
				"schedule:read:own",
				"schedule:update:own",
				"workforce:read:own",
				"documents:upload:own",
				"timesheets:submit:own",
			},
		},
		RoleManager: {
			Label:       "Manager",
			Description: "Runs day-to-day operations across the company.",
			Inherits:    []Role{RoleProvider},
			Permissions: []string{
				"contracts:read:all",
				"contracts:write:all",
				"workforce:read:all",
				"workforce:manage:all",
				"schedule:manage:all",
				"timesheets:approve:all",
				"invoices:read:all",
				"reports:read:all",
			},
		},
		RoleAdmin: {
			Label:       "Administrator",
			Description: "Administers the company: members, billing, settings.",
			Inherits:    []Role{RoleManager},
			Permissions: []string{
				"contracts:*",
				"documents:*",
				"company:manage:all",
				"members:invite:all",
				"members:manage:all",
				"billing:manage:all",
			},
		},
		RoleSuperAdmin: {
			Label:       "Platform Administrator",
			Description: "Platform operator; not scoped to any tenant.",
			Permissions: []string{"*"},
		},
	})
}
