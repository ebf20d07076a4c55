package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"user": {
		"test:view",
		"session:create",
		"session:take",
		"attempt:view-own",
	},
	"admin": {
		"*", // everything
	},
}
