package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"grades:view-own",
		"standings:view",
		"progress:view-own",
	},
	"teacher": {
		"grades:view-own",
		"grades:view-all",
		"grades:write",
		"submission:grade",
		"quiz:grade",
		"standings:view",
		"progress:view-own",
		"progress:view-all",
		"roster:enroll",
		"users:bulk_upsert",
		"users:list",
	},
	"admin": {
		"*", // everything
	},
}
