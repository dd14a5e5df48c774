package permissions

// Permission keys guarded by the HTTP layer. Keys are "<module>.<action>".
const (
	UsersRead              = "users.read"
	UsersUpdate            = "users.update"
	UsersManageRoles       = "users.manage_roles"
	UsersManagePermissions = "users.manage_permissions"

	RolesRead   = "roles.read"
	RolesCreate = "roles.create"
	RolesUpdate = "roles.update"
	RolesDelete = "roles.delete"

	PermissionsRead   = "permissions.read"
	PermissionsCreate = "permissions.create"
	PermissionsUpdate = "permissions.update"

	ClubsRead   = "clubs.read"
	ClubsCreate = "clubs.create"
	ClubsUpdate = "clubs.update"
	ClubsDelete = "clubs.delete"

	GymsRead   = "gyms.read"
	GymsCreate = "gyms.create"
	GymsUpdate = "gyms.update"
	GymsDelete = "gyms.delete"

	OwnershipRead   = "ownership.read"
	OwnershipManage = "ownership.manage"

	RelationshipsRead   = "relationships.read"
	RelationshipsManage = "relationships.manage"
)

// Entry is one row of the default catalog.
type Entry struct {
	Key         string
	Module      string
	Description string
}

// DefaultCatalog is seeded at startup; existing keys are left untouched.
var DefaultCatalog = []Entry{
	{UsersRead, "users", "View users"},
	{UsersUpdate, "users", "Edit user profiles and status"},
	{UsersManageRoles, "users", "Assign and remove user roles"},
	{UsersManagePermissions, "users", "Grant and revoke direct user permissions"},

	{RolesRead, "roles", "View roles"},
	{RolesCreate, "roles", "Create roles"},
	{RolesUpdate, "roles", "Edit roles and their permissions"},
	{RolesDelete, "roles", "Delete roles"},

	{PermissionsRead, "permissions", "View the permission catalog"},
	{PermissionsCreate, "permissions", "Add permissions to the catalog"},
	{PermissionsUpdate, "permissions", "Edit permission descriptions"},

	{ClubsRead, "clubs", "View clubs"},
	{ClubsCreate, "clubs", "Create clubs"},
	{ClubsUpdate, "clubs", "Edit clubs and upload logos"},
	{ClubsDelete, "clubs", "Delete clubs"},

	{GymsRead, "gyms", "View gyms"},
	{GymsCreate, "gyms", "Create gyms"},
	{GymsUpdate, "gyms", "Edit gyms"},
	{GymsDelete, "gyms", "Delete gyms"},

	{OwnershipRead, "ownership", "View club owners"},
	{OwnershipManage, "ownership", "Add, update and remove club owners"},

	{RelationshipsRead, "relationships", "View club and gym links"},
	{RelationshipsManage, "relationships", "Link, relink and unlink clubs and gyms"},
}

// AllKeys returns every key in the default catalog.
func AllKeys() []string {
	keys := make([]string, 0, len(DefaultCatalog))
	for _, e := range DefaultCatalog {
		keys = append(keys, e.Key)
	}
	return keys
}
