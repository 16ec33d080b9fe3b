// Package authz holds the household permission matrix. The matrix is fixed
// at compile time; services consult it before every mutation so a capability
// the UI hides cannot be reached by calling the API directly.
package authz

import "hestia/internal/models"

// Action is a capability gated by the household role matrix.
type Action string

const (
	ManageHousehold Action = "manage_household"
	DeleteHousehold Action = "delete_household"
	InviteMembers   Action = "invite_members"
	RemoveMembers   Action = "remove_members"
	ChangeRoles     Action = "change_roles"
	EditItems       Action = "edit_items"
)

// permissions maps each role to the actions it may perform.
var permissions = map[models.MemberRole]map[Action]bool{
	models.RoleAdmin: {
		ManageHousehold: true,
		DeleteHousehold: true,
		InviteMembers:   true,
		RemoveMembers:   true,
		ChangeRoles:     true,
		EditItems:       true,
	},
	models.RoleManager: {
		InviteMembers: true,
		RemoveMembers: true, // plain members only, see CanRemove
		EditItems:     true,
	},
	models.RoleMember: {
		EditItems: true,
	},
}

// Can reports whether a role may perform the given action.
func Can(role models.MemberRole, action Action) bool {
	return permissions[role][action]
}

// CanRemove reports whether an actor role may remove a member holding the
// target role. Admins may remove anyone; managers only plain members.
func CanRemove(actor, target models.MemberRole) bool {
	if !Can(actor, RemoveMembers) {
		return false
	}
	if actor == models.RoleManager {
		return target == models.RoleMember
	}
	return true
}
