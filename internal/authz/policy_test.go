package authz

import (
	"testing"

	"hestia/internal/models"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role   models.MemberRole
		action Action
		want   bool
	}{
		{models.RoleAdmin, ManageHousehold, true},
		{models.RoleAdmin, DeleteHousehold, true},
		{models.RoleAdmin, ChangeRoles, true},
		{models.RoleManager, ManageHousehold, false},
		{models.RoleManager, DeleteHousehold, false},
		{models.RoleManager, InviteMembers, true},
		{models.RoleManager, ChangeRoles, false},
		{models.RoleMember, InviteMembers, false},
		{models.RoleMember, RemoveMembers, false},
		// All roles may edit shopping and budget items.
		{models.RoleAdmin, EditItems, true},
		{models.RoleManager, EditItems, true},
		{models.RoleMember, EditItems, true},
	}

	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestCanRemove(t *testing.T) {
	cases := []struct {
		actor, target models.MemberRole
		want          bool
	}{
		{models.RoleAdmin, models.RoleAdmin, true},
		{models.RoleAdmin, models.RoleManager, true},
		{models.RoleAdmin, models.RoleMember, true},
		{models.RoleManager, models.RoleMember, true},
		{models.RoleManager, models.RoleManager, false},
		{models.RoleManager, models.RoleAdmin, false},
		{models.RoleMember, models.RoleMember, false},
	}

	for _, tc := range cases {
		if got := CanRemove(tc.actor, tc.target); got != tc.want {
			t.Errorf("CanRemove(%s, %s) = %v, want %v", tc.actor, tc.target, got, tc.want)
		}
	}
}
