package utils

import (
	"testing"

	"draman-bot/model"

	"github.com/stretchr/testify/assert"
)

var testPolicy = model.PermissionPolicy{
	ProtectedID:    42,
	AdminRoles:     []string{"Administrateur", "Administrator", "Admin", "Owner"},
	ModeratorRoles: []string{"Modérateur", "Moderator", "Mod", "Administrateur", "Administrator", "Admin"},
}

func TestPermissionLevel(t *testing.T) {
	tests := []struct {
		name   string
		member *model.Member
		want   model.PermissionLevel
	}{
		{
			name:   "protected without roles",
			member: &model.Member{ID: 42},
			want:   model.LevelProtected,
		},
		{
			name:   "protected wins over admin flag and roles",
			member: &model.Member{ID: 42, Administrator: true, Roles: []string{"Mod"}},
			want:   model.LevelProtected,
		},
		{
			name:   "administrator capability",
			member: &model.Member{ID: 1, Administrator: true},
			want:   model.LevelAdmin,
		},
		{
			name:   "admin role name",
			member: &model.Member{ID: 1, Roles: []string{"Member", "Owner"}},
			want:   model.LevelAdmin,
		},
		{
			name:   "name in both lists resolves to admin",
			member: &model.Member{ID: 1, Roles: []string{"Admin"}},
			want:   model.LevelAdmin,
		},
		{
			name:   "moderator role name",
			member: &model.Member{ID: 1, Roles: []string{"Modérateur"}},
			want:   model.LevelModerator,
		},
		{
			name:   "role names are case sensitive",
			member: &model.Member{ID: 1, Roles: []string{"moderator", "ADMIN"}},
			want:   model.LevelNormal,
		},
		{
			name:   "no roles",
			member: &model.Member{ID: 1},
			want:   model.LevelNormal,
		},
		{
			name: "nil member",
			want: model.LevelNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionLevel(tt.member, testPolicy))
		})
	}
}

func TestPermissionLevel_ZeroProtectedIDMatchesNobody(t *testing.T) {
	policy := testPolicy
	policy.ProtectedID = 0
	assert.Equal(t, model.LevelNormal, PermissionLevel(&model.Member{ID: 0}, policy))
	assert.False(t, IsProtected(0, policy))
}

func TestPredicates(t *testing.T) {
	mod := &model.Member{ID: 1, Roles: []string{"Mod"}}
	admin := &model.Member{ID: 2, Administrator: true}
	normal := &model.Member{ID: 3}

	assert.True(t, IsAtLeastModerator(mod, testPolicy))
	assert.False(t, IsAtLeastAdmin(mod, testPolicy))
	assert.True(t, IsAtLeastAdmin(admin, testPolicy))
	assert.False(t, IsAtLeastModerator(normal, testPolicy))
	assert.True(t, IsProtected(42, testPolicy))
	assert.False(t, IsProtected(3, testPolicy))
}
