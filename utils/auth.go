package utils

import "draman-bot/model"

// contains checks if a slice of strings contains an element.
func contains(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// PermissionLevel returns the member's rank. Checks run from the highest level
// down and the first match wins. Role names are compared exactly.
func PermissionLevel(member *model.Member, policy model.PermissionPolicy) model.PermissionLevel {
	if member == nil {
		return model.LevelNormal
	}
	if IsProtected(member.ID, policy) {
		return model.LevelProtected
	}
	if member.Administrator {
		return model.LevelAdmin
	}

	// Admin check
	for _, role := range member.Roles {
		if contains(policy.AdminRoles, role) {
			return model.LevelAdmin
		}
	}

	// Moderator check
	for _, role := range member.Roles {
		if contains(policy.ModeratorRoles, role) {
			return model.LevelModerator
		}
	}

	return model.LevelNormal
}

// IsProtected reports whether id is the protected identity.
func IsProtected(id int64, policy model.PermissionPolicy) bool {
	return policy.ProtectedID != 0 && id == policy.ProtectedID
}

func IsAtLeastModerator(member *model.Member, policy model.PermissionPolicy) bool {
	return PermissionLevel(member, policy) >= model.LevelModerator
}

func IsAtLeastAdmin(member *model.Member, policy model.PermissionPolicy) bool {
	return PermissionLevel(member, policy) >= model.LevelAdmin
}
