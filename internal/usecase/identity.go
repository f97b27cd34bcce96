package usecase

import "telegram-support-bridge/internal/domain/model"

// ResolveRole grants admin only when a secret is configured and presented exactly.
// With no configured secret nobody can claim admin.
func ResolveRole(presented, configured string) model.Role {
	if configured != "" && presented == configured {
		return model.RoleAdmin
	}
	return model.RoleUser
}
