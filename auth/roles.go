package auth

import "github.com/northbound/siteengine/store"

// roleRank orders the hierarchy. A higher rank satisfies every check a
// lower rank satisfies; unknown roles rank zero and satisfy nothing.
var roleRank = map[store.Role]int{
	store.RoleAdmin:       4,
	store.RoleEditor:      3,
	store.RoleAuthor:      2,
	store.RoleContributor: 1,
}

// RoleRank returns the numeric rank of a role, or 0 for unknown roles.
func RoleRank(r store.Role) int { return roleRank[r] }

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r store.Role) bool { return roleRank[r] > 0 }

// HasRole reports whether the user's role ranks at or above required.
func HasRole(user *store.User, required store.Role) bool {
	if user == nil {
		return false
	}
	rank := roleRank[user.Role]
	return rank > 0 && rank >= roleRank[required]
}

// CanEditPost reports whether the user may edit or delete content owned
// by authorID: editors and above always may; authors may only touch
// their own.
func CanEditPost(user *store.User, authorID string) bool {
	if user == nil {
		return false
	}
	if HasRole(user, store.RoleEditor) {
		return true
	}
	return user.Role == store.RoleAuthor && user.ID == authorID
}

// CanManageUsers reports whether the user may administer accounts.
func CanManageUsers(user *store.User) bool {
	return HasRole(user, store.RoleAdmin)
}

// CanManageTaxonomy reports whether the user may manage categories and
// tags.
func CanManageTaxonomy(user *store.User) bool {
	return HasRole(user, store.RoleEditor)
}

// CanUploadMedia reports whether the user may upload media.
func CanUploadMedia(user *store.User) bool {
	return HasRole(user, store.RoleAuthor)
}
