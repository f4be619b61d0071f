package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// permissionsClaim is the payload member that carries granted scopes.
const permissionsClaim = "permissions"

// Claims is the decoded payload of a verified access token. Members are
// kept exactly as the issuer sent them.
type Claims map[string]any

// Subject returns the sub claim, or "" when absent.
func (c Claims) Subject() string {
	sub, _ := jwt.MapClaims(c).GetSubject()
	return sub
}

// Permissions returns the granted scopes and whether the permissions
// member exists at all. Entries that are not strings are skipped.
func (c Claims) Permissions() ([]string, bool) {
	raw, ok := c[permissionsClaim]
	if !ok {
		return nil, false
	}

	var perms []string
	switch v := raw.(type) {
	case []string:
		perms = append(perms, v...)
	case []any:
		for _, p := range v {
			if s, ok := p.(string); ok {
				perms = append(perms, s)
			}
		}
	}
	return perms, true
}

// HasPermission reports whether permission is among the granted scopes.
func (c Claims) HasPermission(permission string) bool {
	perms, _ := c.Permissions()
	return slices.Contains(perms, permission)
}

// CheckPermission confirms that claims grant permission.
func CheckPermission(claims Claims, permission string) error {
	perms, ok := claims.Permissions()
	if !ok {
		return ErrPermissionsClaimMissing
	}
	if !slices.Contains(perms, permission) {
		return ErrPermissionNotGranted
	}
	return nil
}
