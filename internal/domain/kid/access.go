package kid

import "strings"

// Role is the access-policy outcome for one viewer against one kid.
type Role int

const (
	RoleDenied Role = iota
	RolePublicViewer
	RoleSharedEditor
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleSharedEditor:
		return "shared_editor"
	case RolePublicViewer:
		return "public_viewer"
	default:
		return "denied"
	}
}

// CanView reports whether the role may read the kid's dashboard and ledger.
func (r Role) CanView() bool {
	return r != RoleDenied
}

// CanEditLedger reports whether the role may append, edit, or delete
// transactions.
func (r Role) CanEditLedger() bool {
	return r == RoleOwner || r == RoleSharedEditor
}

// CanManage reports whether the role may change settings, sharing,
// visibility, the slug, the name, or delete the kid.
func (r Role) CanManage() bool {
	return r == RoleOwner
}

// Viewer is an authenticated identity. A nil Viewer is an unauthenticated
// request.
type Viewer struct {
	ID    string
	Email string
}

// Authorize resolves the viewer's role for the kid. Rules are evaluated in
// order: owner, shared-with, then the visibility flag.
func Authorize(viewer *Viewer, k *Kid, shares []Share) Role {
	if k == nil {
		return RoleDenied
	}

	if viewer == nil || viewer.ID == "" {
		if k.Public {
			return RolePublicViewer
		}
		return RoleDenied
	}

	if viewer.ID == k.OwnerID {
		return RoleOwner
	}

	email := strings.ToLower(strings.TrimSpace(viewer.Email))
	if email != "" {
		for _, share := range shares {
			if share.Email == email {
				return RoleSharedEditor
			}
		}
	}

	if k.Public {
		return RolePublicViewer
	}
	return RoleDenied
}
