package services

import (
	"code-review-api/apperrors"
	"code-review-api/models"
)

// Identity is the verified (user id, role) pair resolved for a request.
// The zero value is an unauthenticated caller.
type Identity struct {
	UserID uint
	Role   models.Role
}

// Authenticated reports whether the identity carries a user and a known role.
func (i Identity) Authenticated() bool {
	return i.UserID != 0 && i.Role.Valid()
}

func (i Identity) IsReviewer() bool {
	return i.Role == models.RoleReviewer
}

// Capability names an operation kind evaluated by Authorize.
type Capability int

const (
	CapCreateProject Capability = iota + 1
	CapManageProject
	CapManageMembers
	CapCreateSubmission
	CapEditSubmission
	CapDeleteSubmission
	CapForceSetStatus
	CapDecide
	CapCorrectDecision
	CapCreateComment
	CapEditComment
	CapEditUser
	CapRead
)

// ResourceFacts are the ownership and membership facts of the target resource,
// gathered by the calling service after the resource is known to exist.
type ResourceFacts struct {
	// ProjectOwnerID is the created_by of the project the resource belongs to.
	ProjectOwnerID uint
	// IsMember is true when the caller holds a membership row on that project.
	IsMember bool
	// AuthorID is the fixed author of the resource (submission, comment) or
	// the subject user for user records.
	AuthorID uint
}

type rule struct {
	allow  func(id Identity, facts ResourceFacts) bool
	denied string
}

func isOwner(id Identity, facts ResourceFacts) bool {
	return facts.ProjectOwnerID != 0 && facts.ProjectOwnerID == id.UserID
}

func isAuthor(id Identity, facts ResourceFacts) bool {
	return facts.AuthorID != 0 && facts.AuthorID == id.UserID
}

func anyone(Identity, ResourceFacts) bool { return true }

var permissions = map[Capability]rule{
	CapCreateProject: {
		allow:  anyone,
		denied: "Authentication required to create projects",
	},
	CapManageProject: {
		allow:  isOwner,
		denied: "Only the project owner can modify the project",
	},
	CapManageMembers: {
		allow:  isOwner,
		denied: "Only the project owner can manage members",
	},
	CapCreateSubmission: {
		allow: func(id Identity, facts ResourceFacts) bool {
			return isOwner(id, facts) || facts.IsMember
		},
		denied: "You must be the project owner or a project member to submit code",
	},
	CapEditSubmission: {
		allow:  isAuthor,
		denied: "Only the submission author can modify the submission",
	},
	CapDeleteSubmission: {
		allow: func(id Identity, facts ResourceFacts) bool {
			return isAuthor(id, facts) || isOwner(id, facts)
		},
		denied: "Only the submission author or the project owner can delete the submission",
	},
	CapForceSetStatus: {
		allow: func(id Identity, facts ResourceFacts) bool {
			return isOwner(id, facts) || id.IsReviewer()
		},
		denied: "Only the project owner or reviewers can change submission status",
	},
	CapDecide: {
		allow: func(id Identity, facts ResourceFacts) bool {
			return isOwner(id, facts) || id.IsReviewer()
		},
		denied: "Only the project owner or reviewers can review submissions",
	},
	CapCorrectDecision: {
		allow:  isAuthor,
		denied: "Only the reviewer who issued a decision can correct it",
	},
	CapCreateComment: {
		allow: func(id Identity, _ ResourceFacts) bool {
			return id.IsReviewer()
		},
		denied: "Only reviewers can add comments",
	},
	CapEditComment: {
		allow:  isAuthor,
		denied: "You can only modify your own comments",
	},
	CapEditUser: {
		allow:  isAuthor,
		denied: "You can only modify your own account",
	},
	CapRead: {
		allow:  anyone,
		denied: "Access denied",
	},
}

// RequireIdentity fails closed for callers without a verified identity.
func RequireIdentity(id Identity) error {
	if !id.Authenticated() {
		return apperrors.Unauthenticated("User not authenticated")
	}
	return nil
}

// Authorize evaluates the permission matrix for one operation. Unknown
// capabilities are denied.
func Authorize(id Identity, capability Capability, facts ResourceFacts) error {
	if err := RequireIdentity(id); err != nil {
		return err
	}
	r, ok := permissions[capability]
	if !ok {
		return apperrors.Forbidden("Access denied")
	}
	if !r.allow(id, facts) {
		return apperrors.Forbidden("%s", r.denied)
	}
	return nil
}
