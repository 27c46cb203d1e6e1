package collaborator

import (
	internal "github.com/frahmantamala/shift-management/internal"
)

// MaxCollaborators is the free-tier cap on live collaborator rows per
// schedule. The owner is not counted; owners are never stored as
// collaborators of their own schedule.
const MaxCollaborators = 5

// Member is a collaborator row joined with the user's identity attributes.
type Member struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// JoinStatus distinguishes the three non-error outcomes of a join attempt.
type JoinStatus int

const (
	JoinStatusJoined JoinStatus = iota
	JoinStatusAlreadyMember
	JoinStatusOwner
)

func (s JoinStatus) String() string {
	switch s {
	case JoinStatusJoined:
		return "joined"
	case JoinStatusAlreadyMember:
		return "already_member"
	default:
		return "owner"
	}
}

var ErrCollaboratorCap = internal.NewCapacityError(
	"schedule already has the maximum number of collaborators",
	internal.ErrCodeCollaboratorCap)
