package schedule

// Role is a principal's relationship to one schedule. Unlike a global
// permission list, the role is derived per schedule from the owner reference
// and the collaborator rows.
type Role int

const (
	RoleNone Role = iota
	RoleCollaborator
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	default:
		return "none"
	}
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}

// CanView covers schedule detail, shift list, collaborator list and history.
func (r Role) CanView() bool {
	return r != RoleNone
}

// CanAddShift covers creating a shift for oneself with a vocabulary label.
func (r Role) CanAddShift() bool {
	return r != RoleNone
}

// CanUseLabel reports whether the role may record the given label. Owners may
// use arbitrary labels; everyone else is bound to the vocabulary.
func (r Role) CanUseLabel(inVocabulary bool) bool {
	return inVocabulary || r == RoleOwner
}

// CanDeleteShift: the owner deletes any shift, a collaborator only their own
// assignments.
func (r Role) CanDeleteShift(assigneeID, actorID string) bool {
	if r == RoleOwner {
		return true
	}
	return r == RoleCollaborator && assigneeID == actorID
}

// MembershipChecker answers whether a live collaborator row links a user to a
// schedule. Implemented by the collaborator repository.
type MembershipChecker interface {
	IsCollaborator(scheduleID, userID string) (bool, error)
}

// Access is the evaluator every operation consults before mutating a
// schedule or anything it owns.
type Access struct {
	members MembershipChecker
}

func NewAccess(members MembershipChecker) *Access {
	return &Access{members: members}
}

func (a *Access) RoleOf(userID string, s *Schedule) (Role, error) {
	if s.OwnerID == userID {
		return RoleOwner, nil
	}
	isMember, err := a.members.IsCollaborator(s.ID, userID)
	if err != nil {
		return RoleNone, err
	}
	if isMember {
		return RoleCollaborator, nil
	}
	return RoleNone, nil
}
