// Package policy holds the role and ownership rules gating every feedback
// operation. The functions are pure: callers pre-fetch every entity involved.
package policy

import "github.com/garnizeh/feedback/internal/models"

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// CanSubmitFeedback allows a manager to write feedback for an employee of the
// team they manage. actorTeam is the team managed by actor, nil if none.
func CanSubmitFeedback(actor, recipient *models.User, actorTeam *models.Team) Decision {
	if actor == nil || recipient == nil {
		return deny("unknown user")
	}

	switch actor.Role {
	case models.RoleManager:
	case models.RoleEmployee:
		return deny("only managers can submit feedback")
	default:
		return deny("unrecognized role")
	}

	switch recipient.Role {
	case models.RoleEmployee:
	case models.RoleManager:
		return deny("feedback can only be given to employees")
	default:
		return deny("unrecognized recipient role")
	}

	if actorTeam == nil || actorTeam.ManagerID != actor.ID {
		return deny("you do not manage a team")
	}
	if !recipient.InTeam(actorTeam.ID) {
		return deny("recipient is not on your team")
	}

	return allow()
}

// CanUpdateFeedback allows the authoring manager to edit a feedback record.
func CanUpdateFeedback(actor *models.User, f *models.Feedback) Decision {
	if actor == nil || f == nil {
		return deny("unknown user or feedback")
	}

	switch actor.Role {
	case models.RoleManager:
		if f.AuthorID != actor.ID {
			return deny("only the author can update this feedback")
		}
		return allow()
	case models.RoleEmployee:
		return deny("only managers can update feedback")
	default:
		return deny("unrecognized role")
	}
}

// CanAcknowledge allows the recipient employee to acknowledge a feedback record.
func CanAcknowledge(actor *models.User, f *models.Feedback) Decision {
	if actor == nil || f == nil {
		return deny("unknown user or feedback")
	}

	switch actor.Role {
	case models.RoleEmployee:
		if f.RecipientID != actor.ID {
			return deny("only the recipient can acknowledge this feedback")
		}
		return allow()
	case models.RoleManager:
		return deny("only employees can acknowledge feedback")
	default:
		return deny("unrecognized role")
	}
}

// CanViewTeam allows managers to list their team.
func CanViewTeam(actor *models.User) Decision {
	if actor == nil {
		return deny("unknown user")
	}

	switch actor.Role {
	case models.RoleManager:
		return allow()
	case models.RoleEmployee:
		return deny("only managers can view teams")
	default:
		return deny("unrecognized role")
	}
}
