// services/authorization.go - Roster action authorization rules
package services

import (
	"arenahub/models"
)

// Action is a roster or event action submitted for an authorization decision.
type Action string

const (
	ActionCreateTeam   Action = "createTeam"
	ActionInvitePlayer Action = "invitePlayer"
	ActionRemoveMember Action = "removeMember"
	ActionEditTeam     Action = "editTeam"
	ActionCreateEvent  Action = "createEvent"
	ActionManageAgenda Action = "manageAgendaForTeam"
	ActionExitTeam     Action = "exitTeam"
	ActionViewRoster   Action = "viewRoster"
)

// Subject is the already-authenticated actor an authorization decision is
// made for. IsMember must reflect whether the actor holds an active
// membership on the team the action targets.
type Subject struct {
	PlatformRole models.PlatformRole
	TeamRole     models.TeamRole
	IsMember     bool
}

// Decision is the outcome of an authorization check. Reason is only set on
// denial and is surfaced verbatim as the error detail.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Can decides whether the subject may perform the action. It is a pure
// function: no state is read or written, and callers must check the decision
// before any mutation.
func Can(sub Subject, action Action) Decision {
	switch action {
	case ActionCreateTeam:
		if sub.PlatformRole == models.PlatformRoleNone || sub.PlatformRole == "" {
			return deny("an account is required to create a team")
		}
		return allow()

	case ActionInvitePlayer, ActionRemoveMember, ActionEditTeam:
		if sub.TeamRole == models.TeamRoleCaptain || sub.TeamRole == models.TeamRoleCoach {
			return allow()
		}
		return deny("only the team captain or coach can " + string(action))

	case ActionCreateEvent, ActionManageAgenda:
		// Team-independent: coaches manage events for all their teams.
		if sub.PlatformRole == models.PlatformRoleCoach {
			return allow()
		}
		return deny("only coaches can manage events")

	case ActionExitTeam:
		return allow()

	case ActionViewRoster:
		if sub.IsMember {
			return allow()
		}
		return deny("only team members can view the roster")
	}

	return deny("unknown action " + string(action))
}

// CanManageTeam reports whether the team role carries management authority
// over the team. The event and tournament subsystems consume this as their
// single yes/no fact about team control.
func CanManageTeam(teamRole models.TeamRole) bool {
	return teamRole == models.TeamRoleCaptain || teamRole == models.TeamRoleCoach
}
