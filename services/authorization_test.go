package services

import (
	"testing"

	"arenahub/models"

	"github.com/stretchr/testify/assert"
)

func TestCanCreateTeam(t *testing.T) {
	assert.True(t, Can(Subject{PlatformRole: models.PlatformRoleUsuario}, ActionCreateTeam).Allowed)
	assert.True(t, Can(Subject{PlatformRole: models.PlatformRolePlayer}, ActionCreateTeam).Allowed)
	assert.True(t, Can(Subject{PlatformRole: models.PlatformRoleAdmin}, ActionCreateTeam).Allowed)

	decision := Can(Subject{PlatformRole: models.PlatformRoleNone}, ActionCreateTeam)
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)

	assert.False(t, Can(Subject{}, ActionCreateTeam).Allowed)
}

func TestCanLeaderOnlyActions(t *testing.T) {
	for _, action := range []Action{ActionInvitePlayer, ActionRemoveMember, ActionEditTeam} {
		assert.True(t, Can(Subject{TeamRole: models.TeamRoleCaptain, IsMember: true}, action).Allowed, string(action))
		assert.True(t, Can(Subject{TeamRole: models.TeamRoleCoach, IsMember: true}, action).Allowed, string(action))

		decision := Can(Subject{TeamRole: models.TeamRoleNone, IsMember: true}, action)
		assert.False(t, decision.Allowed, string(action))
		assert.NotEmpty(t, decision.Reason)
	}
}

func TestCanEventActionsRequirePlatformCoach(t *testing.T) {
	for _, action := range []Action{ActionCreateEvent, ActionManageAgenda} {
		assert.True(t, Can(Subject{PlatformRole: models.PlatformRoleCoach}, action).Allowed)

		// Team captain without the platform Coach role cannot manage events.
		assert.False(t, Can(Subject{
			PlatformRole: models.PlatformRolePlayer,
			TeamRole:     models.TeamRoleCaptain,
			IsMember:     true,
		}, action).Allowed)
	}
}

func TestCanExitTeamAlwaysAllowed(t *testing.T) {
	assert.True(t, Can(Subject{TeamRole: models.TeamRoleNone, IsMember: true}, ActionExitTeam).Allowed)
	assert.True(t, Can(Subject{TeamRole: models.TeamRoleCaptain, IsMember: true}, ActionExitTeam).Allowed)
}

func TestCanViewRoster(t *testing.T) {
	assert.True(t, Can(Subject{TeamRole: models.TeamRoleNone, IsMember: true}, ActionViewRoster).Allowed)
	assert.False(t, Can(Subject{IsMember: false}, ActionViewRoster).Allowed)
}

func TestCanUnknownActionDenied(t *testing.T) {
	decision := Can(Subject{PlatformRole: models.PlatformRoleAdmin, TeamRole: models.TeamRoleCaptain}, Action("deleteTeam"))
	assert.False(t, decision.Allowed)
}

func TestCanManageTeam(t *testing.T) {
	assert.True(t, CanManageTeam(models.TeamRoleCaptain))
	assert.True(t, CanManageTeam(models.TeamRoleCoach))
	assert.False(t, CanManageTeam(models.TeamRoleNone))
}
