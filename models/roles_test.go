package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformRoleLabels(t *testing.T) {
	cases := []struct {
		raw   string
		label string
	}{
		{"None", "Básico"},
		{"Usuario", "Usuario"},
		{"Player", "Jugador"},
		{"Coach", "Entrenador"},
		{"Admin", "Administrador"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.label, PlatformRoleLabel(tc.raw))
		assert.Equal(t, tc.raw, PlatformRoleFromLabel(tc.label))
	}
}

func TestPlatformRoleLabelEchoesUnknown(t *testing.T) {
	assert.Equal(t, "Moderator", PlatformRoleLabel("Moderator"))
	assert.Equal(t, "Moderador", PlatformRoleFromLabel("Moderador"))
}

func TestPlatformRoleFlags(t *testing.T) {
	cases := []struct {
		role PlatformRole
		flag int
	}{
		{PlatformRoleNone, 0},
		{PlatformRoleUsuario, 1},
		{PlatformRolePlayer, 2},
		{PlatformRoleCoach, 4},
		{PlatformRoleAdmin, 8},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.flag, PlatformRoleFlag(tc.role))
		assert.Equal(t, tc.role, PlatformRoleFromFlag(tc.flag))
	}

	assert.Equal(t, PlatformRoleNone, PlatformRoleFromFlag(16))
}

func TestTeamRoleLabels(t *testing.T) {
	assert.Equal(t, "Jugador", TeamRoleLabel("None"))
	assert.Equal(t, "Capitán", TeamRoleLabel("Capitan"))
	assert.Equal(t, "Entrenador", TeamRoleLabel("Coach"))

	assert.Equal(t, "Capitan", TeamRoleFromLabel("Capitán"))
	assert.Equal(t, "None", TeamRoleFromLabel("Jugador"))
}

func TestTeamRoleLabelEchoesUnknown(t *testing.T) {
	assert.Equal(t, "Suplente", TeamRoleLabel("Suplente"))
}

func TestValidTeamRole(t *testing.T) {
	assert.True(t, ValidTeamRole("Capitan"))
	assert.True(t, ValidTeamRole("None"))
	assert.False(t, ValidTeamRole("Capitán")) // display label, not a raw code
	assert.False(t, ValidTeamRole("Owner"))
}
