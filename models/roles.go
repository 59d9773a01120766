// models/roles.go - Role taxonomies and display/wire translation
package models

// PlatformRole is the account-wide privilege level delivered by the identity
// provider. It is independent of any team.
type PlatformRole string

const (
	PlatformRoleNone    PlatformRole = "None"
	PlatformRoleUsuario PlatformRole = "Usuario"
	PlatformRolePlayer  PlatformRole = "Player"
	PlatformRoleCoach   PlatformRole = "Coach"
	PlatformRoleAdmin   PlatformRole = "Admin"
)

// TeamRole is a user's capacity within one specific team. None is a plain
// roster player; Capitan and Coach carry management authority.
type TeamRole string

const (
	TeamRoleNone    TeamRole = "None"
	TeamRoleCaptain TeamRole = "Capitan"
	TeamRoleCoach   TeamRole = "Coach"
)

var platformRoleLabels = map[PlatformRole]string{
	PlatformRoleNone:    "Básico",
	PlatformRoleUsuario: "Usuario",
	PlatformRolePlayer:  "Jugador",
	PlatformRoleCoach:   "Entrenador",
	PlatformRoleAdmin:   "Administrador",
}

// Bit-flag encoding used when a platform role must be serialized compactly.
var platformRoleFlags = map[PlatformRole]int{
	PlatformRoleNone:    0,
	PlatformRoleUsuario: 1,
	PlatformRolePlayer:  2,
	PlatformRoleCoach:   4,
	PlatformRoleAdmin:   8,
}

var teamRoleLabels = map[TeamRole]string{
	TeamRoleNone:    "Jugador",
	TeamRoleCaptain: "Capitán",
	TeamRoleCoach:   "Entrenador",
}

// PlatformRoleLabel returns the Spanish display label for a raw platform role
// code. Unrecognized codes are echoed back unchanged: clients already render
// raw codes they do not know, and a hard error here would turn a cosmetic gap
// into an outage. Kept deliberately lenient.
func PlatformRoleLabel(raw string) string {
	if label, ok := platformRoleLabels[PlatformRole(raw)]; ok {
		return label
	}
	return raw
}

// PlatformRoleFromLabel is the inverse of PlatformRoleLabel. Unknown labels
// are echoed back unchanged (same leniency policy).
func PlatformRoleFromLabel(label string) string {
	for role, l := range platformRoleLabels {
		if l == label {
			return string(role)
		}
	}
	return label
}

// PlatformRoleFlag returns the compact numeric encoding of a platform role.
func PlatformRoleFlag(role PlatformRole) int {
	return platformRoleFlags[role]
}

// PlatformRoleFromFlag decodes the compact numeric encoding. Unknown flags
// decode to PlatformRoleNone.
func PlatformRoleFromFlag(flag int) PlatformRole {
	for role, f := range platformRoleFlags {
		if f == flag {
			return role
		}
	}
	return PlatformRoleNone
}

// TeamRoleLabel returns the Spanish display label for a raw team role code.
// Unrecognized codes are echoed back unchanged.
func TeamRoleLabel(raw string) string {
	if label, ok := teamRoleLabels[TeamRole(raw)]; ok {
		return label
	}
	return raw
}

// TeamRoleFromLabel is the inverse of TeamRoleLabel. Unknown labels are
// echoed back unchanged.
func TeamRoleFromLabel(label string) string {
	for role, l := range teamRoleLabels {
		if l == label {
			return string(role)
		}
	}
	return label
}

// ValidTeamRole reports whether raw names a known team role code.
func ValidTeamRole(raw string) bool {
	_, ok := teamRoleLabels[TeamRole(raw)]
	return ok
}

// ValidPlatformRole reports whether raw names a known platform role code.
func ValidPlatformRole(raw string) bool {
	_, ok := platformRoleLabels[PlatformRole(raw)]
	return ok
}
