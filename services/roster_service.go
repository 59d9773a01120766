// services/roster_service.go - Team Roster Business Logic
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"arenahub/apperrors"
	"arenahub/models"

	"gorm.io/gorm"
)

// teamLocks serializes mutations per team. Every roster or invitation
// mutation runs under the lock of the team it targets. Idle entries are
// pruned once the map grows past teamLockPruneThreshold, same discipline
// as the rate limiter's bucket cleanup.
const (
	teamLockPruneThreshold = 1024
	teamLockMaxIdle        = 30 * time.Minute
)

type teamLock struct {
	sync.Mutex
	lastUsed time.Time
}

type teamLocks struct {
	mu    sync.Mutex
	locks map[uint]*teamLock
}

func newTeamLocks() *teamLocks {
	return &teamLocks{locks: make(map[uint]*teamLock)}
}

func (l *teamLocks) lock(teamID uint) func() {
	l.mu.Lock()
	e, ok := l.locks[teamID]
	if !ok {
		if len(l.locks) >= teamLockPruneThreshold {
			l.prune()
		}
		e = &teamLock{}
		l.locks[teamID] = e
	}
	e.lastUsed = time.Now()
	l.mu.Unlock()

	e.Lock()
	return e.Unlock
}

// prune drops entries idle past teamLockMaxIdle. Caller holds l.mu, so
// lastUsed is stable; TryLock skips entries that are held or waited on.
func (l *teamLocks) prune() {
	cutoff := time.Now().Add(-teamLockMaxIdle)
	for id, e := range l.locks {
		if e.lastUsed.Before(cutoff) && e.TryLock() {
			e.Unlock()
			delete(l.locks, id)
		}
	}
}

// RosterService owns Team and Membership. No other component writes them;
// InvitationService requests membership writes through CreateMembershipTx.
type RosterService struct {
	db    *gorm.DB
	locks *teamLocks
}

func NewRosterService(db *gorm.DB) *RosterService {
	return &RosterService{db: db, locks: newTeamLocks()}
}

// ================== RESPONSE SHAPES ==================

type TeamMemberInfo struct {
	UserID    uint   `json:"userId"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	TeamRole  string `json:"teamRole"` // display label
}

type MemberRole struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"` // raw role code
}

type TeamInfo struct {
	TeamID            uint             `json:"teamId"`
	TeamName          string           `json:"teamName"`
	ImageURL          string           `json:"imageUrl,omitempty"`
	Members           []TeamMemberInfo `json:"members"`
	MembersRole       []MemberRole     `json:"membersRole"`
	Wins              int              `json:"wins"`
	TournamentsPlayed int              `json:"tournamentsPlayed"`
	MatchesPlayed     int              `json:"matchesPlayed"`
}

type TeamSummary struct {
	TeamID            uint   `json:"teamId"`
	TeamName          string `json:"teamName"`
	TeamLogo          string `json:"teamLogo,omitempty"`
	MemberCount       int    `json:"memberCount"`
	TournamentsPlayed int    `json:"tournamentsPlayed"`
	MatchesPlayed     int    `json:"matchesPlayed"`
	Wins              int    `json:"wins"`
}

// ================== TEAM OPERATIONS ==================

// CreateTeam creates a team and its founding membership atomically. The
// founder must request Capitan or Coach and is granted that role with no
// approval step. The team name is immutable afterwards.
func (s *RosterService) CreateTeam(creatorID uint, platformRole models.PlatformRole, name string, teamRole models.TeamRole, imageURL string) (*models.Team, error) {
	if decision := Can(Subject{PlatformRole: platformRole}, ActionCreateTeam); !decision.Allowed {
		return nil, apperrors.NewUnauthorized(decision.Reason)
	}

	if name == "" {
		return nil, apperrors.NewValidation("team name is required")
	}

	if teamRole != models.TeamRoleCaptain && teamRole != models.TeamRoleCoach {
		return nil, apperrors.NewValidation("team role must be Capitan or Coach")
	}

	code, err := s.generateUniqueTeamCode()
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:      name,
		TeamCode:  code,
		ImageURL:  imageURL,
		CreatorID: creatorID,
		CreatedAt: time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Single-team constraint: the founder must be membership-free.
		var existing int64
		if err := tx.Model(&models.Membership{}).
			Where("user_id = ? AND is_active = ?", creatorID, true).
			Count(&existing).Error; err != nil {
			return apperrors.NewInternal("failed to check memberships", err)
		}
		if existing > 0 {
			return apperrors.NewConflict("user already belongs to a team")
		}

		if err := tx.Create(team).Error; err != nil {
			return apperrors.NewInternal("failed to create team", err)
		}

		member := &models.Membership{
			TeamID:   team.ID,
			UserID:   creatorID,
			TeamRole: teamRole,
			IsActive: true,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return apperrors.NewInternal("failed to create founding membership", err)
		}

		return assertRosterInvariants(tx, team.ID, creatorID)
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetTeamInfo returns the team with its roster, member display data merged
// with raw role codes translated to display labels.
func (s *RosterService) GetTeamInfo(teamID uint) (*TeamInfo, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("team not found")
		}
		return nil, apperrors.NewInternal("failed to load team", err)
	}

	var members []models.Membership
	if err := s.db.Where("team_id = ? AND is_active = ?", teamID, true).
		Preload("User").
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, apperrors.NewInternal("failed to load members", err)
	}

	info := &TeamInfo{
		TeamID:            team.ID,
		TeamName:          team.Name,
		ImageURL:          team.ImageURL,
		Members:           make([]TeamMemberInfo, 0, len(members)),
		MembersRole:       make([]MemberRole, 0, len(members)),
		Wins:              team.Wins,
		TournamentsPlayed: team.TournamentsPlayed,
		MatchesPlayed:     team.MatchesPlayed,
	}

	for _, m := range members {
		display := models.TeamRoleLabel(string(m.TeamRole))
		if m.IsAlternate && m.TeamRole == models.TeamRoleNone {
			display = "Suplente"
		}

		member := TeamMemberInfo{UserID: m.UserID, TeamRole: display}
		if m.User != nil {
			member.Username = m.User.Username
			member.FirstName = m.User.FirstName
			member.LastName = m.User.LastName
		}

		info.Members = append(info.Members, member)
		info.MembersRole = append(info.MembersRole, MemberRole{UserID: m.UserID, Role: string(m.TeamRole)})
	}

	return info, nil
}

// GetTeamsForUser returns the teams where the user holds Capitan or Coach,
// feeding the "my teams" roster view for multi-team coaches.
func (s *RosterService) GetTeamsForUser(userID uint) ([]TeamSummary, error) {
	var teams []models.Team
	err := s.db.Joins("JOIN memberships ON memberships.team_id = teams.id").
		Where("memberships.user_id = ? AND memberships.is_active = ? AND memberships.team_role IN ?",
			userID, true, []models.TeamRole{models.TeamRoleCaptain, models.TeamRoleCoach}).
		Find(&teams).Error
	if err != nil {
		return nil, apperrors.NewInternal("failed to load teams", err)
	}

	summaries := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		var count int64
		if err := s.db.Model(&models.Membership{}).
			Where("team_id = ? AND is_active = ?", t.ID, true).
			Count(&count).Error; err != nil {
			return nil, apperrors.NewInternal("failed to count members", err)
		}

		summaries = append(summaries, TeamSummary{
			TeamID:            t.ID,
			TeamName:          t.Name,
			TeamLogo:          t.ImageURL,
			MemberCount:       int(count),
			TournamentsPlayed: t.TournamentsPlayed,
			MatchesPlayed:     t.MatchesPlayed,
			Wins:              t.Wins,
		})
	}

	return summaries, nil
}

// JoinTeamByCode adds the user to a team as a plain player via its join code.
func (s *RosterService) JoinTeamByCode(userID uint, code string) (*models.Team, error) {
	if code == "" {
		return nil, apperrors.NewValidation("team code is required")
	}

	var team models.Team
	if err := s.db.Where("team_code = ?", code).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("team not found")
		}
		return nil, apperrors.NewInternal("failed to load team", err)
	}

	unlock := s.locks.lock(team.ID)
	defer unlock()

	if err := s.CreateMembership(team.ID, userID, models.TeamRoleNone); err != nil {
		return nil, err
	}

	return &team, nil
}

// UpdateTeamImage updates the team image. The name is immutable, so this is
// the only team field leaders can edit.
func (s *RosterService) UpdateTeamImage(actorUserID, teamID uint, imageURL string) error {
	unlock := s.locks.lock(teamID)
	defer unlock()

	actor, err := s.membershipIn(teamID, actorUserID)
	if err != nil {
		return err
	}

	if decision := Can(Subject{TeamRole: actor.TeamRole, IsMember: true}, ActionEditTeam); !decision.Allowed {
		return apperrors.NewUnauthorized(decision.Reason)
	}

	if err := s.db.Model(&models.Team{}).Where("id = ?", teamID).
		Update("image_url", imageURL).Error; err != nil {
		return apperrors.NewInternal("failed to update team image", err)
	}

	return nil
}

// ================== MEMBERSHIP OPERATIONS ==================

// CreateMembership adds a user to a team. Callers must hold the team lock.
// Used on invitation acceptance and on join-by-code.
func (s *RosterService) CreateMembership(teamID, userID uint, role models.TeamRole) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.CreateMembershipTx(tx, teamID, userID, role)
	})
}

// CreateMembershipTx is the transactional variant, letting InvitationService
// join the membership write with the invitation state transition so both
// succeed or both fail.
func (s *RosterService) CreateMembershipTx(tx *gorm.DB, teamID, userID uint, role models.TeamRole) error {
	var team models.Team
	if err := tx.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("team not found")
		}
		return apperrors.NewInternal("failed to load team", err)
	}

	var existing int64
	if err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&existing).Error; err != nil {
		return apperrors.NewInternal("failed to check memberships", err)
	}
	if existing > 0 {
		return apperrors.NewConflict("user already belongs to a team")
	}

	if role == models.TeamRoleCaptain || role == models.TeamRoleCoach {
		var leaders int64
		if err := tx.Model(&models.Membership{}).
			Where("team_id = ? AND team_role = ? AND is_active = ?", teamID, role, true).
			Count(&leaders).Error; err != nil {
			return apperrors.NewInternal("failed to check team leaders", err)
		}
		if leaders > 0 {
			return apperrors.NewConflict("team already has a " + models.TeamRoleLabel(string(role)))
		}
	}

	member := &models.Membership{
		TeamID:   teamID,
		UserID:   userID,
		TeamRole: role,
		IsActive: true,
		JoinedAt: time.Now(),
	}
	if err := tx.Create(member).Error; err != nil {
		return apperrors.NewInternal("failed to create membership", err)
	}

	return assertRosterInvariants(tx, teamID, userID)
}

// RemoveMember deletes the target's membership. Only a Capitan or Coach may
// remove members, and leaders cannot be removed this way: they exit
// themselves or are replaced by a transfer flow outside this service.
func (s *RosterService) RemoveMember(actorUserID, teamID, targetUserID uint) error {
	unlock := s.locks.lock(teamID)
	defer unlock()

	actor, err := s.membershipIn(teamID, actorUserID)
	if err != nil {
		return err
	}

	if decision := Can(Subject{TeamRole: actor.TeamRole, IsMember: true}, ActionRemoveMember); !decision.Allowed {
		return apperrors.NewUnauthorized(decision.Reason)
	}

	var target models.Membership
	if err := s.db.Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, targetUserID, true).
		First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("member not found")
		}
		return apperrors.NewInternal("failed to load member", err)
	}

	if target.IsLeader() {
		return apperrors.NewInvalidState("cannot remove a team leader")
	}

	if err := s.db.Model(&target).Update("is_active", false).Error; err != nil {
		return apperrors.NewInternal("failed to remove member", err)
	}

	return nil
}

// ExitTeam is self-service removal. A sole Capitan/Coach cannot exit while
// other members remain: the exit is blocked until a successor holds a
// leader role. The last member of a team may always leave.
func (s *RosterService) ExitTeam(userID, teamID uint) error {
	unlock := s.locks.lock(teamID)
	defer unlock()

	member, err := s.membershipIn(teamID, userID)
	if err != nil {
		return err
	}

	if decision := Can(Subject{TeamRole: member.TeamRole, IsMember: true}, ActionExitTeam); !decision.Allowed {
		return apperrors.NewUnauthorized(decision.Reason)
	}

	if member.IsLeader() {
		var otherLeaders, otherMembers int64
		if err := s.db.Model(&models.Membership{}).
			Where("team_id = ? AND user_id <> ? AND is_active = ? AND team_role IN ?",
				teamID, userID, true, []models.TeamRole{models.TeamRoleCaptain, models.TeamRoleCoach}).
			Count(&otherLeaders).Error; err != nil {
			return apperrors.NewInternal("failed to check team leaders", err)
		}
		if err := s.db.Model(&models.Membership{}).
			Where("team_id = ? AND user_id <> ? AND is_active = ?", teamID, userID, true).
			Count(&otherMembers).Error; err != nil {
			return apperrors.NewInternal("failed to check team members", err)
		}

		if otherLeaders == 0 && otherMembers > 0 {
			return apperrors.NewInvalidState("assign a new captain or coach before leaving the team")
		}
	}

	if err := s.db.Model(member).Update("is_active", false).Error; err != nil {
		return apperrors.NewInternal("failed to exit team", err)
	}

	return nil
}

// MembershipFor returns the user's active membership on the team, if any.
func (s *RosterService) MembershipFor(teamID, userID uint) (*models.Membership, error) {
	return s.membershipIn(teamID, userID)
}

// ActiveMembership returns the user's active membership anywhere, or nil.
func (s *RosterService) ActiveMembership(userID uint) (*models.Membership, error) {
	var member models.Membership
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternal("failed to load membership", err)
	}
	return &member, nil
}

// ================== HELPERS ==================

func (s *RosterService) membershipIn(teamID, userID uint) (*models.Membership, error) {
	var member models.Membership
	err := s.db.Where("team_id = ? AND user_id = ? AND is_active = ?", teamID, userID, true).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewUnauthorized("not a member of this team")
	}
	if err != nil {
		return nil, apperrors.NewInternal("failed to load membership", err)
	}
	return &member, nil
}

// assertRosterInvariants re-checks the structural invariants after a
// membership write. A violation here is a defect in this service, not a user
// error, so it is logged loudly before the transaction rolls back.
func assertRosterInvariants(tx *gorm.DB, teamID, userID uint) error {
	for _, role := range []models.TeamRole{models.TeamRoleCaptain, models.TeamRoleCoach} {
		var leaders int64
		if err := tx.Model(&models.Membership{}).
			Where("team_id = ? AND team_role = ? AND is_active = ?", teamID, role, true).
			Count(&leaders).Error; err != nil {
			return apperrors.NewInternal("failed to verify roster invariants", err)
		}
		if leaders > 1 {
			log.Printf("❌ INVARIANT VIOLATION: team %d has %d members with role %s", teamID, leaders, role)
			return apperrors.NewInternal("roster invariant violated", nil)
		}
	}

	var memberships int64
	if err := tx.Model(&models.Membership{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&memberships).Error; err != nil {
		return apperrors.NewInternal("failed to verify roster invariants", err)
	}
	if memberships > 1 {
		log.Printf("❌ INVARIANT VIOLATION: user %d holds %d active memberships", userID, memberships)
		return apperrors.NewInternal("roster invariant violated", nil)
	}

	return nil
}

// generateUniqueTeamCode generates a unique 6-character alphanumeric code.
func (s *RosterService) generateUniqueTeamCode() (string, error) {
	for {
		bytes := make([]byte, 3)
		rand.Read(bytes)
		code := hex.EncodeToString(bytes)[:6]

		var count int64
		if err := s.db.Model(&models.Team{}).
			Where("team_code = ?", code).
			Count(&count).Error; err != nil {
			return "", apperrors.NewInternal("failed to check team code", err)
		}

		if count == 0 {
			return code, nil
		}
	}
}
