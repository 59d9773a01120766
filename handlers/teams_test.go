package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arenahub/middleware"
	"arenahub/models"
	"arenahub/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Notification{},
	))

	InitAuthHandlers(db)
	InitUserHandlers(db)
	InitTeamHandlers(db)

	app := fiber.New()
	api := app.Group("/api")

	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Post("/", CreateTeam)
	teamGroup.Get("/", GetMyTeams)
	teamGroup.Post("/join", JoinTeam)
	teamGroup.Get("/:id", GetTeam)
	teamGroup.Post("/:id/invite", InvitePlayer)
	teamGroup.Delete("/:id/members/:userId", RemoveMember)
	teamGroup.Post("/:id/exit", ExitTeam)

	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", GetNotifications)
	notificationGroup.Post("/:id/accept", AcceptInvitation)
	notificationGroup.Post("/:id/reject", RejectInvitation)

	return app, db
}

func testUser(t *testing.T, db *gorm.DB, username string, role models.PlatformRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		Role:      role,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, user *models.User) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		token, err := generateToken(*user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestCreateTeamEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	founder := testUser(t, db, "founder", models.PlatformRolePlayer)

	resp := doRequest(t, app, "POST", "/api/teams/",
		`{"name":"Alpha","team_role":"Capitan"}`, founder)
	assert.Equal(t, 201, resp.StatusCode)

	var created struct {
		Success bool `json:"success"`
		TeamID  uint `json:"team_id"`
	}
	decodeBody(t, resp, &created)
	assert.True(t, created.Success)
	require.NotZero(t, created.TeamID)

	resp = doRequest(t, app, "GET", "/api/teams/1", "", founder)
	assert.Equal(t, 200, resp.StatusCode)

	var info services.TeamInfo
	decodeBody(t, resp, &info)
	assert.Equal(t, "Alpha", info.TeamName)
	require.Len(t, info.Members, 1)
	assert.Equal(t, "Capitán", info.Members[0].TeamRole)
}

func TestCreateTeamRequiresAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doRequest(t, app, "POST", "/api/teams/", `{"name":"Alpha","team_role":"Capitan"}`, nil)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCreateTeamRejectsPlayerRole(t *testing.T) {
	app, db := setupTestApp(t)
	founder := testUser(t, db, "founder", models.PlatformRolePlayer)

	resp := doRequest(t, app, "POST", "/api/teams/",
		`{"name":"Alpha","team_role":"None"}`, founder)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestInviteAcceptFlow(t *testing.T) {
	app, db := setupTestApp(t)
	captain := testUser(t, db, "captain", models.PlatformRolePlayer)
	target := testUser(t, db, "target", models.PlatformRoleUsuario)

	resp := doRequest(t, app, "POST", "/api/teams/",
		`{"name":"Alpha","team_role":"Capitan"}`, captain)
	require.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "POST", "/api/teams/1/invite", `{"user_id":2}`, captain)
	assert.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	// Duplicate invitation is rejected.
	resp = doRequest(t, app, "POST", "/api/teams/1/invite", `{"user_id":2}`, captain)
	assert.Equal(t, 409, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/notifications/", "", target)
	require.Equal(t, 200, resp.StatusCode)
	var notifications []services.NotificationView
	decodeBody(t, resp, &notifications)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)
	assert.Equal(t, "Invitation", notifications[0].Type)

	resp = doRequest(t, app, "POST", "/api/notifications/1/accept", "", target)
	assert.Equal(t, 200, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/teams/1", "", target)
	var info services.TeamInfo
	decodeBody(t, resp, &info)
	require.Len(t, info.Members, 2)

	// A resolved invitation cannot be accepted twice.
	resp = doRequest(t, app, "POST", "/api/notifications/1/accept", "", target)
	assert.Equal(t, 409, resp.StatusCode)
	resp.Body.Close()
}

func TestRemoveMemberEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	captain := testUser(t, db, "captain", models.PlatformRolePlayer)
	player := testUser(t, db, "player", models.PlatformRoleUsuario)

	resp := doRequest(t, app, "POST", "/api/teams/",
		`{"name":"Alpha","team_role":"Capitan"}`, captain)
	require.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	var team models.Team
	require.NoError(t, db.First(&team).Error)
	require.NoError(t, db.Create(&models.Membership{
		TeamID: team.ID, UserID: player.ID, TeamRole: models.TeamRoleNone,
		IsActive: true, JoinedAt: time.Now(),
	}).Error)

	// A plain player cannot remove anyone.
	resp = doRequest(t, app, "DELETE", "/api/teams/1/members/1", "", player)
	assert.Equal(t, 403, resp.StatusCode)
	resp.Body.Close()

	// The captain cannot be removed even by a leader.
	resp = doRequest(t, app, "DELETE", "/api/teams/1/members/1", "", captain)
	assert.Equal(t, 409, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "DELETE", "/api/teams/1/members/2", "", captain)
	assert.Equal(t, 200, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/teams/1", "", captain)
	var info services.TeamInfo
	decodeBody(t, resp, &info)
	assert.Len(t, info.Members, 1)
}

func TestGetTeamRosterRequiresMembership(t *testing.T) {
	app, db := setupTestApp(t)
	captain := testUser(t, db, "captain", models.PlatformRolePlayer)
	stranger := testUser(t, db, "stranger", models.PlatformRoleUsuario)

	resp := doRequest(t, app, "POST", "/api/teams/",
		`{"name":"Alpha","team_role":"Capitan"}`, captain)
	require.Equal(t, 201, resp.StatusCode)
	resp.Body.Close()

	// Authenticated but not on the team: the roster stays private.
	resp = doRequest(t, app, "GET", "/api/teams/1", "", stranger)
	assert.Equal(t, 403, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, app, "GET", "/api/teams/1", "", captain)
	assert.Equal(t, 200, resp.StatusCode)
	var info services.TeamInfo
	decodeBody(t, resp, &info)
	assert.Equal(t, "Alpha", info.TeamName)
}
