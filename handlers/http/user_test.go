package httpHandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geo-server/auth"
	"geo-server/entities"
	"geo-server/repositories"
	"geo-server/usecases"
	"geo-server/ws"
)

type testEnv struct {
	router *gin.Engine
	store  *repositories.MemoryStore
	tokens *auth.TokenManager
	users  *usecases.UserUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repositories.NewMemoryStore()
	userUseCase := usecases.NewUserUseCase(store, store.Structures())
	structureUseCase := usecases.NewStructureUseCase(store.Structures())
	tokens := auth.NewTokenManager("test-secret", "geo-server", time.Hour)
	manager := ws.NewManager()

	userHandler := NewUserHandler(userUseCase, manager)
	structureHandler := NewStructureHandler(structureUseCase, manager)
	loginHandler := NewLoginHandler(userUseCase, tokens)
	requireAuth := auth.RequireAuth(tokens)

	router := gin.New()
	api := router.Group("/api/v1")
	users := api.Group("/users")
	{
		users.GET("", userHandler.GetAllUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:user_id", userHandler.GetUser)
		users.PUT("/:user_id", requireAuth, userHandler.UpdateUser)
		users.DELETE("/:user_id", requireAuth, userHandler.DeleteUser)
		users.GET("/:user_id/structures", userHandler.GetUserStructures)
		users.GET("/:user_id/favorites", userHandler.GetUserFavorites)
		users.POST("/:user_id/favorites", requireAuth, userHandler.AddFavorite)
		users.DELETE("/:user_id/favorites/:favorite_id", requireAuth, userHandler.RemoveFavorite)
	}
	structures := api.Group("/structures")
	{
		structures.GET("", structureHandler.GetAllStructures)
		structures.GET("/:id", structureHandler.GetStructure)
		structures.POST("", requireAuth, structureHandler.CreateStructure)
	}
	api.POST("/auth/login", loginHandler.Login)

	return &testEnv{router: router, store: store, tokens: tokens, users: userUseCase}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createUser(t *testing.T, username, password string) *entities.User {
	t.Helper()
	user, err := e.users.CreateUser(username, password)
	require.NoError(t, err)
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *entities.User) string {
	t.Helper()
	token, err := e.tokens.Generate(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) seedStructure(t *testing.T, name string, owner *uint) *entities.Structure {
	t.Helper()
	structure := &entities.Structure{
		Type:       entities.TypeBridge,
		Name:       name,
		Geometry:   json.RawMessage(`{"type":"Point","coordinates":[4.83,45.76]}`),
		Properties: json.RawMessage(`{"span_m":80,"material":"iron"}`),
		UserID:     owner,
	}
	require.NoError(t, e.store.CreateStructure(structure))
	return structure
}

func TestCreateAndListUsersNeverExposesPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "password": "hunter2"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "password")

	var created struct {
		Data entities.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Data.Username)
	assert.NotZero(t, created.Data.ID)

	rec = env.do(t, http.MethodGet, "/api/v1/users", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", created.Data.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestCreateUserConflict(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "p")

	rec := env.do(t, http.MethodPost, "/api/v1/users", gin.H{"username": "alice", "password": "other"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users/99", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// brokenUserRepo fails every lookup the way a dropped database connection would.
type brokenUserRepo struct {
	repositories.UserRepository
}

func (brokenUserRepo) GetByID(id uint) (*entities.User, error) {
	return nil, errors.New("connection refused")
}

func TestGetUserStorageFailureIsNotA404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repositories.NewMemoryStore()
	userUseCase := usecases.NewUserUseCase(brokenUserRepo{UserRepository: store}, store.Structures())
	handler := NewUserHandler(userUseCase, ws.NewManager())

	router := gin.New()
	router.GET("/api/v1/users/:user_id", handler.GetUser)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateUserRequiresAuthAndKeepsCreatedOn(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", alice.ID), gin.H{"username": "alice2"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.tokenFor(t, alice)
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", alice.ID), gin.H{"username": "alice2"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := env.users.GetUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, alice.CreatedOn, updated.CreatedOn)
	assert.Equal(t, alice.PasswordHash, updated.PasswordHash)
}

func TestDeleteUserSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")
	bob := env.createUser(t, "bob", "p")

	// unauthenticated
	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// bob cannot delete alice; alice stays
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, env.tokenFor(t, bob))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, err := env.users.GetUser(alice.ID)
	assert.NoError(t, err)

	// alice deletes herself
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, env.tokenFor(t, alice))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	_, err = env.users.GetUser(alice.ID)
	assert.Error(t, err)

	// deleting again is still a 204
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", alice.ID), nil, env.tokenFor(t, alice))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserStructuresAsFeatureCollection(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")
	env.seedStructure(t, "Pont Neuf", &alice.ID)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/structures", alice.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var collection struct {
		Type     string `json:"type"`
		Features []struct {
			ID         uint           `json:"id"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)
	require.Len(t, collection.Features, 1)
	assert.Equal(t, "Pont Neuf", collection.Features[0].Properties["name"])
	assert.EqualValues(t, 80, collection.Features[0].Properties["span_m"])
}

func TestFavoriteFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")
	structure := env.seedStructure(t, "Watchtower", nil)
	token := env.tokenFor(t, alice)

	// adding needs a verified identity
	rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID),
		gin.H{"structure_id": structure.ID}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID),
		gin.H{"structure_id": structure.ID}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Feature"`)
	assert.Contains(t, rec.Body.String(), `"Watchtower"`)

	// listing favorites is public
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Watchtower"`)

	// removal by someone else is rejected and the favorite survives
	bob := env.createUser(t, "bob", "p")
	rec = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/users/%d/favorites/%d", alice.ID, structure.ID), nil, env.tokenFor(t, bob))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	favorites, err := env.users.GetFavoritesByUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	// removal by the owner succeeds with an empty 204
	rec = env.do(t, http.MethodDelete,
		fmt.Sprintf("/api/v1/users/%d/favorites/%d", alice.ID, structure.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	favorites, err = env.users.GetFavoritesByUser(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestAddFavoriteForAnotherUserIsAllowed(t *testing.T) {
	// The add endpoint checks identity but deliberately not identity ==
	// target user; removal is the self-only operation.
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")
	bob := env.createUser(t, "bob", "p")
	structure := env.seedStructure(t, "Refuge", nil)

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID),
		gin.H{"structure_id": structure.ID}, env.tokenFor(t, bob))
	assert.Equal(t, http.StatusCreated, rec.Code)

	favorites, err := env.users.GetFavoritesByUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestAddFavoriteMissingStructure(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID),
		gin.H{"structure_id": 404}, env.tokenFor(t, alice))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateFavoriteAddKeepsSingleRow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "p")
	structure := env.seedStructure(t, "Refuge", nil)
	token := env.tokenFor(t, alice)

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/favorites", alice.ID),
			gin.H{"structure_id": structure.ID}, token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	favorites, err := env.users.GetFavoritesByUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}
