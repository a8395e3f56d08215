package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/follow/domain/entity"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// mockFollowUsecase is a mock implementation of the FollowUsecase interface.
type mockFollowUsecase struct {
	FollowFunc   func(ctx context.Context, actor *authentity.User, targetID string) (*entity.Follow, error)
	UnfollowFunc func(ctx context.Context, actor *authentity.User, targetID string) error
	CountsFunc   func(ctx context.Context, userID string) (entity.Counts, error)
}

func (m *mockFollowUsecase) Follow(ctx context.Context, actor *authentity.User, targetID string) (*entity.Follow, error) {
	if m.FollowFunc != nil {
		return m.FollowFunc(ctx, actor, targetID)
	}
	return &entity.Follow{Base: model.Base{ID: "edge"}, FollowerID: actor.ID, FollowingID: targetID}, nil
}

func (m *mockFollowUsecase) Unfollow(ctx context.Context, actor *authentity.User, targetID string) error {
	if m.UnfollowFunc != nil {
		return m.UnfollowFunc(ctx, actor, targetID)
	}
	return nil
}

func (m *mockFollowUsecase) Followers(ctx context.Context, userID string) ([]authentity.User, error) {
	return []authentity.User{{Base: model.Base{ID: "carol"}, Name: "Carol"}}, nil
}

func (m *mockFollowUsecase) Following(ctx context.Context, userID string) ([]authentity.User, error) {
	return nil, nil
}

func (m *mockFollowUsecase) Counts(ctx context.Context, userID string) (entity.Counts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx, userID)
	}
	return entity.Counts{Followers: 3, Following: 1}, nil
}

var alice = &authentity.User{Base: model.Base{ID: "alice"}, Name: "Alice", Role: authentity.RoleUser}

func setupRouter(h *FollowHandler, actor *authentity.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextUserKey, actor)
		}
	})
	r.POST("/users/:id/follow", h.Follow)
	r.DELETE("/users/:id/follow", h.Unfollow)
	r.GET("/users/:id/followers", h.Followers)
	r.GET("/users/:id/following", h.Following)
	r.GET("/users/:id/follow-counts", h.Counts)
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestFollowHandler_Follow(t *testing.T) {
	tests := []struct {
		name           string
		actor          *authentity.User
		err            error
		expectedStatus int
	}{
		{"created", alice, nil, http.StatusCreated},
		{"self follow", alice, fmt.Errorf("%w: you cannot follow yourself", apperr.ErrValidation), http.StatusUnprocessableEntity},
		{"duplicate", alice, fmt.Errorf("%w: already following this user", apperr.ErrConflict), http.StatusConflict},
		{"unknown target", alice, apperr.NotFound(apperr.ErrNotFound, "user"), http.StatusNotFound},
		{"anonymous", nil, nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockFollowUsecase{}
			if tt.err != nil {
				uc.FollowFunc = func(ctx context.Context, actor *authentity.User, targetID string) (*entity.Follow, error) {
					return nil, tt.err
				}
			}
			w := serve(setupRouter(NewFollowHandler(uc), tt.actor), http.MethodPost, "/users/bob/follow")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusCreated {
				assert.Contains(t, w.Body.String(), `"following_id":"bob"`)
			}
		})
	}
}

func TestFollowHandler_Unfollow(t *testing.T) {
	w := serve(setupRouter(NewFollowHandler(&mockFollowUsecase{}), alice), http.MethodDelete, "/users/bob/follow")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestFollowHandler_Lists(t *testing.T) {
	r := setupRouter(NewFollowHandler(&mockFollowUsecase{}), alice)

	w := serve(r, http.MethodGet, "/users/bob/followers")
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0]["id"])

	w = serve(r, http.MethodGet, "/users/bob/following")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(r, http.MethodGet, "/users/bob/follow-counts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"followers":3,"following":1}`, w.Body.String())
}
