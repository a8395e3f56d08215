package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/user/domain/entity"
	"erasmus_backend/internal/feature/user/usecase"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// mockUserUsecase is a mock implementation of the UserUsecase interface.
type mockUserUsecase struct {
	GetFunc                func(ctx context.Context, id string) (*authentity.User, error)
	UpdateFunc             func(ctx context.Context, actor *authentity.User, id string, patch usecase.ProfilePatch) (*authentity.User, error)
	DeleteFunc             func(ctx context.Context, actor *authentity.User, id string) error
	ChangeRoleFunc         func(ctx context.Context, id string, role authentity.Role) (*authentity.User, error)
	ReplaceSocialLinksFunc func(ctx context.Context, actor *authentity.User, id string, in []usecase.SocialLinkInput) ([]entity.SocialMediaLink, error)
	ReplaceLanguagesFunc   func(ctx context.Context, actor *authentity.User, id string, in []usecase.LanguageInput) ([]entity.UserLanguage, error)
}

func (m *mockUserUsecase) List(ctx context.Context) ([]authentity.User, error) {
	return []authentity.User{*alice}, nil
}

func (m *mockUserUsecase) Get(ctx context.Context, id string) (*authentity.User, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return alice, nil
}

func (m *mockUserUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch usecase.ProfilePatch) (*authentity.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, actor, id, patch)
	}
	return alice, nil
}

func (m *mockUserUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, actor, id)
	}
	return nil
}

func (m *mockUserUsecase) ChangeRole(ctx context.Context, id string, role authentity.Role) (*authentity.User, error) {
	if m.ChangeRoleFunc != nil {
		return m.ChangeRoleFunc(ctx, id, role)
	}
	u := *alice
	u.Role = role
	return &u, nil
}

func (m *mockUserUsecase) SocialLinks(ctx context.Context, id string) ([]entity.SocialMediaLink, error) {
	return nil, nil
}

func (m *mockUserUsecase) ReplaceSocialLinks(ctx context.Context, actor *authentity.User, id string, in []usecase.SocialLinkInput) ([]entity.SocialMediaLink, error) {
	if m.ReplaceSocialLinksFunc != nil {
		return m.ReplaceSocialLinksFunc(ctx, actor, id, in)
	}
	return nil, nil
}

func (m *mockUserUsecase) Languages(ctx context.Context, id string) ([]entity.UserLanguage, error) {
	return []entity.UserLanguage{{UserID: id, Language: "Spanish", Level: entity.LevelNative}}, nil
}

func (m *mockUserUsecase) ReplaceLanguages(ctx context.Context, actor *authentity.User, id string, in []usecase.LanguageInput) ([]entity.UserLanguage, error) {
	if m.ReplaceLanguagesFunc != nil {
		return m.ReplaceLanguagesFunc(ctx, actor, id, in)
	}
	return nil, nil
}

var alice = &authentity.User{Base: model.Base{ID: "alice"}, Name: "Alice", Mail: "alice@example.com", Role: authentity.RoleUser}

// newRouter mounts the handler with a fake authentication step that injects actor.
func newRouter(h *UserHandler, actor *authentity.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextUserKey, actor)
		}
		c.Next()
	})
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.PATCH("/users/:id", h.Update)
	r.DELETE("/users/:id", h.Delete)
	r.PUT("/users/:id/role", h.ChangeRole)
	r.GET("/users/:id/social-links", h.SocialLinks)
	r.PUT("/users/:id/social-links", h.ReplaceSocialLinks)
	r.GET("/users/:id/languages", h.Languages)
	r.PUT("/users/:id/languages", h.ReplaceLanguages)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Get(t *testing.T) {
	t.Run("projection hides password", func(t *testing.T) {
		w := do(newRouter(NewUserHandler(&mockUserUsecase{}), alice), http.MethodGet, "/users/alice", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "alice", body["id"])
		assert.NotContains(t, body, "password")
	})

	t.Run("not found", func(t *testing.T) {
		uc := &mockUserUsecase{GetFunc: func(ctx context.Context, id string) (*authentity.User, error) {
			return nil, apperr.NotFound(apperr.ErrNotFound, "user")
		}}
		w := do(newRouter(NewUserHandler(uc), alice), http.MethodGet, "/users/ghost", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"not found: user"}`, w.Body.String())
	})
}

func TestUserHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		actor          *authentity.User
		body           gin.H
		usecaseErr     error
		expectedStatus int
	}{
		{"success", alice, gin.H{"city": "Porto"}, nil, http.StatusOK},
		{"invalid email", alice, gin.H{"mail": "nope"}, nil, http.StatusUnprocessableEntity},
		{"short password", alice, gin.H{"password": "short"}, nil, http.StatusUnprocessableEntity},
		{"bad date", alice, gin.H{"erasmus_date": "31/12/2024"}, nil, http.StatusUnprocessableEntity},
		{"forbidden", alice, gin.H{"city": "Porto"}, apperr.ErrForbidden, http.StatusForbidden},
		{"anonymous", nil, gin.H{"city": "Porto"}, nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got usecase.ProfilePatch
			uc := &mockUserUsecase{UpdateFunc: func(ctx context.Context, actor *authentity.User, id string, patch usecase.ProfilePatch) (*authentity.User, error) {
				got = patch
				return alice, tt.usecaseErr
			}}
			w := do(newRouter(NewUserHandler(uc), tt.actor), http.MethodPatch, "/users/alice", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, got.City)
				assert.Equal(t, "Porto", *got.City)
				assert.Nil(t, got.Name, "omitted fields stay nil")
			}
		})
	}
}

func TestUserHandler_Delete(t *testing.T) {
	w := do(newRouter(NewUserHandler(&mockUserUsecase{}), alice), http.MethodDelete, "/users/alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestUserHandler_ChangeRole(t *testing.T) {
	r := newRouter(NewUserHandler(&mockUserUsecase{}), alice)

	w := do(r, http.MethodPut, "/users/alice/role", gin.H{"role": "Host"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"Host"`)

	w = do(r, http.MethodPut, "/users/alice/role", gin.H{"role": "Root"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "role must be one of")
}

func TestUserHandler_SocialLinks(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		w := do(newRouter(NewUserHandler(&mockUserUsecase{}), nil), http.MethodGet, "/users/alice/social-links", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("replace validates each link", func(t *testing.T) {
		w := do(newRouter(NewUserHandler(&mockUserUsecase{}), alice), http.MethodPut, "/users/alice/social-links",
			gin.H{"links": []gin.H{{"social_media": "MySpace", "url": "https://myspace.com/a"}}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("replace passes the set through", func(t *testing.T) {
		var got []usecase.SocialLinkInput
		uc := &mockUserUsecase{ReplaceSocialLinksFunc: func(ctx context.Context, actor *authentity.User, id string, in []usecase.SocialLinkInput) ([]entity.SocialMediaLink, error) {
			got = in
			return []entity.SocialMediaLink{{UserID: id, SocialMedia: in[0].SocialMedia, URL: in[0].URL}}, nil
		}}
		w := do(newRouter(NewUserHandler(uc), alice), http.MethodPut, "/users/alice/social-links",
			gin.H{"links": []gin.H{{"social_media": "LinkedIn", "url": "https://linkedin.com/in/alice"}}})

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, got, 1)
		assert.Equal(t, entity.SocialLinkedIn, got[0].SocialMedia)
	})
}

func TestUserHandler_Languages(t *testing.T) {
	r := newRouter(NewUserHandler(&mockUserUsecase{}), alice)

	w := do(r, http.MethodGet, "/users/alice/languages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"level":"Native"`)

	w = do(r, http.MethodPut, "/users/alice/languages", gin.H{"languages": []gin.H{{"language": "English", "level": "D1"}}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPut, "/users/alice/languages", gin.H{"languages": []gin.H{{"language": "English", "level": "B2"}}})
	assert.Equal(t, http.StatusOK, w.Code)
}
