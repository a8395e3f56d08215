package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/feature/event/domain/entity"
	"erasmus_backend/internal/feature/event/usecase"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// mockEventUsecase is a mock implementation of the EventUsecase interface.
type mockEventUsecase struct {
	JoinFunc   func(ctx context.Context, actor *authentity.User, id string) (bool, error)
	LeaveFunc  func(ctx context.Context, actor *authentity.User, id string) (bool, error)
	viewerID   string
	created    *usecase.EventInput
	deletedIDs []string
}

func (m *mockEventUsecase) List(ctx context.Context, viewer *authentity.User) ([]usecase.EventView, error) {
	m.viewerID = viewer.ID
	return []usecase.EventView{{Event: entity.Event{Base: model.Base{ID: "ev-1"}, Title: "Fado"}, Joined: true}}, nil
}

func (m *mockEventUsecase) Get(ctx context.Context, viewer *authentity.User, id string) (*usecase.EventView, error) {
	if id != "ev-1" {
		return nil, fmt.Errorf("%w: event", apperr.ErrNotFound)
	}
	return &usecase.EventView{Event: entity.Event{Base: model.Base{ID: id}}}, nil
}

func (m *mockEventUsecase) Create(ctx context.Context, actor *authentity.User, in usecase.EventInput) (*entity.Event, error) {
	m.created = &in
	return &entity.Event{Base: model.Base{ID: "ev-new"}, Title: in.Title, CreatorID: actor.ID}, nil
}

func (m *mockEventUsecase) Update(ctx context.Context, actor *authentity.User, id string, patch usecase.EventPatch) (*entity.Event, error) {
	return nil, apperr.ErrForbidden
}

func (m *mockEventUsecase) Delete(ctx context.Context, actor *authentity.User, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockEventUsecase) Countries(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockEventUsecase) ListByCreator(ctx context.Context, viewer *authentity.User, userID string) ([]usecase.EventView, error) {
	return nil, nil
}

func (m *mockEventUsecase) ListParticipating(ctx context.Context, viewer *authentity.User, userID string) ([]usecase.EventView, error) {
	return nil, nil
}

func (m *mockEventUsecase) Join(ctx context.Context, actor *authentity.User, id string) (bool, error) {
	return m.JoinFunc(ctx, actor, id)
}

func (m *mockEventUsecase) Leave(ctx context.Context, actor *authentity.User, id string) (bool, error) {
	return m.LeaveFunc(ctx, actor, id)
}

func (m *mockEventUsecase) Participants(ctx context.Context, id string) ([]authentity.User, error) {
	return []authentity.User{{Base: model.Base{ID: "luis"}, Name: "Luis", Password: "hash"}}, nil
}

func setupRouter(h *EventHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &authentity.User{Base: model.Base{ID: "ana"}, Role: authentity.RoleUser})
	})
	r.GET("/events", h.List)
	r.POST("/events", h.Create)
	r.GET("/events/countries", h.Countries)
	r.GET("/events/:id", h.Get)
	r.PATCH("/events/:id", h.Update)
	r.DELETE("/events/:id", h.Delete)
	r.POST("/events/:id/join", h.Join)
	r.POST("/events/:id/leave", h.Leave)
	r.GET("/events/:id/participants", h.Participants)
	r.GET("/users/:id/events", h.ListByCreator)
	return r
}

func send(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEventHandler_List(t *testing.T) {
	uc := &mockEventUsecase{}
	r := setupRouter(NewEventHandler(uc))

	w := send(r, http.MethodGet, "/events", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana", uc.viewerID)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "ev-1", body[0]["id"])
	assert.Equal(t, true, body[0]["joined"])

	w = send(r, http.MethodGet, "/events/countries", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = send(r, http.MethodGet, "/users/luis/events", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = send(r, http.MethodGet, "/events/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventHandler_Create(t *testing.T) {
	date := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	valid := gin.H{
		"title": "Fado night", "date": date, "location": "Alfama", "city": "Lisbon",
		"country": "Portugal", "category": "Cultural", "tags": []string{"music"},
	}
	tests := []struct {
		name           string
		body           gin.H
		expectedStatus int
	}{
		{"created", valid, http.StatusCreated},
		{"unknown category", gin.H{"title": "x", "date": date, "location": "l", "city": "c", "country": "p", "category": "Concert"}, http.StatusUnprocessableEntity},
		{"missing date", gin.H{"title": "x", "location": "l", "city": "c", "country": "p", "category": "Other"}, http.StatusUnprocessableEntity},
		{"zero capacity", gin.H{"title": "x", "date": date, "location": "l", "city": "c", "country": "p", "category": "Other", "max_attendees": 0}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockEventUsecase{}
			w := send(setupRouter(NewEventHandler(uc)), http.MethodPost, "/events", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusCreated {
				require.NotNil(t, uc.created)
				assert.True(t, date.Equal(uc.created.Date))
			}
		})
	}
}

func TestEventHandler_JoinLeave(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		joinResult     bool
		joinErr        error
		expectedStatus int
		expectedBody   string
	}{
		{"joined", "/events/ev-1/join", true, nil, http.StatusOK, `{"joined":true}`},
		{"already joined", "/events/ev-1/join", false, nil, http.StatusOK, `{"joined":false}`},
		{"full", "/events/ev-1/join", false, fmt.Errorf("%w: event is full", apperr.ErrConflict), http.StatusConflict, `{"error":"conflict: event is full"}`},
		{"left", "/events/ev-1/leave", true, nil, http.StatusOK, `{"left":true}`},
		{"not joined", "/events/ev-1/leave", false, nil, http.StatusOK, `{"left":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := func(ctx context.Context, actor *authentity.User, id string) (bool, error) {
				return tt.joinResult, tt.joinErr
			}
			uc := &mockEventUsecase{JoinFunc: fn, LeaveFunc: fn}
			w := send(setupRouter(NewEventHandler(uc)), http.MethodPost, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestEventHandler_ParticipantsHidePassword(t *testing.T) {
	w := send(setupRouter(NewEventHandler(&mockEventUsecase{})), http.MethodGet, "/events/ev-1/participants", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Luis"`)
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestEventHandler_UpdateDelete(t *testing.T) {
	uc := &mockEventUsecase{}
	r := setupRouter(NewEventHandler(uc))

	w := send(r, http.MethodPatch, "/events/ev-1", gin.H{"title": "New"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = send(r, http.MethodDelete, "/events/ev-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"ev-1"}, uc.deletedIDs)
}
