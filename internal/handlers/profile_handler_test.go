package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/services"
)

// --- mock user service ---

type mockUserService struct {
	getByUsernameFn func(username string) (*models.User, error)
}

func (m *mockUserService) Touch(_ context.Context, username string, role models.Role) (*models.User, error) {
	return &models.User{Username: username, Role: role}, nil
}

func (m *mockUserService) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(username)
	}
	return &models.User{Username: username, Role: models.RoleOperator}, nil
}

// verify interface compliance
var _ services.UserServicer = (*mockUserService)(nil)

func TestProfileHandler_GetProfile(t *testing.T) {
	t.Run("returns 200 with the user", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", injectUsername("erin"), NewProfileHandler(&mockUserService{}).GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user, _ := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["username"] != "erin" || user["role"] != "operator" {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
	})

	t.Run("returns 401 without a user", func(t *testing.T) {
		r := gin.New()
		r.GET("/profile", NewProfileHandler(&mockUserService{}).GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})

	t.Run("returns 404 for an unknown user", func(t *testing.T) {
		svc := &mockUserService{
			getByUsernameFn: func(string) (*models.User, error) { return nil, apperrors.ErrRecordNotFound },
		}
		r := gin.New()
		r.GET("/profile", injectUsername("ghost"), NewProfileHandler(svc).GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "RECORD_NOT_FOUND")
	})
}
