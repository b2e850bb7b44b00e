package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"inventory/internal/schema"
	"inventory/internal/services"
)

// --- mock preference service ---

type mockPreferenceService struct {
	getViewFn  func(username, name string) (*services.View, error)
	saveViewFn func(username, name string, columns []string) (*services.View, error)
}

func (m *mockPreferenceService) VisibleColumns(_ context.Context, _ string, res *schema.Resource, requested []string) []string {
	return res.VisibleColumns(requested)
}

func (m *mockPreferenceService) GetView(_ context.Context, username, name string) (*services.View, error) {
	if m.getViewFn != nil {
		return m.getViewFn(username, name)
	}
	return &services.View{Resource: name}, nil
}

func (m *mockPreferenceService) SaveView(_ context.Context, username, name string, columns []string) (*services.View, error) {
	if m.saveViewFn != nil {
		return m.saveViewFn(username, name, columns)
	}
	return &services.View{Resource: name, Columns: columns, Saved: true}, nil
}

// verify interface compliance
var _ services.PreferenceServicer = (*mockPreferenceService)(nil)

func setupViewRouter(handler *ViewHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUsername("carol"))
	auth.GET("/resources/:resource/view", handler.GetView)
	auth.PUT("/resources/:resource/view", handler.SaveView)
	return r
}

func TestViewHandler_GetView(t *testing.T) {
	var gotUser string
	svc := &mockPreferenceService{
		getViewFn: func(username, name string) (*services.View, error) {
			gotUser = username
			return &services.View{Resource: name, Columns: []string{"vm_ip"}, Saved: true}, nil
		},
	}
	r := setupViewRouter(NewViewHandler(svc))

	rec := doRequest(r, "GET", "/resources/vms/view", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != "carol" {
		t.Errorf("expected carol, got %q", gotUser)
	}
	if parseJSON(t, rec)["saved"] != true {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestViewHandler_SaveView(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		r := setupViewRouter(NewViewHandler(&mockPreferenceService{}))

		rec := doRequest(r, "PUT", "/resources/vms/view", `{"columns":["vm_ip","status"]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on empty columns", func(t *testing.T) {
		r := setupViewRouter(NewViewHandler(&mockPreferenceService{}))

		rec := doRequest(r, "PUT", "/resources/vms/view", `{"columns":[]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
