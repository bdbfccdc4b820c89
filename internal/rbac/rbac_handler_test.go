package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// =========================================
// Mock Service
// =========================================

type mockService struct{}

func (m *mockService) Enforce(role, resource, action string) (bool, error) {
	if role == "EMPLOYEE" && resource == "user" && action == "read" {
		return true, nil
	}
	return false, nil
}

func (m *mockService) Grants() ([]Grant, error) {
	return []Grant{
		{Role: "EMPLOYEE", Resource: "user", Action: "read"},
		{Role: "MANAGER", Resource: "absence", Action: "approve"},
	}, nil
}

// =========================================
// TEST: Handler Enforce
// =========================================

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{})

	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	t.Run("Allowed", func(t *testing.T) {
		body, _ := json.Marshal(EnforceRequest{
			Role:     "EMPLOYEE",
			Resource: "user",
			Action:   "read",
		})

		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data EnforceResponse `json:"data"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.True(t, resp.Data.Allowed)
	})

	t.Run("Denied", func(t *testing.T) {
		body, _ := json.Marshal(EnforceRequest{
			Role:     "COWORKER",
			Resource: "absence",
			Action:   "create",
		})

		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data EnforceResponse `json:"data"`
		}
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		assert.NoError(t, err)
		assert.False(t, resp.Data.Allowed)
	})

	t.Run("Validation Error", func(t *testing.T) {
		body := []byte(`{"role": "EMPLOYEE"}`)

		req, _ := http.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =========================================
// TEST: Handler ListGrants
// =========================================

func TestHandler_ListGrants(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{})

	router := gin.New()
	router.GET("/rbac/grants", handler.ListGrants)

	req, _ := http.NewRequest(http.MethodGet, "/rbac/grants", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []Grant `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "approve", resp.Data[1].Action)
}
