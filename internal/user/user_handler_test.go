package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"
	usererrors "github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeUserService struct {
	RegisterFn     func(ctx context.Context, organizationID string, req user.RegisterUserRequest) (user.UserResponse, error)
	GetByIDFn      func(ctx context.Context, organizationID, id string) (user.UserResponse, error)
	GetDirectoryFn func(ctx context.Context, organizationID string) ([]user.DirectoryEntry, error)
	UpdateFn       func(ctx context.Context, organizationID, id string, req user.UpdateUserRequest) (user.UserResponse, error)
	DeactivateFn   func(ctx context.Context, organizationID, id string) error
}

func (f *fakeUserService) Register(ctx context.Context, organizationID string, req user.RegisterUserRequest) (user.UserResponse, error) {
	return f.RegisterFn(ctx, organizationID, req)
}
func (f *fakeUserService) GetByID(ctx context.Context, organizationID, id string) (user.UserResponse, error) {
	return f.GetByIDFn(ctx, organizationID, id)
}
func (f *fakeUserService) GetDirectory(ctx context.Context, organizationID string) ([]user.DirectoryEntry, error) {
	return f.GetDirectoryFn(ctx, organizationID)
}
func (f *fakeUserService) Update(ctx context.Context, organizationID, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
	return f.UpdateFn(ctx, organizationID, id, req)
}
func (f *fakeUserService) Deactivate(ctx context.Context, organizationID, id string) error {
	return f.DeactivateFn(ctx, organizationID, id)
}

func setupHandler(svc user.Service) *user.Handler {
	return user.NewHandler(svc, zap.NewNop())
}

func TestUserHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		organizationID := uuid.New().String()

		svc := &fakeUserService{
			RegisterFn: func(ctx context.Context, oid string, req user.RegisterUserRequest) (user.UserResponse, error) {
				assert.Equal(t, organizationID, oid)
				assert.Equal(t, "hana@example.com", req.Email)
				return user.UserResponse{
					ID:          uuid.New().String(),
					StaffNumber: "STF-000042",
					Email:       req.Email,
					FullName:    req.FullName,
					Role:        req.Role,
					Active:      true,
				}, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"hana@example.com","password":"kata-sandi-aman","full_name":"Hana Lestari","role":"EMPLOYEE","department":"Finance"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("organization_id", organizationID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got user.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "STF-000042", got.StaffNumber)
		assert.True(t, got.Active)
	})

	t.Run("negative validation - role outside the allowed set", func(t *testing.T) {
		svc := &fakeUserService{}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"hana@example.com","password":"kata-sandi-aman","full_name":"Hana","role":"SUPERADMIN"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("organization_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		svc := &fakeUserService{
			RegisterFn: func(ctx context.Context, oid string, req user.RegisterUserRequest) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUserAlreadyExists
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"hana@example.com","password":"kata-sandi-aman","full_name":"Hana","role":"EMPLOYEE"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("organization_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.Contains(t, env.Error.Message, "email")
	})
}

func TestUserHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	directory := []user.DirectoryEntry{
		{ID: uuid.New().String(), FullName: "Andi Wijaya", Email: "andi@example.com", StaffNumber: "STF-000001"},
		{ID: uuid.New().String(), FullName: "Budi Santoso", Email: "budi@example.com", StaffNumber: "STF-000002"},
		{ID: uuid.New().String(), FullName: "Citra Dewi", Email: "citra@example.com", StaffNumber: "STF-000003"},
	}

	t.Run("success with pagination meta", func(t *testing.T) {
		organizationID := uuid.New().String()

		svc := &fakeUserService{
			GetDirectoryFn: func(ctx context.Context, oid string) ([]user.DirectoryEntry, error) {
				assert.Equal(t, organizationID, oid)
				return directory, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users?page=1&page_size=2", nil)
		c.Set("organization_id", organizationID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.NotNil(t, env.Meta)
		assert.Equal(t, int64(3), env.Meta.Total)
		assert.Equal(t, 2, env.Meta.TotalPages)

		var got []user.DirectoryEntry
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "Andi Wijaya", got[0].FullName)
	})

	t.Run("success with q filter", func(t *testing.T) {
		svc := &fakeUserService{
			GetDirectoryFn: func(ctx context.Context, oid string) ([]user.DirectoryEntry, error) {
				return directory, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users?q=budi", nil)
		c.Set("organization_id", uuid.New().String())

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())

		var got []user.DirectoryEntry
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
		assert.Equal(t, "Budi Santoso", got[0].FullName)
	})

	t.Run("success with sort desc", func(t *testing.T) {
		svc := &fakeUserService{
			GetDirectoryFn: func(ctx context.Context, oid string) ([]user.DirectoryEntry, error) {
				return directory, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users?sort_by=full_name&sort_dir=desc", nil)
		c.Set("organization_id", uuid.New().String())

		h.GetAll(c)

		env := decodeEnvelope(t, w.Body.Bytes())
		var got []user.DirectoryEntry
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Citra Dewi", got[0].FullName)
	})

	t.Run("negative service failure", func(t *testing.T) {
		svc := &fakeUserService{
			GetDirectoryFn: func(ctx context.Context, oid string) ([]user.DirectoryEntry, error) {
				return nil, errors.New("redis and database both down")
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)
		c.Set("organization_id", uuid.New().String())

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestUserHandler_GetById(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		organizationID := uuid.New().String()
		targetID := uuid.New().String()

		svc := &fakeUserService{
			GetByIDFn: func(ctx context.Context, oid, id string) (user.UserResponse, error) {
				assert.Equal(t, organizationID, oid)
				assert.Equal(t, targetID, id)
				return user.UserResponse{ID: id, FullName: "Eka Putri", Phone: "0812-0000-1111"}, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users/"+targetID, nil)
		c.Set("organization_id", organizationID)
		c.Params = gin.Params{{Key: "id", Value: targetID}}

		h.GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got user.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, targetID, got.ID)
		assert.Equal(t, "0812-0000-1111", got.Phone)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeUserService{
			GetByIDFn: func(ctx context.Context, oid, id string) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrUserNotFound
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users/"+uuid.New().String(), nil)
		c.Set("organization_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		targetID := uuid.New().String()

		svc := &fakeUserService{
			UpdateFn: func(ctx context.Context, oid, id string, req user.UpdateUserRequest) (user.UserResponse, error) {
				assert.Equal(t, targetID, id)
				assert.Equal(t, "Nama Baru", req.FullName)
				return user.UserResponse{ID: id, FullName: req.FullName}, nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"full_name":"Nama Baru","department":"Engineering"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/users/"+targetID, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("organization_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: targetID}}

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got user.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Nama Baru", got.FullName)
	})

	t.Run("negative validation - missing full_name", func(t *testing.T) {
		svc := &fakeUserService{}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/users/"+uuid.New().String(), strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("organization_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})
}

func TestUserHandler_Deactivate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		targetID := uuid.New().String()
		called := false

		svc := &fakeUserService{
			DeactivateFn: func(ctx context.Context, oid, id string) error {
				called = true
				assert.Equal(t, targetID, id)
				return nil
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/users/"+targetID, nil)
		c.Set("organization_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: targetID}}

		h.Deactivate(c)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), "deactivated")
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeUserService{
			DeactivateFn: func(ctx context.Context, oid, id string) error {
				return usererrors.ErrUserNotFound
			},
		}

		h := setupHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/users/"+uuid.New().String(), nil)
		c.Set("organization_id", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.Deactivate(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
