package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopadmin/internal/shared/utils/response"
	"shopadmin/pkg/logger"
)

type memRepo struct {
	roles map[uuid.UUID]*Role
}

func newMemRepo(names ...string) *memRepo {
	r := &memRepo{roles: make(map[uuid.UUID]*Role)}
	for _, n := range names {
		role := &Role{ID: uuid.New(), Name: n}
		r.roles[role.ID] = role
	}
	return r
}

func (r *memRepo) Create(_ context.Context, role *Role) error {
	role.ID = uuid.New()
	r.roles[role.ID] = role
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Role, error) {
	if role, ok := r.roles[id]; ok {
		return role, nil
	}
	return nil, ErrRoleNotFound
}

func (r *memRepo) GetByName(_ context.Context, name string) (*Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, ErrRoleNotFound
}

func (r *memRepo) List(context.Context) ([]Role, error) {
	var out []Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, ErrRoleNotFound
	}
	if v, ok := updates["name"].(string); ok {
		role.Name = v
	}
	return role, nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.roles[id]; !ok {
		return ErrRoleNotFound
	}
	delete(r.roles, id)
	return nil
}

type countingEvictor struct{ calls int }

func (e *countingEvictor) EvictAll(context.Context) error {
	e.calls++
	return nil
}

func TestCreateRole_NormalizesName(t *testing.T) {
	svc := NewService(newMemRepo(), nil, logger.Discard())

	resp, err := svc.CreateRole(context.Background(), CreateRoleRequest{Name: " role_auditor "})
	require.NoError(t, err)
	assert.Equal(t, "AUDITOR", resp.Name)

	_, err = svc.CreateRole(context.Background(), CreateRoleRequest{Name: "auditor"})
	assert.ErrorIs(t, err, ErrRoleExists)
}

func TestUpdateRole_RenameConflictAndEviction(t *testing.T) {
	repo := newMemRepo("ADMIN", "MEMBER")
	evictor := &countingEvictor{}
	svc := NewService(repo, evictor, logger.Discard())
	member, _ := repo.GetByName(context.Background(), "MEMBER")

	taken := "admin"
	_, err := svc.UpdateRole(context.Background(), member.ID, UpdateRoleRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrRoleExists)

	free := "customer"
	resp, err := svc.UpdateRole(context.Background(), member.ID, UpdateRoleRequest{Name: &free})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", resp.Name)
	assert.Equal(t, 1, evictor.calls)
}

func TestDeleteRole_EvictsAll(t *testing.T) {
	repo := newMemRepo("AUDITOR")
	evictor := &countingEvictor{}
	svc := NewService(repo, evictor, logger.Discard())
	role, _ := repo.GetByName(context.Background(), "AUDITOR")

	require.NoError(t, svc.DeleteRole(context.Background(), role.ID))
	assert.Equal(t, 1, evictor.calls)
	assert.ErrorIs(t, svc.DeleteRole(context.Background(), role.ID), ErrRoleNotFound)
	assert.Equal(t, 1, evictor.calls)
}

func TestController_Responses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	SetupRoleRoutes(engine, NewController(NewService(newMemRepo("ADMIN"), nil, logger.Discard())))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/roles/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/roles", strings.NewReader(`{"name":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/roles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		response.StandardApiResponse
		Data []RoleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ADMIN", body.Data[0].Name)
}

func TestRepositoryDelete_RemovesGrantsFirst(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM member_roles WHERE role_id = $1")).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "roles" WHERE id = $1`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewRepository(db).Delete(context.Background(), uuid.New()))
	require.NoError(t, mock.ExpectationsWereMet())
}
