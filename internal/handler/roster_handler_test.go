package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Team_Orga/internal/config"
	"Team_Orga/internal/model"
	"Team_Orga/internal/repository/mysql"
	"Team_Orga/internal/repository/redis"
	"Team_Orga/internal/router"
	"Team_Orga/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&model.Team{},
		&model.User{},
		&model.UserRole{},
		&model.Game{},
		&model.Offer{},
		&model.DutySlot{},
		&model.Occupant{},
		&model.RosterOutbox{},
	))
	mysql.DB = db

	mr := miniredis.RunT(t)
	redis.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	cfg := &config.Config{Duty: config.DutyConfig{LockerCapacity: 3, WashCapacity: 1}}
	rec := service.NewDutyCountReconciler(0, 0)
	return router.InitRouter(cfg, rec), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, name string) (uint64, string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/user/register", "", gin.H{
		"username":  name,
		"password":  "geheim123",
		"email":     name + "@example.com",
		"full_name": name,
		"team_id":   1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/user/login", "", gin.H{
		"username": name,
		"password": "geheim123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"AccessToken"`
		User        struct {
			ID uint64 `json:"ID"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.User.ID, resp.AccessToken
}

func TestRosterEndpoints(t *testing.T) {
	r, db := setupRouter(t)
	require.NoError(t, db.Create(&model.Team{Name: "SV Test"}).Error)

	annaID, annaToken := registerAndLogin(t, r, "anna")
	_, benToken := registerAndLogin(t, r, "ben")
	trainerID, trainerToken := registerAndLogin(t, r, "trainer")
	require.NoError(t, db.Create(&model.UserRole{UserID: trainerID, Role: model.RoleAdmin, GrantedBy: trainerID}).Error)

	// 没 token 进不来
	w := doJSON(t, r, http.MethodGet, "/api/duty/locker/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 普通队员建不了值日
	w = doJSON(t, r, http.MethodPost, "/api/duty/wash", annaToken, gin.H{"game_day": "2026-09-06"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员建洗球衣日，1个名额
	w = doJSON(t, r, http.MethodPost, "/api/duty/wash", trainerToken, gin.H{"game_day": "2026-09-06"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Slot model.DutySlot `json:"slot"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	slotID := created.Slot.ID

	joinPath := fmt.Sprintf("/api/roster/wash/%d/join", slotID)
	w = doJSON(t, r, http.MethodPost, joinPath, annaToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 重复加入
	w = doJSON(t, r, http.MethodPost, joinPath, annaToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 满了
	w = doJSON(t, r, http.MethodPost, joinPath, benToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 不存在的分组
	w = doJSON(t, r, http.MethodPost, "/api/roster/wash/999/join", benToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 非法 kind
	w = doJSON(t, r, http.MethodPost, "/api/roster/party/1/join", benToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 管理员移除后名额回流
	unassignPath := fmt.Sprintf("/api/roster/wash/%d/unassign", slotID)
	w = doJSON(t, r, http.MethodPost, unassignPath, trainerToken, gin.H{"user_id": annaID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	viewPath := fmt.Sprintf("/api/roster/wash/%d", slotID)
	w = doJSON(t, r, http.MethodGet, viewPath, benToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view mysql.RosterView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.CapacityRemaining)
	assert.Empty(t, view.Occupants)

	// 普通队员无权指派
	assignPath := fmt.Sprintf("/api/roster/wash/%d/assign", slotID)
	w = doJSON(t, r, http.MethodPost, assignPath, benToken, gin.H{"user_id": annaID})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
