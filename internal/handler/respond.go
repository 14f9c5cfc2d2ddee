package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Team_Orga/internal/model"

	"github.com/gin-gonic/gin"
)

// respondErr 把引擎的哨兵错误映射到 HTTP 状态码
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrNotMember):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, model.ErrFull), errors.Is(err, model.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
	}
}

func currentUser(c *gin.Context) (uint64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return 0, false
	}
	return v.(uint64), true
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return id, true
}

func paramKind(c *gin.Context) (model.GroupKind, bool) {
	kind := model.GroupKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid kind"})
		return "", false
	}
	return kind, true
}
