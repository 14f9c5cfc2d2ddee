package handler

import (
	"net/http"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	svc *service.RoleService
}

// GrantReq 授予/撤销管理员请求体
type GrantReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{
		svc: service.NewRoleService(),
	}
}

func (h *RoleHandler) Grant(c *gin.Context) {
	var req GrantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.GrantAdmin(userID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *RoleHandler) Revoke(c *gin.Context) {
	var req GrantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.RevokeAdmin(userID, req.UserID); err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *RoleHandler) ListAdmins(c *gin.Context) {
	admins, err := h.svc.ListAdmins()
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}
