package handler

import (
	"net/http"

	"Team_Orga/internal/service"

	"github.com/gin-gonic/gin"
)

// RepairHandler 管理端手动触发值日计数对账
type RepairHandler struct {
	rec   *service.DutyCountReconciler
	roles *service.RoleService
}

func NewRepairHandler(rec *service.DutyCountReconciler) *RepairHandler {
	return &RepairHandler{
		rec:   rec,
		roles: service.NewRoleService(),
	}
}

// Repair 立即跑一轮对账，返回修正过的漂移明细
func (h *RepairHandler) Repair(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	isAdmin, err := h.roles.IsAdmin(userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"msg": "forbidden"})
		return
	}

	fixed, err := h.rec.RepairNow(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fixed": fixed})
}
