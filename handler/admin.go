package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kifouliw-hash/MYMIR-sub000/model"
	"github.com/kifouliw-hash/MYMIR-sub000/pkg/logger"
	"github.com/kifouliw-hash/MYMIR-sub000/service"
)

type AdminHandler struct {
	store *service.Store
}

func NewAdminHandler(store *service.Store) *AdminHandler {
	return &AdminHandler{store: store}
}

// ListUsers returns every registered account. Admin only.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	if users == nil {
		users = []*model.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
