package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kifouliw-hash/MYMIR-sub000/middleware"
	"github.com/kifouliw-hash/MYMIR-sub000/model"
	"github.com/kifouliw-hash/MYMIR-sub000/pkg/logger"
	"github.com/kifouliw-hash/MYMIR-sub000/service"
)

type ProfileHandler struct {
	store *service.Store
}

func NewProfileHandler(store *service.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

// Get returns the company profile of the current user
func (h *ProfileHandler) Get(c *gin.Context) {
	user, err := h.store.GetUserByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, model.CompanyProfile{
		CompanyName: user.CompanyName,
		Sector:      user.Sector,
		Headcount:   user.Headcount,
		Revenue:     user.Revenue,
		Country:     user.Country,
	})
}

// Update replaces the company profile of the current user
func (h *ProfileHandler) Update(c *gin.Context) {
	var profile model.CompanyProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.store.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &profile); err != nil {
		logger.Error(c.Request.Context(), "failed to update profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
