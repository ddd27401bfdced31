package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kifouliw-hash/MYMIR-sub000/model"
	"github.com/kifouliw-hash/MYMIR-sub000/service"
)

func newProfileRouter(store *service.Store, userID string) *gin.Engine {
	h := NewProfileHandler(store)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	router.GET("/profile", h.Get)
	router.PUT("/profile", h.Update)
	return router
}

func TestProfileGetAndUpdate(t *testing.T) {
	store := newHandlerStore(t)
	seedUser(t, store, "u1")
	router := newProfileRouter(store, "u1")

	// Initial profile carries the seeded company name only
	req := httptest.NewRequest("GET", "/profile", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var profile model.CompanyProfile
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if profile.CompanyName == nil || *profile.CompanyName != "BTP Rhône SARL" {
		t.Error("Expected seeded company name")
	}
	if profile.Sector != nil {
		t.Error("Expected unset sector to be null")
	}

	// Update the profile
	sector := "Construction"
	country := "France"
	update := model.CompanyProfile{
		CompanyName: profile.CompanyName,
		Sector:      &sector,
		Country:     &country,
	}
	data, _ := json.Marshal(update)
	req = httptest.NewRequest("PUT", "/profile", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	// Read it back
	req = httptest.NewRequest("GET", "/profile", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var updated model.CompanyProfile
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if updated.Sector == nil || *updated.Sector != "Construction" {
		t.Error("Expected sector to persist")
	}
	if updated.Country == nil || *updated.Country != "France" {
		t.Error("Expected country to persist")
	}
	if updated.Headcount != nil {
		t.Error("Expected unset headcount to stay null")
	}
}

func TestProfileUpdateInvalidBody(t *testing.T) {
	store := newHandlerStore(t)
	seedUser(t, store, "u1")
	router := newProfileRouter(store, "u1")

	req := httptest.NewRequest("PUT", "/profile", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
