package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/raveworks-booking/internal/config"
	"github.com/iliyamo/raveworks-booking/internal/model"
	"github.com/iliyamo/raveworks-booking/internal/repository"
	"github.com/iliyamo/raveworks-booking/internal/utils"
)

// BookingStore is the back office view of stored bookings.
type BookingStore interface {
	ListBookings(ctx context.Context) ([]model.BookingRecord, error)
	UpdateBookingStatus(ctx context.Context, id string, status model.BookingStatus) (model.BookingRecord, error)
}

// AdminHandler bundles dependencies for the back office endpoints.  There
// is a single admin account configured through the environment.
type AdminHandler struct {
	Cfg      config.Config
	Bookings BookingStore
	Logger   *zap.Logger
}

// NewAdminHandler constructs an AdminHandler and panics if the store is
// nil.
func NewAdminHandler(cfg config.Config, b BookingStore, logger *zap.Logger) *AdminHandler {
	if b == nil {
		panic("nil store passed to NewAdminHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{Cfg: cfg, Bookings: b, Logger: logger}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type statusReq struct {
	Status string `json:"status"`
}

// Login checks the admin credentials and returns an access token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	// the hash is checked even for a wrong email so both cases take the same time
	okPass := utils.VerifyPassword(h.Cfg.AdminPasswordHash, req.Password)
	if h.Cfg.AdminEmail == "" || email != strings.ToLower(h.Cfg.AdminEmail) || !okPass {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, email, utils.RoleAdmin, h.Cfg.AccessTTLMin, time.Now())
	if err != nil {
		h.Logger.Error("issue admin token failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{Token: access.Token, Expires: access.Exp})
}

// ListBookings returns every booking, newest first.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListBookings(ctx)
	if err != nil {
		h.Logger.Error("list bookings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// UpdateStatus changes the status of one booking.
func (h *AdminHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	id := strings.TrimSpace(c.Param("id"))
	status := model.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Bookings.UpdateBookingStatus(ctx, id, status)
	switch {
	case errors.Is(err, repository.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case err != nil:
		h.Logger.Error("update booking status failed", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Logger.Info("booking status changed",
		zap.String("id", id),
		zap.String("status", string(status)),
		zap.Any("by", c.Get("user_id")),
	)
	return c.JSON(http.StatusOK, rec)
}
