package user

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minhvu/Skillport/config"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/middleware"
	"github.com/minhvu/Skillport/internal/service"
	"github.com/rs/zerolog/log"
)

// AvatarURLPrefix is the public route the upload directory is served under.
const AvatarURLPrefix = "/static/uploads"

type ProfileController struct {
	profileService service.ProfileService
	cfg            *config.Config
}

func NewProfileController(profileService service.ProfileService, cfg *config.Config) *ProfileController {
	return &ProfileController{profileService: profileService, cfg: cfg}
}

// GetMyProfile godoc
// @Summary Current user's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile/me [get]
func (c *ProfileController) GetMyProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	profile, err := c.profileService.GetProfile(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetMyProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve profile", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Update the current user's profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body dto.ProfileUpdateDTO true "Fields to update; omitted fields are left untouched"
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile/me [put]
func (c *ProfileController) UpdateMyProfile(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	var req dto.ProfileUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	profile, err := c.profileService.UpdateProfile(userID, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UpdateMyProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update profile", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Description Stores the image and points the profile's avatar URL at it.
// @Tags Profile
// @Accept mpfd
// @Produce json
// @Param file formData file true "Avatar image"
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Missing file"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Form field 'file' is required", Details: []string{err.Error()}})
		return
	}

	if err := os.MkdirAll(c.cfg.Uploads.Dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", c.cfg.Uploads.Dir).Msg("UploadAvatar: failed to create upload directory")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store avatar", Details: []string{err.Error()}})
		return
	}

	name := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), filepath.Ext(file.Filename))
	if err := ctx.SaveUploadedFile(file, filepath.Join(c.cfg.Uploads.Dir, name)); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UploadAvatar: failed to save file")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to store avatar", Details: []string{err.Error()}})
		return
	}

	profile, err := c.profileService.UpdateAvatar(userID, AvatarURLPrefix+"/"+name)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UploadAvatar: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update avatar", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetHistory godoc
// @Summary Assessment history, newest first
// @Tags Profile
// @Produce json
// @Success 200 {array} dto.HistoryItemDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile/history [get]
func (c *ProfileController) GetHistory(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	history, err := c.profileService.GetHistory(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve history", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, history)
}

// GetTrend godoc
// @Summary Performance trend polyline
// @Description Accuracy of the last attempts scaled into a fixed SVG viewport.
// @Tags Profile
// @Produce json
// @Success 200 {object} dto.TrendResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile/trend [get]
func (c *ProfileController) GetTrend(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	trend, err := c.profileService.GetTrend(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetTrend: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve trend", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, trend)
}
