package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/model"
	"github.com/minhvu/Skillport/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Trend chart viewport. The polyline is scaled server-side so any client can
// drop the points straight into an SVG.
const (
	trendWidth      = 600
	trendHeight     = 200
	trendPadding    = 20
	trendMaxResults = 10
)

type ProfileService interface {
	GetProfile(userID uint) (*dto.ProfileResponseDTO, error)
	UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.ProfileResponseDTO, error)
	UpdateAvatar(userID uint, avatarURL string) (*dto.ProfileResponseDTO, error)
	GetHistory(userID uint) ([]dto.HistoryItemDTO, error)
	GetTrend(userID uint) (*dto.TrendResponseDTO, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	resultRepo  repository.ResultRepository
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	resultRepo repository.ResultRepository,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		resultRepo:  resultRepo,
	}
}

// ensureProfile returns the user's profile, creating an empty one on first
// read.
func (s *profileService) ensureProfile(userID uint) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &model.Profile{UserID: userID}
		if createErr := s.profileRepo.Create(profile); createErr != nil {
			return nil, fmt.Errorf("error creating profile for user %d: %w", userID, createErr)
		}
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching profile for user %d: %w", userID, err)
	}
	return profile, nil
}

func (s *profileService) toResponse(profile *model.Profile, user *model.User) (*dto.ProfileResponseDTO, error) {
	var resp dto.ProfileResponseDTO
	if err := copier.Copy(&resp, profile); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	resp.Email = user.Email
	resp.FullName = user.FullName

	resp.SubjectsInterested = []string{}
	if strings.TrimSpace(profile.SubjectsInterested) != "" {
		if err := json.Unmarshal([]byte(profile.SubjectsInterested), &resp.SubjectsInterested); err != nil {
			log.Warn().Err(err).Uint("userID", profile.UserID).Msg("Profile subjects field holds invalid JSON, returning empty list")
			resp.SubjectsInterested = []string{}
		}
	}
	return &resp, nil
}

func (s *profileService) GetProfile(userID uint) (*dto.ProfileResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetProfile: user lookup failed")
		return nil, fmt.Errorf("user not found with ID %d: %w", userID, err)
	}
	profile, err := s.ensureProfile(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetProfile: profile lookup failed")
		return nil, err
	}
	return s.toResponse(profile, user)
}

func (s *profileService) UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.ProfileResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UpdateProfile: user lookup failed")
		return nil, fmt.Errorf("user not found with ID %d: %w", userID, err)
	}
	profile, err := s.ensureProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.Title != nil {
		profile.Title = req.Title
	}
	if req.SubjectsInterested != nil {
		encoded, err := json.Marshal(req.SubjectsInterested)
		if err != nil {
			return nil, fmt.Errorf("error encoding subjects: %w", err)
		}
		profile.SubjectsInterested = string(encoded)
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}

	if err := s.profileRepo.Update(profile); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UpdateProfile: failed to save profile")
		return nil, fmt.Errorf("error saving profile: %w", err)
	}
	return s.toResponse(profile, user)
}

// UpdateAvatar points the profile at a freshly uploaded image. The file
// itself is saved by the controller; this only records its public URL.
func (s *profileService) UpdateAvatar(userID uint, avatarURL string) (*dto.ProfileResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UpdateAvatar: user lookup failed")
		return nil, fmt.Errorf("user not found with ID %d: %w", userID, err)
	}
	profile, err := s.ensureProfile(userID)
	if err != nil {
		return nil, err
	}

	profile.AvatarURL = &avatarURL
	if err := s.profileRepo.Update(profile); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("UpdateAvatar: failed to save profile")
		return nil, fmt.Errorf("error saving avatar: %w", err)
	}
	return s.toResponse(profile, user)
}

func (s *profileService) GetHistory(userID uint) ([]dto.HistoryItemDTO, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetHistory: repository error")
		return nil, fmt.Errorf("error fetching history: %w", err)
	}

	items := make([]dto.HistoryItemDTO, 0, len(results))
	for _, result := range results {
		var item dto.HistoryItemDTO
		if err := copier.Copy(&item, &result); err != nil {
			log.Error().Err(err).Uint("resultID", result.ID).Msg("GetHistory: failed to copy result to DTO")
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetTrend builds the performance polyline for the last results, oldest
// first, scaled into the fixed viewport.
func (s *profileService) GetTrend(userID uint) (*dto.TrendResponseDTO, error) {
	recent, err := s.resultRepo.FindRecentByUser(userID, trendMaxResults)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetTrend: repository error")
		return nil, fmt.Errorf("error fetching trend data: %w", err)
	}

	resp := &dto.TrendResponseDTO{
		Width:   trendWidth,
		Height:  trendHeight,
		Padding: trendPadding,
		Points:  []dto.TrendPointDTO{},
	}
	if len(recent) < 2 {
		return resp, nil
	}
	resp.Enough = true

	// FindRecentByUser returns newest first; the chart runs oldest to newest.
	ordered := make([]model.Result, len(recent))
	for i, result := range recent {
		ordered[len(recent)-1-i] = result
	}

	span := len(ordered) - 1
	var segments []string
	for i, result := range ordered {
		x := trendPadding + float64(i)/float64(span)*float64(trendWidth-2*trendPadding)
		y := float64(trendHeight - trendPadding) - result.Accuracy/100*float64(trendHeight-2*trendPadding)
		point := dto.TrendPointDTO{
			X:        roundTo(x, 2),
			Y:        roundTo(y, 2),
			Accuracy: result.Accuracy,
			Subject:  result.Subject,
			Date:     result.CreatedAt,
		}
		resp.Points = append(resp.Points, point)
		segments = append(segments, fmt.Sprintf("%g,%g", point.X, point.Y))
	}
	resp.Polyline = strings.Join(segments, " ")
	return resp, nil
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
