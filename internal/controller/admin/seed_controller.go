package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhvu/Skillport/config"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/service"
	"github.com/rs/zerolog/log"
)

type SeedController struct {
	seedService service.SeedService
	cfg         *config.Config
}

func NewSeedController(seedService service.SeedService, cfg *config.Config) *SeedController {
	return &SeedController{seedService: seedService, cfg: cfg}
}

// SeedFromCSV godoc
// @Summary (Admin) Import the question bank from CSV
// @Description Imports questions from the configured CSV file. Skipped when the bank is non-empty unless force=true.
// @Tags Admin
// @Produce json
// @Param force query bool false "Import even when the bank is non-empty"
// @Success 201 {object} dto.SeedReportDTO
// @Failure 500 {object} dto.ErrorResponse "Import failed"
// @Router /admin/assessment/seed-csv [post]
func (c *SeedController) SeedFromCSV(ctx *gin.Context) {
	force := ctx.Query("force") == "true"

	report, err := c.seedService.SeedFromCSV(c.cfg.Seed.CSVPath, force)
	if err != nil {
		log.Error().Err(err).Msg("SeedFromCSV: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to seed question bank", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, report)
}
