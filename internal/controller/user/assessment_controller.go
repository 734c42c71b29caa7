package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhvu/Skillport/internal/dto"
	"github.com/minhvu/Skillport/internal/middleware"
	"github.com/minhvu/Skillport/internal/service"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	assessmentService service.AssessmentService
	submissionService service.SubmissionService
}

func NewAssessmentController(as service.AssessmentService, ss service.SubmissionService) *AssessmentController {
	return &AssessmentController{
		assessmentService: as,
		submissionService: ss,
	}
}

// GetOverview godoc
// @Summary Question-bank overview
// @Description Per-subject question counts broken down by difficulty.
// @Tags Assessment
// @Produce json
// @Success 200 {array} dto.SubjectCountDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessment/overview [get]
func (c *AssessmentController) GetOverview(ctx *gin.Context) {
	overview, err := c.assessmentService.GetOverview()
	if err != nil {
		log.Error().Err(err).Msg("GetOverview: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve overview", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

// GetQuestions godoc
// @Summary Draw questions for a session
// @Description Returns up to count random questions for a subject and difficulty. May return fewer than requested.
// @Tags Assessment
// @Produce json
// @Param subject query string true "Subject tag"
// @Param diff query string false "Difficulty label (Low, Medium, Hard, Mix)" default(Medium)
// @Param count query int false "Desired question count" default(25)
// @Success 200 {array} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Missing subject or invalid count"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assessment/questions [get]
func (c *AssessmentController) GetQuestions(ctx *gin.Context) {
	subject := ctx.Query("subject")
	if subject == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Query parameter 'subject' is required"})
		return
	}
	difficulty := ctx.DefaultQuery("diff", "Medium")

	count := 25
	if countStr := ctx.Query("count"); countStr != "" {
		val, err := strconv.Atoi(countStr)
		if err != nil || val <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Query parameter 'count' must be a positive integer"})
			return
		}
		count = val
	}

	questions, err := c.assessmentService.GetQuestions(subject, difficulty, count)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("GetQuestions: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// SubmitAssessment godoc
// @Summary Persist a completed attempt
// @Tags Assessment
// @Accept json
// @Produce json
// @Param submission body dto.SubmitAssessmentDTO true "Completed attempt"
// @Success 201 {object} dto.ResultSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid submission"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /assessment/submit [post]
func (c *AssessmentController) SubmitAssessment(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	var req dto.SubmitAssessmentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	summary, err := c.submissionService.Submit(userID, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("SubmitAssessment: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit assessment", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, summary)
}

// GetResult godoc
// @Summary Review detail for a persisted result
// @Tags Assessment
// @Produce json
// @Param result_id path int true "Result ID"
// @Success 200 {object} dto.ResultDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid result ID"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /assessment/result/{result_id} [get]
func (c *AssessmentController) GetResult(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
		return
	}

	resultID, err := strconv.ParseUint(ctx.Param("result_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid result ID format"})
		return
	}

	detail, err := c.submissionService.GetResult(userID, uint(resultID))
	if errors.Is(err, service.ErrResultNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Result not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Uint64("resultID", resultID).Msg("GetResult: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve result", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
