package api

import (
	"errors"
	"gymnotes/training-tracker/internal/domain"
	"gymnotes/training-tracker/internal/service"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// TrainingHandler serves the training and exercise routes.
type TrainingHandler struct {
	trainingService service.TrainingService
}

// NewTrainingHandler creates a new TrainingHandler.
func NewTrainingHandler(trainingService service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for one exercise.
type ExerciseRequest struct {
	ID     string              `json:"id"`
	Name   string              `json:"name" binding:"required"`
	Type   domain.ExerciseType `json:"type" binding:"required,oneof=weight cardio"`
	Sets   int                 `json:"sets"`
	Reps   int                 `json:"reps"`
	Weight *float64            `json:"weight"`
	Time   *float64            `json:"time"`
	Notes  string              `json:"notes"`
	Images []string            `json:"images"`
}

func (r ExerciseRequest) toDomain() domain.Exercise {
	return domain.Exercise{
		ID:     r.ID,
		Name:   r.Name,
		Type:   r.Type,
		Sets:   r.Sets,
		Reps:   r.Reps,
		Weight: r.Weight,
		Time:   r.Time,
		Notes:  r.Notes,
		Images: r.Images,
	}
}

// TrainingRequest defines the expected JSON for creating or replacing a training.
// A missing date means now.
type TrainingRequest struct {
	Name      string            `json:"name" binding:"required"`
	Date      time.Time         `json:"date"`
	Exercises []ExerciseRequest `json:"exercises" binding:"dive"`
	Notes     string            `json:"notes"`
	Duration  *float64          `json:"duration"`
}

func (r TrainingRequest) toDomain() domain.CreateTrainingData {
	exercises := make([]domain.Exercise, len(r.Exercises))
	for i, ex := range r.Exercises {
		exercises[i] = ex.toDomain()
	}
	return domain.CreateTrainingData{
		Name:      r.Name,
		Date:      r.Date,
		Exercises: exercises,
		Notes:     r.Notes,
		Duration:  r.Duration,
	}
}

// --- Error mapping ---

// respondServiceError maps service errors onto HTTP status codes.
func respondServiceError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTrainingNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrImageNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: %s: %v", action, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+action+".")
	}
}

// --- Handler Methods ---

// ListTrainings godoc
// @Summary List trainings
// @Description Returns one page of trainings, newest first.
// @Tags Trainings
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Success 200 {object} service.TrainingPage
// @Router /trainings [get]
func (h *TrainingHandler) ListTrainings(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	result, err := h.trainingService.ListTrainings(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, "load trainings", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTraining godoc
// @Summary Get a training
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} domain.Training
// @Failure 404 {object} gin.H "Training not found"
// @Router /trainings/{id} [get]
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	training, err := h.trainingService.GetTrainingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, "load training", err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// CreateTraining godoc
// @Summary Create a training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param training body TrainingRequest true "Training"
// @Success 201 {object} domain.Training
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /trainings [post]
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	training, err := h.trainingService.CreateTraining(c.Request.Context(), req.toDomain())
	if err != nil {
		respondServiceError(c, "create training", err)
		return
	}
	c.JSON(http.StatusCreated, training)
}

// UpdateTraining godoc
// @Summary Replace a training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param training body TrainingRequest true "Training"
// @Success 200 {object} domain.Training
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 404 {object} gin.H "Training not found"
// @Router /trainings/{id} [put]
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	training, err := h.trainingService.UpdateTraining(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		respondServiceError(c, "update training", err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// DeleteTraining godoc
// @Summary Delete a training
// @Description Deleting an unknown ID also succeeds.
// @Tags Trainings
// @Param id path string true "Training ID"
// @Success 204
// @Router /trainings/{id} [delete]
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	if err := h.trainingService.DeleteTraining(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, "delete training", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddExercise godoc
// @Summary Add an exercise to a training
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 201 {object} domain.Training
// @Router /trainings/{id}/exercises [post]
func (h *TrainingHandler) AddExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	training, err := h.trainingService.AddExercise(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		respondServiceError(c, "add exercise", err)
		return
	}
	c.JSON(http.StatusCreated, training)
}

// UpdateExercise godoc
// @Summary Replace an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param exerciseId path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise"
// @Success 200 {object} domain.Training
// @Router /trainings/{id}/exercises/{exerciseId} [put]
func (h *TrainingHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	training, err := h.trainingService.UpdateExercise(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), req.toDomain())
	if err != nil {
		respondServiceError(c, "update exercise", err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// DeleteExercise godoc
// @Summary Remove an exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Training ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} domain.Training
// @Router /trainings/{id}/exercises/{exerciseId} [delete]
func (h *TrainingHandler) DeleteExercise(c *gin.Context) {
	training, err := h.trainingService.DeleteExercise(c.Request.Context(), c.Param("id"), c.Param("exerciseId"))
	if err != nil {
		respondServiceError(c, "delete exercise", err)
		return
	}
	c.JSON(http.StatusOK, training)
}

// RemoveExerciseImage godoc
// @Summary Remove one image from an exercise
// @Tags Exercises
// @Produce json
// @Param id path string true "Training ID"
// @Param exerciseId path string true "Exercise ID"
// @Param index path int true "Image position"
// @Success 200 {object} domain.Training
// @Router /trainings/{id}/exercises/{exerciseId}/images/{index} [delete]
func (h *TrainingHandler) RemoveExerciseImage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Image index must be a number")
		return
	}

	training, err := h.trainingService.RemoveExerciseImage(c.Request.Context(), c.Param("id"), c.Param("exerciseId"), index)
	if err != nil {
		respondServiceError(c, "remove image", err)
		return
	}
	c.JSON(http.StatusOK, training)
}
