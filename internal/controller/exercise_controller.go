package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExerciseController struct {
	Exercises *service.ExerciseService
	Storage   *service.StorageService
}

func NewExerciseController(exercises *service.ExerciseService, storage *service.StorageService) *ExerciseController {
	return &ExerciseController{Exercises: exercises, Storage: storage}
}

// List godoc
// @Summary Full exercise catalog in module order
// @Tags exercises
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Exercise}
// @Router /api/exercises [get]
func (ctl *ExerciseController) List(c *gin.Context) {
	exercises, err := ctl.Exercises.List()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, exercises)
}

// Module godoc
// @Summary One module window of the catalog
// @Tags exercises
// @Produce json
// @Param n path int true "Module number, 1-based"
// @Success 200 {object} util.Response{data=[]engine.Exercise}
// @Failure 404 {object} util.Response
// @Router /api/modules/{n} [get]
func (ctl *ExerciseController) Module(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		util.BadRequest(c, "invalid module number")
		return
	}

	exercises, err := ctl.Exercises.Module(c.Request.Context(), n)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, exercises)
}

// Get godoc
// @Summary Fetch one exercise
// @Tags exercises
// @Produce json
// @Param id path string true "Exercise id"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response
// @Router /api/exercises/{id} [get]
func (ctl *ExerciseController) Get(c *gin.Context) {
	ex, err := ctl.Exercises.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, ex)
}

// Create godoc
// @Summary Create an exercise (teacher)
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExerciseInput true "Exercise"
// @Success 201 {object} util.Response{data=model.Exercise}
// @Router /api/exercises [post]
func (ctl *ExerciseController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	ex, err := ctl.Exercises.Create(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, ex)
}

// Update godoc
// @Summary Update an exercise (creator or admin)
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise id"
// @Param body body service.ExerciseInput true "Exercise"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Router /api/exercises/{id} [put]
func (ctl *ExerciseController) Update(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.ExerciseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	ex, err := ctl.Exercises.Update(claims, c.Param("id"), in)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, ex)
}

// Delete godoc
// @Summary Delete an exercise (creator or admin)
// @Tags exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise id"
// @Success 200 {object} util.Response
// @Router /api/exercises/{id} [delete]
func (ctl *ExerciseController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	if err := ctl.Exercises.Delete(claims, c.Param("id")); err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, nil)
}

// UploadAudio godoc
// @Summary Attach a listening clip to an exercise (teacher)
// @Tags exercises
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise id"
// @Param file formData file true "Audio file"
// @Success 200 {object} util.Response
// @Router /api/exercises/{id}/audio [post]
func (ctl *ExerciseController) UploadAudio(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "missing audio file")
		return
	}

	audioURL, err := ctl.Storage.UploadExerciseAudio(c.Request.Context(), file)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	if err := ctl.Exercises.SetAudio(c.Param("id"), audioURL); err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, gin.H{"audioUrl": audioURL})
}

func (ctl *ExerciseController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrExerciseNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}
