package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress *service.ProgressService
}

func NewProgressController(progress *service.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// List godoc
// @Summary Completed-exercise records for the authenticated user
// @Description Returns the user's progress records as a flat array. The
// @Description userId query parameter is accepted for compatibility but the
// @Description token identity always wins.
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param type query string false "Progress type filter"
// @Success 200 {object} util.Response{data=[]model.ExerciseProgress}
// @Router /api/progress [get]
func (ctl *ProgressController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	records, err := ctl.Progress.List(claims.UserID, c.Query("type"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, records)
}

// Record godoc
// @Summary Record an exercise completion
// @Description Idempotent: replaying the same (user, exercise) pair is a no-op,
// @Description so offline clients can resend queued completions safely.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ProgressInput true "Completion record"
// @Success 201 {object} util.Response{data=model.ExerciseProgress}
// @Router /api/progress [post]
func (ctl *ProgressController) Record(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.ProgressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	rec, err := ctl.Progress.Record(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, rec)
}

// Count godoc
// @Summary Number of completed exercises for the authenticated user
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Param type query string false "Progress type filter"
// @Success 200 {object} util.Response
// @Router /api/progress/count [get]
func (ctl *ProgressController) Count(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	count, err := ctl.Progress.Count(claims.UserID, c.Query("type"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"count": count})
}
