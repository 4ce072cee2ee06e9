package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizSetController struct {
	QuizSets *service.QuizSetService
}

func NewQuizSetController(quizSets *service.QuizSetService) *QuizSetController {
	return &QuizSetController{QuizSets: quizSets}
}

// List godoc
// @Summary List quiz sets
// @Tags quiz-sets
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Param category query string false "Filter by category"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quiz-sets [get]
func (ctl *QuizSetController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	sets, total, err := ctl.QuizSets.List(page, limit, c.Query("category"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: sets, Total: total, Page: page, Limit: limit})
}

// Daily godoc
// @Summary The current daily quiz set
// @Tags quiz-sets
// @Produce json
// @Success 200 {object} util.Response{data=model.QuizSet}
// @Failure 404 {object} util.Response
// @Router /api/daily-quiz [get]
func (ctl *QuizSetController) Daily(c *gin.Context) {
	qs, err := ctl.QuizSets.Daily(c.Request.Context())
	if err != nil {
		if errors.Is(err, util.ErrQuizSetNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, qs)
}

// Get godoc
// @Summary Fetch one quiz set with its questions
// @Tags quiz-sets
// @Produce json
// @Param id path string true "Quiz set id"
// @Success 200 {object} util.Response{data=model.QuizSet}
// @Failure 404 {object} util.Response
// @Router /api/quiz-sets/{id} [get]
func (ctl *QuizSetController) Get(c *gin.Context) {
	qs, err := ctl.QuizSets.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizSetNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, qs)
}

// Create godoc
// @Summary Create a quiz set with questions (teacher)
// @Tags quiz-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizSetInput true "Quiz set"
// @Success 201 {object} util.Response{data=model.QuizSet}
// @Router /api/quiz-sets [post]
func (ctl *QuizSetController) Create(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.QuizSetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	qs, err := ctl.QuizSets.Create(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, qs)
}

// Update godoc
// @Summary Update a quiz set, reconciling its question list (creator or admin)
// @Tags quiz-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz set id"
// @Param body body service.QuizSetInput true "Quiz set"
// @Success 200 {object} util.Response{data=model.QuizSet}
// @Router /api/quiz-sets/{id} [put]
func (ctl *QuizSetController) Update(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.QuizSetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	qs, err := ctl.QuizSets.Update(claims, c.Param("id"), in)
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, qs)
}

// Delete godoc
// @Summary Delete a quiz set and its questions (creator or admin)
// @Tags quiz-sets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quiz set id"
// @Success 200 {object} util.Response
// @Router /api/quiz-sets/{id} [delete]
func (ctl *QuizSetController) Delete(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	if err := ctl.QuizSets.Delete(claims, c.Param("id")); err != nil {
		ctl.writeError(c, err)
		return
	}
	util.Success(c, nil)
}

func (ctl *QuizSetController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizSetNotFound):
		util.NotFound(c)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	default:
		util.LogInternalError(c, err)
	}
}
