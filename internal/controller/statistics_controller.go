package controller

import (
	"engolo_backend/internal/service"
	"engolo_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StatisticsController struct {
	Statistics *service.StatisticsService
}

func NewStatisticsController(statistics *service.StatisticsService) *StatisticsController {
	return &StatisticsController{Statistics: statistics}
}

// RecordExercise godoc
// @Summary Record one checked-answer statistic
// @Tags statistics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExerciseStatisticInput true "Statistic"
// @Success 201 {object} util.Response{data=model.ExerciseStatistic}
// @Router /api/exercise-statistics [post]
func (ctl *StatisticsController) RecordExercise(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.ExerciseStatisticInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	stat, err := ctl.Statistics.RecordExercise(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, stat)
}

// ListExercise godoc
// @Summary Recent checked-answer statistics for the authenticated user
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Row count" default(100)
// @Success 200 {object} util.Response{data=[]model.ExerciseStatistic}
// @Router /api/exercise-statistics [get]
func (ctl *StatisticsController) ListExercise(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	stats, err := ctl.Statistics.ListExercise(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

// RecordQuiz godoc
// @Summary Record a quiz-set result
// @Description At most one result per (user, quiz set). A duplicate submission
// @Description is accepted and dropped, so a client retrying after a lost
// @Description response never records twice.
// @Tags statistics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizStatisticInput true "Quiz result"
// @Success 201 {object} util.Response{data=model.QuizStatistic}
// @Router /api/quiz-statistics [post]
func (ctl *StatisticsController) RecordQuiz(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var in service.QuizStatisticInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	stat, _, err := ctl.Statistics.RecordQuiz(claims.UserID, in)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, stat)
}

// ListQuiz godoc
// @Summary Quiz-set results for the authenticated user
// @Description With quizSetId the result is the completed-check the session
// @Description layer runs before starting a set: an empty array means not yet
// @Description attempted.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param quizSetId query string false "Filter by quiz set"
// @Success 200 {object} util.Response{data=[]model.QuizStatistic}
// @Router /api/quiz-statistics [get]
func (ctl *StatisticsController) ListQuiz(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	stats, err := ctl.Statistics.ListQuiz(claims.UserID, c.Query("quizSetId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, stats)
}

// Leaderboard godoc
// @Summary Quiz leaderboard across all learners
// @Tags statistics
// @Produce json
// @Param limit query int false "Row count" default(10)
// @Success 200 {object} util.Response{data=[]repository.LeaderboardRow}
// @Router /api/quiz-statistics/leaderboard [get]
func (ctl *StatisticsController) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rows, err := ctl.Statistics.Leaderboard(limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, rows)
}
