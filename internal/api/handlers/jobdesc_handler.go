package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentbase/resumeflow/internal/services"
	"github.com/talentbase/resumeflow/internal/utils"
)

type JobDescriptionHandler struct {
	svc services.JobDescriptionService
}

func NewJobDescriptionHandler(svc services.JobDescriptionService) *JobDescriptionHandler {
	return &JobDescriptionHandler{svc: svc}
}

func (h *JobDescriptionHandler) Create(c *gin.Context) {
	const op = "JobDescriptionHandler.Create"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var body struct {
		Title   string `json:"title"`
		Company string `json:"company"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	jd, err := h.svc.Create(c.Request.Context(), userID, body.Title, body.Company, body.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jd)
}

func (h *JobDescriptionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jd, err := h.svc.Get(c.Request.Context(), userID, c.Param("jd_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jd)
}

func (h *JobDescriptionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), userID, limitParam(c, 20, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job_descriptions": rows})
}
