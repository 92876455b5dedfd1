package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/talentbase/resumeflow/internal/filetext"
	"github.com/talentbase/resumeflow/internal/services"
	"github.com/talentbase/resumeflow/internal/utils"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

var extMimes = map[string]string{
	".pdf":  filetext.MimePDF,
	".docx": filetext.MimeDocx,
	".txt":  filetext.MimeText,
}

func (h *ResumeHandler) Upload(c *gin.Context) {
	const op = "ResumeHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mime, ok := extMimes[ext]
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .pdf, .docx and .txt are allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if ext == ".pdf" && http.DetectContentType(head) != filetext.MimePDF {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}

	row, err := h.svc.Upload(c.Request.Context(), services.UploadInput{
		UserID:           userID,
		Title:            c.PostForm("title"),
		FileName:         fh.Filename,
		MimeType:         mime,
		FileSize:         int(fh.Size),
		File:             r,
		JobDescriptionID: c.PostForm("job_description_id"),
		Provider:         c.PostForm("provider"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, row)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	row, err := h.svc.Get(c.Request.Context(), userID, c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *ResumeHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), userID, limitParam(c, 20, 100))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resumes": rows})
}

func (h *ResumeHandler) Status(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.svc.Status(c.Request.Context(), userID, c.Param("resume_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ResumeHandler) Reprocess(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var body struct {
		JobDescriptionID string `json:"job_description_id"`
		Provider         string `json:"provider"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := h.svc.Reprocess(c.Request.Context(), userID, c.Param("resume_id"), body.JobDescriptionID, body.Provider); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
