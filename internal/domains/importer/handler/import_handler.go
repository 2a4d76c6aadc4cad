package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/service"
	"github.com/chvvasss/gastrotech-website-sub001/internal/shared/response"
)

// ImportHandler exposes the import center over HTTP.
type ImportHandler struct {
	service service.Service
}

func NewImportHandler(svc service.Service) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Upload handles POST /admin/import. Multipart form: "file" plus the
// "kind", "dry_run" and "allow_partial" fields.
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "a file is required (multipart field \"file\")")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not open the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "could not read the uploaded file")
		return
	}

	req := model.UploadRequest{
		FileName:     fileHeader.Filename,
		Data:         data,
		Kind:         model.ImportKind(c.PostForm("kind")),
		DryRun:       parseBoolField(c.PostForm("dry_run")),
		AllowPartial: parseBoolField(c.PostForm("allow_partial")),
	}

	result, err := h.service.Upload(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// Apply handles POST /admin/import/:id/apply.
func (h *ImportHandler) Apply(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	job, err := h.service.Apply(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, job)
}

// List handles GET /admin/import.
func (h *ImportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	summaries, err := h.service.ListJobs(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, summaries, &response.Meta{
		Limit: limit,
		Total: len(summaries),
	})
}

// Get handles GET /admin/import/:id.
func (h *ImportHandler) Get(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	detail, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

func (h *ImportHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrJobNotFound):
		response.NotFound(c, "import job not found")
	case errors.Is(err, model.ErrJobNotApplyable):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrFileTooLarge):
		response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	default:
		var vErrs validation.Errors
		if errors.As(err, &vErrs) {
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "validation failed", vErrs)
			return
		}
		log.Error().Err(err).Str("path", c.FullPath()).Msg("import request failed")
		response.InternalServerError(c, "internal server error")
	}
}

func parseBoolField(value string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}
