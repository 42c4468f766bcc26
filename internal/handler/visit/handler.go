package visit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/meditrack/visit-api/pkg/errors"
	"github.com/meditrack/visit-api/pkg/logger"

	"github.com/meditrack/visit-api/internal/handler"
	"github.com/meditrack/visit-api/internal/model"
)

// Service is the visit engine surface the transport layer consumes.
type Service interface {
	BookVisit(ctx context.Context, req *model.CreateVisitRequest) error
	ListPatients(ctx context.Context, params model.PatientListParams) (*model.PatientsListResponse, error)
}

type Handler struct {
	service Service
	logger  *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/visits", h.CreateVisit)
	r.GET("/patients", h.ListPatients)
}

func (h *Handler) CreateVisit(c *gin.Context) {
	var req model.CreateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(string(apperrors.CodeValidation), bindingMessage(err)))
		return
	}

	if err := h.service.BookVisit(c.Request.Context(), &req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListPatients(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(string(apperrors.CodeValidation), err.Error()))
		return
	}

	resp, err := h.service.ListPatients(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseListParams(c *gin.Context) (model.PatientListParams, error) {
	var params model.PatientListParams

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid page %q", raw)
		}
		params.Page = &page
	}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid size %q", raw)
		}
		params.Size = &size
	}

	params.Search = c.Query("search")

	if raw := strings.TrimSpace(c.Query("doctorIds")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return params, fmt.Errorf("invalid doctor id %q", part)
			}
			params.DoctorIDs = append(params.DoctorIDs, id)
		}
	}

	return params, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.From(err); ok {
		if appErr.Code == apperrors.CodePersistence {
			h.logger.Error(err, "request failed", "path", c.Request.URL.Path)
		}
		c.JSON(appErr.HTTPStatus(), handler.NewErrorResponse(string(appErr.Code), appErr.Message))
		return
	}

	h.logger.Error(err, "unclassified request failure", "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(string(apperrors.CodePersistence), "internal server error"))
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Sprintf("missing or invalid fields: %s", strings.Join(fields, ", "))
	}
	return "invalid request body"
}
