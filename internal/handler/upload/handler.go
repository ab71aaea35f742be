package upload

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/guard"
	"github.com/jwalitptl/hospital-api/internal/ingest"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/upload"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const (
	FormField = "file"

	MsgNoFile      = "No file uploaded"
	MsgCSVOnly     = "Only CSV files are allowed"
	MsgParseErrors = "CSV parsing errors"
	MsgCompleted   = "CSV upload completed"
)

var csvContentTypes = map[string]struct{}{
	"text/csv":                 {},
	"application/csv":          {},
	"application/vnd.ms-excel": {},
}

type Handler struct {
	service  *upload.Service
	maxBytes int64
}

func NewHandler(service *upload.Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

// RegisterRoutes mounts POST /upload/{patients|visits|prescriptions}.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/upload", middleware.BodyLimit(h.maxBytes))
	for _, kind := range []model.EntityKind{model.EntityPatients, model.EntityVisits, model.EntityPrescriptions} {
		g.POST("/"+string(kind), middleware.Require(guard.OpImport, kind), h.Upload(kind))
	}
}

// Upload buffers the CSV file and ingests it as kind.
func (h *Handler) Upload(kind model.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile(FormField)
		if err != nil {
			if tooLarge(err) {
				httputil.Fail(c, http.StatusRequestEntityTooLarge, middleware.MsgTooLarge)
				return
			}
			httputil.Fail(c, http.StatusBadRequest, MsgNoFile)
			return
		}
		if !isCSV(fh) {
			httputil.Fail(c, http.StatusBadRequest, MsgCSVOnly)
			return
		}

		raw, err := readAll(fh)
		if err != nil {
			httputil.Error(c, err)
			return
		}

		report, err := h.service.Import(c.Request.Context(), middleware.Capabilities(c), kind, raw)
		if err != nil {
			var schemaErr *ingest.SchemaError
			var parseErr *ingest.ParseError
			switch {
			case errors.As(err, &schemaErr):
				httputil.Fail(c, http.StatusBadRequest, MsgParseErrors, schemaErr.Detail())
			case errors.As(err, &parseErr):
				httputil.Fail(c, http.StatusBadRequest, MsgParseErrors, parseErr.Error())
			default:
				httputil.Error(c, err)
			}
			return
		}
		httputil.Success(c, http.StatusOK, MsgCompleted, report)
	}
}

func isCSV(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	_, ok := csvContentTypes[strings.ToLower(mediaType)]
	return ok
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
