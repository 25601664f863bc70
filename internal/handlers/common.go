package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Publisher receives a notification after every successful write.
type Publisher interface {
	Publish(resource, action string, id any)
}

// Options configures the handlers. Set once at startup with Configure.
type Options struct {
	UploadsDir   string
	BaseURL      string
	GeminiAPIKey string
	GeminiModel  string
	Events       Publisher
}

var opts = Options{
	UploadsDir: "./uploads",
	BaseURL:    "http://localhost:8080",
}

func Configure(o Options) {
	if o.UploadsDir == "" {
		o.UploadsDir = opts.UploadsDir
	}
	if o.BaseURL == "" {
		o.BaseURL = opts.BaseURL
	}
	opts = o
}

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

func notify(resource, action string, id any) {
	if opts.Events != nil {
		opts.Events.Publish(resource, action, id)
	}
}

// validationError is returned by input checks and maps to 400.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// respondError maps err onto a status code. what names the resource for 404s and 500s.
func respondError(c *gin.Context, err error, what string) {
	var ve *validationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.msg})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": what + " already exists"})
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(http.StatusBadRequest, gin.H{"error": what + " references a record that does not exist"})
	default:
		slog.Error("request failed", "resource", what, "path", c.FullPath(), "err", err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process " + what})
	}
}

// paramID reads the :id path parameter, answering 400 when it is not a positive integer.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return false
	}
	return true
}

// bindQuery decodes query string filters, answering 400 on failure.
func bindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return false
	}
	return true
}

// deleteByID removes one row of model, answering 404 when nothing was deleted.
func deleteByID(c *gin.Context, db *gorm.DB, model any, resource, what string) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	result := db.Delete(model, id)
	if result.Error != nil {
		respondError(c, result.Error, what)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, gorm.ErrRecordNotFound, what)
		return
	}
	notify(resource, actionDelete, id)
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}
