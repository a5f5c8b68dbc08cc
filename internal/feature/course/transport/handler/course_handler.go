// Package handler provides the HTTP handlers of the course catalog.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"referearn_backend/internal/feature/course/domain/entity"
	"referearn_backend/internal/feature/course/transport/http/dto"
	"referearn_backend/internal/platform/http/httperr"
)

// CourseLister is the catalog behaviour the handler needs.
type CourseLister interface {
	ListCourses(ctx context.Context) ([]entity.Course, error)
}

// CourseHandler serves the public catalog.
type CourseHandler struct {
	courses CourseLister
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courses CourseLister) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List handles GET /courses.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.ListCourses(c.Request.Context())
	if err != nil {
		httperr.Infra(c, "course.list", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCourseListRes(courses))
}
