package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/models"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/internal/storage"
	"github.com/packmollins-afk/bay-area-golf-times-sub002/pkg/utils"
)

// CourseHandler serves the course catalog.
type CourseHandler struct {
	gateway *storage.Gateway
	logger  *logrus.Logger
}

func NewCourseHandler(gateway *storage.Gateway, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{gateway: gateway, logger: logger}
}

// ListCourses returns every catalog course, optionally filtered by region.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.gateway.Courses(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch courses")
		utils.SendInternalError(c, "Failed to fetch courses")
		return
	}

	if region := c.Query("region"); region != "" {
		filtered := make([]models.Course, 0, len(courses))
		for _, course := range courses {
			if course.Region == region {
				filtered = append(filtered, course)
			}
		}
		courses = filtered
	}

	utils.SendSuccess(c, courses)
}

// GetCourse returns one course by slug.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	slug := c.Param("slug")
	courses, err := h.gateway.Courses(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch courses")
		utils.SendInternalError(c, "Failed to fetch course")
		return
	}
	for i := range courses {
		if courses[i].Slug == slug {
			utils.SendSuccess(c, courses[i])
			return
		}
	}
	utils.SendNotFound(c, "Course not found")
}
