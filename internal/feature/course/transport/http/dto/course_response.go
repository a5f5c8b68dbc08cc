package dto

import "referearn_backend/internal/feature/course/domain/entity"

// CourseItem is one catalog entry. Amounts are fixed two-decimal strings so
// clients never see float rounding.
type CourseItem struct {
	ID            uint   `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	ReferralBonus string `json:"referral_bonus"`
}

// CourseListRes is returned by GET /courses.
type CourseListRes struct {
	Courses []CourseItem `json:"courses"`
}

// NewCourseListRes converts courses; the result is never nil.
func NewCourseListRes(courses []entity.Course) CourseListRes {
	items := make([]CourseItem, 0, len(courses))
	for i := range courses {
		items = append(items, NewCourseItem(&courses[i]))
	}
	return CourseListRes{Courses: items}
}

// NewCourseItem converts a single course.
func NewCourseItem(c *entity.Course) CourseItem {
	return CourseItem{
		ID:            c.ID,
		Slug:          c.Slug,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price.StringFixed(2),
		ReferralBonus: c.ReferralBonus.StringFixed(2),
	}
}
