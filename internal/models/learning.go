package models

// Grade is a year/level grouping of courses.
type Grade struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string `json:"description"`

	Courses []Course `gorm:"constraint:OnDelete:CASCADE;" json:"courses,omitempty"`
}

type Course struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `json:"description"`
	ImageURL    string `gorm:"size:500" json:"image_url"`
	GradeID     uint   `gorm:"not null;index" json:"grade_id"`

	Units []Unit `gorm:"constraint:OnDelete:CASCADE;" json:"units,omitempty"`
}

// Unit groups lessons within a course. Order is unique per course; the global
// lesson ordering is (unit.order, lesson.order).
type Unit struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description"`
	Order       int    `gorm:"column:sort_order;not null;uniqueIndex:idx_course_order" json:"order"`
	CourseID    uint   `gorm:"not null;uniqueIndex:idx_course_order" json:"course_id"`

	Lessons []Lesson `gorm:"constraint:OnDelete:CASCADE;" json:"lessons,omitempty"`
}

type Lesson struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"size:200;not null" json:"title"`
	Order         int    `gorm:"column:sort_order;not null;uniqueIndex:idx_unit_order" json:"order"`
	DocumentLink  string `gorm:"size:500" json:"document_link"`
	EstimatedTime *int   `json:"estimated_time,omitempty"` // minutes
	UnitID        uint   `gorm:"not null;uniqueIndex:idx_unit_order" json:"unit_id"`

	Quizzes []Quiz `gorm:"constraint:OnDelete:CASCADE;" json:"quizzes,omitempty"`
}
