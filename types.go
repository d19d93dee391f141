package edukit

import (
	"time"

	"github.com/edukit/edukit/pkg/authstore"
)

// User is the account entity shared with the auth store.
type User = authstore.User

// Role names, re-exported for callers that only import the root package.
const (
	RoleAdmin      = authstore.RoleAdmin
	RoleInstructor = authstore.RoleInstructor
	RoleLearner    = authstore.RoleLearner
)

// Course is a sellable unit of content owned by an instructor.
type Course struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	Category     string    `json:"category,omitempty"`
	Level        string    `json:"level,omitempty"`
	InstructorID string    `json:"instructorId"`
	Price        float64   `json:"price"`
	Discount     float64   `json:"discount,omitempty"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Chapter groups lectures inside a course.
type Chapter struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Lecture is one video lesson inside a chapter. Duration is in seconds.
type Lecture struct {
	ID        string `json:"id"`
	ChapterID string `json:"chapterId"`
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Position  int    `json:"position"`
	Free      bool   `json:"free,omitempty"`
}

// Quiz is attached to a chapter and graded client-side.
type Quiz struct {
	ID        string         `json:"id"`
	ChapterID string         `json:"chapterId"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions,omitempty"`
}

// QuizQuestion is a single-answer multiple choice question. Answer is
// the index into Options.
type QuizQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// Order is a checkout of one or more courses.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Items       []OrderItem `json:"items"`
	VoucherCode string      `json:"voucherCode,omitempty"`
	Subtotal    float64     `json:"subtotal"`
	Discount    float64     `json:"discount,omitempty"`
	Total       float64     `json:"total"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderItem is one course line captured at purchase time.
type OrderItem struct {
	CourseID string  `json:"courseId"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
}

// Voucher is a discount code. Exactly one of Percent and Amount is
// expected to carry the discount.
type Voucher struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Percent    int       `json:"percent,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	UsageLimit int       `json:"usageLimit,omitempty"`
	UsedCount  int       `json:"usedCount,omitempty"`
	Active     bool      `json:"active"`
}

// Comment is a learner's note on a lecture.
type Comment struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	LectureID string    `json:"lectureId,omitempty"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
