package model

// User owns tasks. Email is unique.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// Status is one entry of the fixed task status vocabulary.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const (
	StatusNew        = "new"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

// StatusNames lists the status vocabulary in its canonical order.
func StatusNames() []string {
	return []string{StatusNew, StatusInProgress, StatusCompleted}
}

// Task references exactly one Status and one User.
// A nil Description is stored as NULL.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	StatusID    int64   `json:"status_id"`
	UserID      int64   `json:"user_id"`
}
