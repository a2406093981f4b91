package model

// Task represents a single item in the list.
// The JSON shape is the stored format of the "tasks" record.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Category  string `json:"category"`
}
