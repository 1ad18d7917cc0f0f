package todo

import "time"

type Todo struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"not null"`
	Completed bool      `json:"completed" gorm:"not null"`
	Time      time.Time `json:"time" gorm:"column:time;not null;autoCreateTime"`
}

// Patch 表示部分更新，nil 字段保持原值
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

type createTodoRequest struct {
	Title string `json:"title"`
}

type deleteTodoResponse struct {
	Success bool `json:"success"`
}
