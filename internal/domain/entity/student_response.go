package entity

import (
	"time"
)

// StudentResponse представляет ответ студента на вопрос в рамках сессии.
// Записи только создаются и никогда не изменяются; составной уникальный
// индекс гарантирует не более одного ответа на (студент, сессия, вопрос)
// даже при конкурентных запросах.
type StudentResponse struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;uniqueIndex:idx_student_session_question,priority:1" json:"student_id"`
	ClassSessionID uint      `gorm:"not null;uniqueIndex:idx_student_session_question,priority:2" json:"class_session_id"`
	QuestionID     uint      `gorm:"not null;uniqueIndex:idx_student_session_question,priority:3" json:"question_id"`
	ChosenAnswer   string    `gorm:"size:1;not null" json:"chosen_answer"` // 'A'..'D'
	SubmittedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"submitted_at"`
}

// TableName определяет имя таблицы для GORM
func (StudentResponse) TableName() string {
	return "student_responses"
}
