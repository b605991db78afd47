package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// Метки вариантов ответа. Банк вопросов хранит до четырёх вариантов A–D.
var optionLabels = []string{"A", "B", "C", "D"}

// OptionMap - пользовательский тип для работы с JSONB: метка варианта -> текст
type OptionMap map[string]string

// Scan реализует интерфейс sql.Scanner для OptionMap
// Используется GORM для чтения JSONB данных из базы
func (o *OptionMap) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = OptionMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionMap{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionMap
// Используется GORM для записи OptionMap в JSONB в базе
func (o OptionMap) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("{}"), nil // Возвращаем пустой JSON объект вместо null
	}
	return json.Marshal(o)
}

// Question представляет вопрос из банка вопросов.
// Банк статичен: записи заливаются сидом миграций и после этого не меняются.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuestionRefID string    `gorm:"size:50;not null;uniqueIndex" json:"question_ref_id"` // человекочитаемый id, например "q1"
	Text          string    `gorm:"size:500;not null" json:"text"`
	Options       OptionMap `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string    `gorm:"size:1;not null" json:"-"` // 'A'..'D', скрыто от клиента
	CreatedAt     time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранная метка правильной
func (q *Question) IsCorrect(label string) bool {
	return label == q.CorrectAnswer
}

// IsValidLabel проверяет, что метка присутствует среди вариантов вопроса
func (q *Question) IsValidLabel(label string) bool {
	_, ok := q.Options[label]
	return ok
}

// Labels возвращает метки вариантов в стабильном порядке A..D
func (q *Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, l := range optionLabels {
		if _, ok := q.Options[l]; ok {
			labels = append(labels, l)
		}
	}
	// На случай нестандартных меток в данных - добавляем остаток по алфавиту
	if len(labels) < len(q.Options) {
		rest := make([]string, 0, len(q.Options)-len(labels))
		for l := range q.Options {
			if !contains(labels, l) {
				rest = append(rest, l)
			}
		}
		sort.Strings(rest)
		labels = append(labels, rest...)
	}
	return labels
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
