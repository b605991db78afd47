package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint       { return &v }
func strPtr(v string) *string    { return &v }

func TestClassSession_ActiveQuestion_None(t *testing.T) {
	// Arrange: свежая сессия, вопрос ещё не активировался
	session := &ClassSession{ID: 1, IsActive: true}

	// Act
	_, ok := session.ActiveQuestion()

	// Assert
	assert.False(t, ok, "Слот без вопроса должен быть в состоянии none")
	assert.False(t, session.HasOpenQuestion())
}

func TestClassSession_ActiveQuestion_Open(t *testing.T) {
	// Arrange
	session := &ClassSession{
		ID:                   1,
		IsActive:             true,
		ActiveQuestionID:     uintPtr(7),
		ActiveQuestionStatus: strPtr(QuestionStatusOpen),
	}

	// Act
	aq, ok := session.ActiveQuestion()

	// Assert
	require.True(t, ok)
	assert.Equal(t, uint(7), aq.QuestionID)
	assert.True(t, aq.IsOpen())
	assert.True(t, session.HasOpenQuestion())
	assert.True(t, session.IsQuestionOpen(7))
	assert.False(t, session.IsQuestionOpen(8), "Другой вопрос не должен считаться открытым")
}

func TestClassSession_ActiveQuestion_Closed(t *testing.T) {
	// Arrange: вопрос закрыт, ссылка на него сохраняется
	session := &ClassSession{
		ID:                   1,
		IsActive:             true,
		ActiveQuestionID:     uintPtr(7),
		ActiveQuestionStatus: strPtr(QuestionStatusClosed),
	}

	// Act
	aq, ok := session.ActiveQuestion()

	// Assert
	require.True(t, ok)
	assert.False(t, aq.IsOpen())
	assert.False(t, session.HasOpenQuestion())
	assert.False(t, session.IsQuestionOpen(7), "Закрытый вопрос не принимает ответы")
}

func TestClassSession_CanActivate(t *testing.T) {
	// none: активировать можно любой вопрос
	fresh := &ClassSession{ID: 1, IsActive: true}
	assert.True(t, fresh.CanActivate(1))

	// open(7): повторная активация того же вопроса разрешена (no-op),
	// другой вопрос - конфликт "сначала закройте текущий"
	open := &ClassSession{
		ID:                   1,
		IsActive:             true,
		ActiveQuestionID:     uintPtr(7),
		ActiveQuestionStatus: strPtr(QuestionStatusOpen),
	}
	assert.True(t, open.CanActivate(7))
	assert.False(t, open.CanActivate(8))

	// closed(7): можно активировать следующий вопрос
	closed := &ClassSession{
		ID:                   1,
		IsActive:             true,
		ActiveQuestionID:     uintPtr(7),
		ActiveQuestionStatus: strPtr(QuestionStatusClosed),
	}
	assert.True(t, closed.CanActivate(8))
	assert.True(t, closed.CanActivate(7), "Переоткрытие закрытого вопроса проходит через activate")
}
