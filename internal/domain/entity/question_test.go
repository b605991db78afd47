package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsCorrect(t *testing.T) {
	// Arrange
	question := &Question{
		ID:            1,
		QuestionRefID: "q1",
		Text:          "What is the capital of France?",
		Options:       OptionMap{"A": "Berlin", "B": "Madrid", "C": "Paris", "D": "Rome"},
		CorrectAnswer: "C",
	}

	// Act & Assert
	assert.True(t, question.IsCorrect("C"), "IsCorrect должен вернуть true для правильной метки")
	assert.False(t, question.IsCorrect("A"), "IsCorrect должен вернуть false для неправильной метки")
	assert.False(t, question.IsCorrect("B"), "IsCorrect должен вернуть false для неправильной метки")
	assert.False(t, question.IsCorrect(""), "IsCorrect должен вернуть false для пустой метки")
}

func TestQuestion_IsValidLabel(t *testing.T) {
	// Arrange
	question := &Question{
		Options: OptionMap{"A": "7", "B": "10", "C": "12", "D": "8"},
	}

	// Act & Assert: валидные метки
	assert.True(t, question.IsValidLabel("A"))
	assert.True(t, question.IsValidLabel("D"))

	// Assert: невалидные метки
	assert.False(t, question.IsValidLabel("E"), "Метка вне вариантов должна быть невалидной")
	assert.False(t, question.IsValidLabel("a"), "Метки чувствительны к регистру")
	assert.False(t, question.IsValidLabel(""), "Пустая метка должна быть невалидной")
}

func TestQuestion_IsValidLabel_PartialOptions(t *testing.T) {
	// Вопрос может иметь меньше четырёх вариантов
	question := &Question{
		Options: OptionMap{"A": "Yes", "B": "No"},
	}

	assert.True(t, question.IsValidLabel("A"))
	assert.False(t, question.IsValidLabel("C"))
	assert.False(t, question.IsValidLabel("D"))
}

func TestQuestion_Labels_StableOrder(t *testing.T) {
	// Arrange
	question := &Question{
		Options: OptionMap{"D": "Pacific", "B": "Indian", "A": "Atlantic", "C": "Arctic"},
	}

	// Act
	labels := question.Labels()

	// Assert: порядок всегда A..D независимо от порядка ключей map
	require.Equal(t, []string{"A", "B", "C", "D"}, labels)
}

func TestOptionMap_ScanValue_RoundTrip(t *testing.T) {
	// Arrange
	original := OptionMap{"A": "Earth", "B": "Mars"}

	// Act
	raw, err := original.Value()
	require.NoError(t, err)

	var decoded OptionMap
	err = decoded.Scan(raw)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestOptionMap_Scan_Nil(t *testing.T) {
	var m OptionMap
	err := m.Scan(nil)

	require.NoError(t, err)
	assert.Empty(t, m, "NULL из базы должен давать пустую map, а не nil panic")
}

func TestOptionMap_Value_Empty(t *testing.T) {
	var m OptionMap
	raw, err := m.Value()

	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), raw, "Пустая map должна сериализоваться в {} вместо null")
}
