package service

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yourusername/classroom-api/internal/domain/entity"
	"github.com/yourusername/classroom-api/internal/domain/repository"
)

// AnswerDetail - итог студента по одному вопросу банка.
// Chosen == nil означает, что студент на вопрос не отвечал.
type AnswerDetail struct {
	Chosen    *string `json:"chosen,omitempty"`
	Correct   string  `json:"correct"`
	IsCorrect bool    `json:"is_correct"`
}

// StudentScore - строка итоговой таблицы сессии.
// Answers содержит запись для каждого вопроса банка, включая вопросы
// без ответа; ключ - ID вопроса.
type StudentScore struct {
	UserID   uint                  `json:"user_id"`
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Answered int                   `json:"answered"`
	Correct  int                   `json:"correct"`
	Answers  map[uint]AnswerDetail `json:"answers"`
}

// QuestionStat - распределение ответов по вариантам одного вопроса
type QuestionStat struct {
	QuestionID    uint           `json:"question_id"`
	RefID         string         `json:"ref_id"`
	Text          string         `json:"text"`
	CorrectAnswer string         `json:"correct_answer"`
	Counts        map[string]int `json:"counts"`
	Total         int            `json:"total"`
}

// SessionResults - полные итоги сессии для преподавателя
type SessionResults struct {
	SessionID   uint           `json:"session_id"`
	SessionCode string         `json:"session_code"`
	Scores      []StudentScore `json:"scores"`
	Questions   []QuestionStat `json:"questions"`
}

// ResultService считает итоги сессии: баллы студентов и распределение
// ответов по вопросам.
type ResultService struct {
	sessionRepo  repository.SessionRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
}

func NewResultService(
	sessionRepo repository.SessionRepository,
	questionRepo repository.QuestionRepository,
	responseRepo repository.ResponseRepository,
) *ResultService {
	return &ResultService{
		sessionRepo:  sessionRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
	}
}

// SessionResults собирает итоги по всем ответам сессии.
// Таблица отсортирована по убыванию правильных ответов; при равенстве
// студенты идут в порядке присоединения к сессии.
func (s *ResultService) SessionResults(sessionID uint) (*SessionResults, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}

	members, err := s.sessionRepo.ListMembers(sessionID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}

	bank, err := s.questionRepo.List()
	if err != nil {
		return nil, err
	}
	questionsByID := make(map[uint]*entity.Question, len(bank))
	for i := range bank {
		questionsByID[bank[i].ID] = &bank[i]
	}

	// Каждому участнику заводим запись по каждому вопросу банка:
	// присоединившийся, но промолчавший студент получает строку
	// с Chosen == nil и нулём баллов, а не исчезает из итогов.
	answersByStudent := make(map[uint]map[uint]AnswerDetail, len(members))
	for _, m := range members {
		answers := make(map[uint]AnswerDetail, len(bank))
		for i := range bank {
			answers[bank[i].ID] = AnswerDetail{Correct: bank[i].CorrectAnswer}
		}
		answersByStudent[m.ID] = answers
	}

	statsByQuestion := make(map[uint]*QuestionStat)
	for _, resp := range responses {
		question, ok := questionsByID[resp.QuestionID]
		if !ok {
			continue
		}

		if answers, ok := answersByStudent[resp.StudentID]; ok {
			chosen := resp.ChosenAnswer
			answers[resp.QuestionID] = AnswerDetail{
				Chosen:    &chosen,
				Correct:   question.CorrectAnswer,
				IsCorrect: question.IsCorrect(resp.ChosenAnswer),
			}
		}

		stat, ok := statsByQuestion[resp.QuestionID]
		if !ok {
			stat = &QuestionStat{
				QuestionID:    question.ID,
				RefID:         question.QuestionRefID,
				Text:          question.Text,
				CorrectAnswer: question.CorrectAnswer,
				Counts:        make(map[string]int, len(question.Options)),
			}
			statsByQuestion[resp.QuestionID] = stat
		}
		stat.Counts[resp.ChosenAnswer]++
		stat.Total++
	}

	// Члены сессии уже в порядке присоединения; стабильная сортировка
	// сохраняет этот порядок при равных баллах.
	scores := make([]StudentScore, 0, len(members))
	for _, m := range members {
		answers := answersByStudent[m.ID]
		answered, correct := 0, 0
		for _, detail := range answers {
			if detail.Chosen != nil {
				answered++
			}
			if detail.IsCorrect {
				correct++
			}
		}
		scores = append(scores, StudentScore{
			UserID:   m.ID,
			Name:     m.Name,
			Email:    m.Email,
			Answered: answered,
			Correct:  correct,
			Answers:  answers,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Correct > scores[j].Correct
	})

	// Вопросы в порядке банка
	questionStats := make([]QuestionStat, 0, len(statsByQuestion))
	for i := range bank {
		if stat, ok := statsByQuestion[bank[i].ID]; ok {
			questionStats = append(questionStats, *stat)
		}
	}

	return &SessionResults{
		SessionID:   session.ID,
		SessionCode: session.SessionCode,
		Scores:      scores,
		Questions:   questionStats,
	}, nil
}

// TopScores возвращает первые n строк итоговой таблицы
func (s *ResultService) TopScores(sessionID uint, n int) ([]StudentScore, error) {
	results, err := s.SessionResults(sessionID)
	if err != nil {
		return nil, err
	}
	if n > len(results.Scores) {
		n = len(results.Scores)
	}
	return results.Scores[:n], nil
}

// AnsweredCount возвращает число ответов на вопрос в сессии
func (s *ResultService) AnsweredCount(sessionID, questionID uint) (int64, error) {
	return s.responseRepo.CountForQuestion(sessionID, questionID)
}

// RenderSummary собирает текстовую и HTML-версии письма с итогами
func (s *ResultService) RenderSummary(sessionID uint) (textBody, htmlBody string, err error) {
	results, err := s.SessionResults(sessionID)
	if err != nil {
		return "", "", err
	}

	var text strings.Builder
	var htm strings.Builder

	fmt.Fprintf(&text, "Session %s has ended.\n", results.SessionCode)
	fmt.Fprintf(&text, "Participants: %d, questions asked: %d.\n\n", len(results.Scores), len(results.Questions))

	fmt.Fprintf(&htm, "<p>Session <strong>%s</strong> has ended.</p>", html.EscapeString(results.SessionCode))
	fmt.Fprintf(&htm, "<p>Participants: %d, questions asked: %d.</p>", len(results.Scores), len(results.Questions))

	top := results.Scores
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) > 0 {
		text.WriteString("Top students:\n")
		htm.WriteString("<ol>")
		for i, score := range top {
			fmt.Fprintf(&text, "%d. %s - %d correct of %d answered\n", i+1, score.Name, score.Correct, score.Answered)
			fmt.Fprintf(&htm, "<li>%s - %d correct of %d answered</li>", html.EscapeString(score.Name), score.Correct, score.Answered)
		}
		htm.WriteString("</ol>")
	}

	return text.String(), htm.String(), nil
}
