package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

func ListQuizzesByLesson(ctx context.Context, lessonID uint) ([]models.Quiz, error) {
	if _, err := GetLesson(ctx, lessonID); err != nil {
		return nil, err
	}
	var quizzes []models.Quiz
	if err := DB.WithContext(ctx).Where("lesson_id = ?", lessonID).Order("id").Find(&quizzes).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return quizzes, nil
}

// GetQuiz loads a quiz with its questions and answers nested.
func GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := DB.WithContext(ctx).
		Preload("Questions", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("Questions.Answers", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Quiz not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &quiz, nil
}

// SubmittedAnswer is one (question, selected answer) pair of a submission.
type SubmittedAnswer struct {
	QuestionID       uint `json:"question_id" binding:"required"`
	SelectedAnswerID uint `json:"selected_answer_id" binding:"required"`
}

// SubmitQuiz validates a submission against the quiz's question/answer tree,
// scores it, and persists the attempt together with its per-question answer
// rows. All validation happens before any write; the attempt and its answers
// commit together or not at all.
func SubmitQuiz(ctx context.Context, quizID, userID uint, answers []SubmittedAnswer) (*models.QuizAttempt, error) {
	quiz, err := GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	questions := make(map[uint]*models.Question, len(quiz.Questions))
	answerOwner := make(map[uint]uint) // answer id -> question id
	correct := make(map[uint]bool)     // answer id -> is_correct
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		questions[q.ID] = q
		for _, a := range q.Answers {
			answerOwner[a.ID] = q.ID
			correct[a.ID] = a.IsCorrect
		}
	}

	score := 0
	seen := make(map[uint]bool, len(answers))
	rows := make([]models.UserAnswer, 0, len(answers))
	for _, sub := range answers {
		if seen[sub.QuestionID] {
			return nil, apperr.Invalid("Question %d submitted more than once.", sub.QuestionID)
		}
		seen[sub.QuestionID] = true

		question, ok := questions[sub.QuestionID]
		if !ok {
			return nil, apperr.NotFound("Question %d not found in this quiz.", sub.QuestionID)
		}
		owner, ok := answerOwner[sub.SelectedAnswerID]
		if !ok {
			return nil, apperr.NotFound("Answer %d not found in this quiz.", sub.SelectedAnswerID)
		}
		if owner != sub.QuestionID {
			return nil, apperr.Invalid("Answer %d does not belong to question %d.", sub.SelectedAnswerID, sub.QuestionID)
		}

		isCorrect := correct[sub.SelectedAnswerID]
		if isCorrect {
			score += question.Points
		}
		rows = append(rows, models.UserAnswer{
			IsCorrect:        isCorrect,
			QuestionID:       sub.QuestionID,
			SelectedAnswerID: sub.SelectedAnswerID,
		})
	}

	attempt := models.QuizAttempt{
		Score:       score,
		AttemptedAt: time.Now(),
		QuizID:      quiz.ID,
		UserID:      userID,
	}
	err = DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].AttemptID = attempt.ID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	attempt.UserAnswers = rows
	return &attempt, nil
}

func ListAttemptsByUser(ctx context.Context, userID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("attempted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return attempts, nil
}

// GetAttempt returns one of the user's own attempts with its answer records.
// Another user's attempt is indistinguishable from a missing one.
func GetAttempt(ctx context.Context, attemptID, userID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := DB.WithContext(ctx).
		Preload("UserAnswers").
		Where("id = ? AND user_id = ?", attemptID, userID).
		First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Attempt not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &attempt, nil
}

// ListLessonQuizzesWithAttempts returns a lesson's quizzes along with the
// user's attempt history per quiz, newest first.
func ListLessonQuizzesWithAttempts(ctx context.Context, lessonID, userID uint) ([]models.Quiz, map[uint][]models.QuizAttempt, error) {
	quizzes, err := ListQuizzesByLesson(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	history := make(map[uint][]models.QuizAttempt, len(quizzes))
	if len(quizzes) == 0 {
		return quizzes, history, nil
	}
	ids := make([]uint, len(quizzes))
	for i, q := range quizzes {
		ids[i] = q.ID
	}
	var attempts []models.QuizAttempt
	err = DB.WithContext(ctx).
		Where("quiz_id IN ? AND user_id = ?", ids, userID).
		Order("attempted_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	for _, a := range attempts {
		history[a.QuizID] = append(history[a.QuizID], a)
	}
	return quizzes, history, nil
}

// ---------- administrative writes ----------

func CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if _, err := GetLesson(ctx, quiz.LessonID); err != nil {
		return err
	}
	if err := DB.WithContext(ctx).Create(quiz).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func DeleteQuiz(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Quiz{}, id, "Quiz not found.")
}

func CreateQuestion(ctx context.Context, question *models.Question) error {
	var quiz models.Quiz
	if err := DB.WithContext(ctx).First(&quiz, question.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found.")
		}
		return apperr.Internal(err)
	}
	if err := DB.WithContext(ctx).Create(question).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func DeleteQuestion(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Question{}, id, "Question not found.")
}

// CreateAnswer relies on the partial unique index on (question_id, is_correct)
// to reject a second correct answer, so concurrent writers cannot both win.
func CreateAnswer(ctx context.Context, answer *models.Answer) error {
	var question models.Question
	if err := DB.WithContext(ctx).First(&question, answer.QuestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Question not found.")
		}
		return apperr.Internal(err)
	}
	if err := DB.WithContext(ctx).Create(answer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("Only one correct answer is allowed per question.")
		}
		return apperr.Internal(err)
	}
	return nil
}

// UpdateAnswer changes an answer's text and correctness. Marking it correct
// goes through the same partial unique index as inserts.
func UpdateAnswer(ctx context.Context, id uint, text string, isCorrect bool) (*models.Answer, error) {
	var answer models.Answer
	if err := DB.WithContext(ctx).First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Answer not found.")
		}
		return nil, apperr.Internal(err)
	}
	answer.Text = text
	answer.IsCorrect = isCorrect
	if err := DB.WithContext(ctx).Model(&answer).Select("text", "is_correct").Updates(map[string]interface{}{
		"text":       text,
		"is_correct": isCorrect,
	}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("Only one correct answer is allowed per question.")
		}
		return nil, apperr.Internal(err)
	}
	return &answer, nil
}

func DeleteAnswer(ctx context.Context, id uint) error {
	return deleteByID(ctx, &models.Answer{}, id, "Answer not found.")
}
