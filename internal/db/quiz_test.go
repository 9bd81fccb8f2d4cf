package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

func TestSubmitQuizScoresCorrectAnswers(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	attempt, err := SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-correct"].ID},
		{QuestionID: questions[1].ID, SelectedAnswerID: answers["q2-wrong"].ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 10, attempt.Score)
	require.Len(t, attempt.UserAnswers, 2)
	assert.True(t, attempt.UserAnswers[0].IsCorrect)
	assert.False(t, attempt.UserAnswers[1].IsCorrect)

	stored, err := GetAttempt(ctx, attempt.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Score)
	assert.Len(t, stored.UserAnswers, 2)
}

func TestSubmitQuizFullScore(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)

	attempt, err := SubmitQuiz(context.Background(), quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-correct"].ID},
		{QuestionID: questions[1].ID, SelectedAnswerID: answers["q2-correct"].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, attempt.Score)
}

func TestSubmitQuizRejectsCrossQuestionAnswer(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	_, err := SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q2-correct"].ID},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalid))

	// nothing may be persisted for a rejected submission
	var count int64
	require.NoError(t, DB.Model(&models.QuizAttempt{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitQuizRejectsDuplicateQuestion(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)

	_, err := SubmitQuiz(context.Background(), quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-correct"].ID},
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-wrong"].ID},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func TestSubmitQuizRejectsUnknownIDs(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	_, err := SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: 9999, SelectedAnswerID: answers["q1-correct"].ID},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: 9999},
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = SubmitQuiz(ctx, 9999, user.ID, nil)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestSubmitQuizEmptySubmission(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, _, _ := seedQuiz(t, lessons[0].ID)

	attempt, err := SubmitQuiz(context.Background(), quiz.ID, user.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, attempt.Score)
	assert.Empty(t, attempt.UserAnswers)
}

func TestSingleCorrectAnswerPerQuestion(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	_, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	second := models.Answer{Text: "also one", IsCorrect: true, QuestionID: questions[0].ID}
	err := CreateAnswer(ctx, &second)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// any number of wrong answers is fine
	wrong := models.Answer{Text: "three", QuestionID: questions[0].ID}
	require.NoError(t, CreateAnswer(ctx, &wrong))

	// promoting a wrong answer while a correct one exists hits the same index
	_, err = UpdateAnswer(ctx, answers["q1-wrong"].ID, "2", true)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))

	// demoting the current correct answer frees the slot
	_, err = UpdateAnswer(ctx, answers["q1-correct"].ID, "1", false)
	require.NoError(t, err)
	_, err = UpdateAnswer(ctx, answers["q1-wrong"].ID, "2", true)
	require.NoError(t, err)
}

func TestGetAttemptScopedToOwner(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	attempt, err := SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
		{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-correct"].ID},
	})
	require.NoError(t, err)

	_, err = GetAttempt(ctx, attempt.ID, user.ID+1)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestListLessonQuizzesWithAttempts(t *testing.T) {
	setupTestDB(t)
	_, _, _, lessons := seedCurriculum(t)
	user := seedUser(t, nil)
	quiz, questions, answers := seedQuiz(t, lessons[0].ID)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := SubmitQuiz(ctx, quiz.ID, user.ID, []SubmittedAnswer{
			{QuestionID: questions[0].ID, SelectedAnswerID: answers["q1-correct"].ID},
		})
		require.NoError(t, err)
	}

	quizzes, history, err := ListLessonQuizzesWithAttempts(ctx, lessons[0].ID, user.ID)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Len(t, history[quiz.ID], 2)

	// another user sees the quizzes but no history
	_, otherHistory, err := ListLessonQuizzesWithAttempts(ctx, lessons[0].ID, user.ID+1)
	require.NoError(t, err)
	assert.Empty(t, otherHistory[quiz.ID])
}
