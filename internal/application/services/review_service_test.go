package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

type reviewServiceFixture struct {
	svc         *ReviewService
	serviceRepo *fakeServiceRepo
	reviewRepo  *fakeReviewRepo
	userRepo    *fakeUserRepo
	searchRepo  *fakeSearchRepo
	eventBus    *fakeEventBus
	analyzer    *fakeAnalyzer
	invalidator *fakeInvalidator
}

func newReviewServiceFixture() *reviewServiceFixture {
	f := &reviewServiceFixture{
		serviceRepo: newFakeServiceRepo(),
		reviewRepo:  newFakeReviewRepo(),
		userRepo:    newFakeUserRepo(),
		searchRepo:  &fakeSearchRepo{},
		eventBus:    &fakeEventBus{},
		analyzer:    &fakeAnalyzer{scores: map[string]float64{}},
		invalidator: &fakeInvalidator{},
	}
	f.svc = NewReviewService(
		f.reviewRepo, f.serviceRepo, f.userRepo, f.searchRepo,
		f.analyzer, f.eventBus, f.invalidator, nil,
	)

	service := activeService("svc-1", "cat-cleaning")
	f.serviceRepo.services["svc-1"] = &service
	return f
}

func TestReviewService_Submit(t *testing.T) {
	t.Run("stores review with sentiment score", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.analyzer.scores["Great work, very tidy."] = 0.8

		review, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1",
			Rating:    5,
			Comment:   "Great work, very tidy.",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)
		assert.Equal(t, 5, review.Rating)
		require.NotNil(t, review.SentimentScore)
		assert.Equal(t, 0.8, *review.SentimentScore)

		assert.Equal(t, []string{"svc-1"}, f.invalidator.invalidated)
		assert.Equal(t, []string{"svc-1"}, f.searchRepo.indexed)
		require.Len(t, f.eventBus.published, 1)
		assert.Equal(t, entities.CatalogEventTypeReviewCreated, f.eventBus.published[0].EventType)
	})

	t.Run("second review for the same service conflicts", func(t *testing.T) {
		f := newReviewServiceFixture()

		_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "Solid first visit.",
		})
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 2, Comment: "Changed my mind entirely.",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})

	t.Run("different customers may review the same service", func(t *testing.T) {
		f := newReviewServiceFixture()

		_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "Good experience overall.",
		})
		require.NoError(t, err)

		_, err = f.svc.Submit(context.Background(), "user-2", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 5, Comment: "Would hire again.",
		})
		require.NoError(t, err)
	})

	t.Run("short comment is rejected before any write", func(t *testing.T) {
		f := newReviewServiceFixture()

		_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "meh",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.Empty(t, f.reviewRepo.reviews)
		assert.Zero(t, f.analyzer.calls)
	})

	t.Run("out of scale rating conflicts", func(t *testing.T) {
		f := newReviewServiceFixture()

		for _, rating := range []int{0, 6, -1} {
			_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
				ServiceID: "svc-1", Rating: rating, Comment: "Rating scale probing.",
			})
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		}
	})

	t.Run("unknown service is not found", func(t *testing.T) {
		f := newReviewServiceFixture()

		_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-missing", Rating: 4, Comment: "Where did it go?",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestReviewService_Update(t *testing.T) {
	submit := func(f *reviewServiceFixture) *entities.Review {
		review, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "Decent but slow service.",
		})
		require.NoError(t, err)
		return review
	}

	t.Run("author can update, changed comment rescored", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.analyzer.scores["Decent but slow service."] = -0.1
		f.analyzer.scores["Actually they improved a lot."] = 0.7
		review := submit(f)

		updated, err := f.svc.Update(context.Background(), "user-1", review.ID, UpdateReviewInput{
			Rating:  intPtr(5),
			Comment: strPtr("Actually they improved a lot."),
		})

		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)
		require.NotNil(t, updated.SentimentScore)
		assert.Equal(t, 0.7, *updated.SentimentScore)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("unchanged comment keeps sentiment", func(t *testing.T) {
		f := newReviewServiceFixture()
		f.analyzer.scores["Decent but slow service."] = -0.1
		review := submit(f)
		callsAfterSubmit := f.analyzer.calls

		updated, err := f.svc.Update(context.Background(), "user-1", review.ID, UpdateReviewInput{
			Rating: intPtr(3),
		})

		require.NoError(t, err)
		assert.Equal(t, -0.1, *updated.SentimentScore)
		assert.Equal(t, callsAfterSubmit, f.analyzer.calls)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newReviewServiceFixture()
		review := submit(f)
		f.userRepo.users["user-2"] = &entities.User{ID: "user-2", Role: entities.RoleCustomer}

		_, err := f.svc.Update(context.Background(), "user-2", review.ID, UpdateReviewInput{Rating: intPtr(1)})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	})

	t.Run("admin may update any review", func(t *testing.T) {
		f := newReviewServiceFixture()
		review := submit(f)
		f.userRepo.users["admin-1"] = &entities.User{ID: "admin-1", Role: entities.RoleAdmin}

		_, err := f.svc.Update(context.Background(), "admin-1", review.ID, UpdateReviewInput{Rating: intPtr(1)})
		assert.NoError(t, err)
	})
}

func TestReviewService_Delete(t *testing.T) {
	t.Run("author can delete", func(t *testing.T) {
		f := newReviewServiceFixture()
		review, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "Posting then retracting.",
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.Delete(context.Background(), "user-1", review.ID))
		assert.Empty(t, f.reviewRepo.reviews)

		last := f.eventBus.published[len(f.eventBus.published)-1]
		assert.Equal(t, entities.CatalogEventTypeReviewDeleted, last.EventType)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newReviewServiceFixture()
		review, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
			ServiceID: "svc-1", Rating: 4, Comment: "Mine and mine only.",
		})
		require.NoError(t, err)

		err = f.svc.Delete(context.Background(), "user-2", review.ID)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
		assert.Len(t, f.reviewRepo.reviews, 1)
	})

	t.Run("missing review is not found", func(t *testing.T) {
		f := newReviewServiceFixture()
		err := f.svc.Delete(context.Background(), "user-1", "no-such-review")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestReviewService_ListByService(t *testing.T) {
	f := newReviewServiceFixture()
	_, err := f.svc.Submit(context.Background(), "user-1", SubmitReviewInput{
		ServiceID: "svc-1", Rating: 5, Comment: "Listing fodder review.",
	})
	require.NoError(t, err)

	reviews, err := f.svc.ListByService(context.Background(), "svc-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = f.svc.ListByService(context.Background(), "svc-gone", 10, 0)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
