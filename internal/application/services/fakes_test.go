package services

import (
	"context"
	"sync"
	"time"

	"github.com/lokafix/marketplace/backend/internal/domain/entities"
	"github.com/lokafix/marketplace/backend/internal/domain/repositories"
	apperrors "github.com/lokafix/marketplace/backend/pkg/errors"
)

// In-memory fakes backing the service tests. They implement just enough
// of each repository contract to exercise the business logic.

type fakeServiceRepo struct {
	services map[string]*entities.Service
	stats    []*entities.ServiceStats
	// statsSince entries are returned by ListStatsSince when their
	// latest review (statsSinceTimes, keyed by service ID) is on or
	// after the cutoff; entries without a recorded time always pass.
	statsSince      []*entities.ServiceStats
	statsSinceTimes map[string]time.Time
	lastCutoff      time.Time
	listErr         error
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{
		services:        make(map[string]*entities.Service),
		statsSinceTimes: make(map[string]time.Time),
	}
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *entities.Service) error {
	f.services[service.ID] = service
	return nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	service, ok := f.services[id]
	if !ok || !service.IsActive {
		return nil, apperrors.NewNotFoundError("service not found")
	}
	return service, nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, service *entities.Service) error {
	if _, ok := f.services[service.ID]; !ok {
		return apperrors.NewNotFoundError("service not found")
	}
	f.services[service.ID] = service
	return nil
}

func (f *fakeServiceRepo) Delete(ctx context.Context, id string) error {
	service, ok := f.services[id]
	if !ok {
		return apperrors.NewNotFoundError("service not found")
	}
	service.IsActive = false
	return nil
}

func (f *fakeServiceRepo) List(ctx context.Context, filter repositories.ServiceFilter) ([]*entities.Service, error) {
	result := []*entities.Service{}
	for _, service := range f.services {
		if filter.IsActive != nil && service.IsActive != *filter.IsActive {
			continue
		}
		if filter.CategoryID != "" && service.CategoryID != filter.CategoryID {
			continue
		}
		result = append(result, service)
	}
	return result, nil
}

func (f *fakeServiceRepo) ListStats(ctx context.Context, categoryID string) ([]*entities.ServiceStats, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if categoryID == "" {
		return f.stats, nil
	}
	result := []*entities.ServiceStats{}
	for _, st := range f.stats {
		if st.Service.CategoryID == categoryID {
			result = append(result, st)
		}
	}
	return result, nil
}

func (f *fakeServiceRepo) ListStatsSince(ctx context.Context, cutoff time.Time) ([]*entities.ServiceStats, error) {
	f.lastCutoff = cutoff
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := []*entities.ServiceStats{}
	for _, st := range f.statsSince {
		if last, ok := f.statsSinceTimes[st.Service.ID]; ok && last.Before(cutoff) {
			continue
		}
		result = append(result, st)
	}
	return result, nil
}

type fakeReviewRepo struct {
	reviews map[string]*entities.Review
	byUser  map[string][]*entities.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: make(map[string]*entities.Review),
		byUser:  make(map[string][]*entities.Review),
	}
}

func (f *fakeReviewRepo) Create(ctx context.Context, review *entities.Review) error {
	for _, existing := range f.reviews {
		if existing.ServiceID == review.ServiceID && existing.UserID == review.UserID {
			return apperrors.NewConflictError("review already exists for this service")
		}
	}
	f.reviews[review.ID] = review
	f.byUser[review.UserID] = append(f.byUser[review.UserID], review)
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	return review, nil
}

func (f *fakeReviewRepo) GetByServiceAndUser(ctx context.Context, serviceID, userID string) (*entities.Review, error) {
	for _, review := range f.reviews {
		if review.ServiceID == serviceID && review.UserID == userID {
			return review, nil
		}
	}
	return nil, apperrors.NewNotFoundError("review not found")
}

func (f *fakeReviewRepo) Update(ctx context.Context, review *entities.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	f.reviews[review.ID] = review
	return nil
}

func (f *fakeReviewRepo) Delete(ctx context.Context, id string) error {
	review, ok := f.reviews[id]
	if !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	delete(f.reviews, id)
	kept := f.byUser[review.UserID][:0]
	for _, r := range f.byUser[review.UserID] {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.byUser[review.UserID] = kept
	return nil
}

func (f *fakeReviewRepo) ListByService(ctx context.Context, serviceID string, limit, offset int) ([]*entities.ReviewWithAuthor, error) {
	result := []*entities.ReviewWithAuthor{}
	for _, review := range f.reviews {
		if review.ServiceID == serviceID {
			result = append(result, &entities.ReviewWithAuthor{Review: *review})
		}
	}
	return result, nil
}

func (f *fakeReviewRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error) {
	return f.byUser[userID], nil
}

type fakeUserRepo struct {
	users map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return user, nil
}

type fakeSearchRepo struct {
	mu      sync.Mutex
	indexed []string
	deleted []string
}

func (f *fakeSearchRepo) InitSchema(ctx context.Context) error { return nil }

func (f *fakeSearchRepo) Index(ctx context.Context, service *entities.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, service.ID)
	return nil
}

func (f *fakeSearchRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSearchRepo) Search(ctx context.Context, query string, categoryID string, limit int) ([]*entities.Service, error) {
	return nil, nil
}

type fakeEventBus struct {
	mu        sync.Mutex
	published []*entities.CatalogEvent
}

func (f *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.CatalogEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.CatalogEvent, error) {
	ch := make(chan *entities.CatalogEvent)
	close(ch)
	return ch, nil
}

func (f *fakeEventBus) Close() error { return nil }

// fakeAnalyzer returns a canned score per comment, defaulting to 0
type fakeAnalyzer struct {
	scores map[string]float64
	calls  int
}

func (f *fakeAnalyzer) Analyze(comment string) float64 {
	f.calls++
	return f.scores[comment]
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, serviceID string) {
	f.invalidated = append(f.invalidated, serviceID)
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
