package rating

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	domain "github.com/contractorhub/contractor-directory/internal/domain/rating"
	"github.com/contractorhub/contractor-directory/internal/dto"
	"github.com/contractorhub/contractor-directory/internal/httperr"
	"github.com/contractorhub/contractor-directory/internal/models"
)

// ======================================================
// MOCK REPOSITORY
// ======================================================

// mockRepo is an in-memory stand-in for the gorm repository. Mutations
// recompute the contractor average the same way the real repository does:
// full scan over the stored ratings for that contractor. Missing rows come
// back as domain.ErrNotFound, like the real getters.
type mockRepo struct {
	contractors map[uint]*models.Contractor
	users       map[uint]*models.User
	ratings     map[uint]*models.Rating

	nextID uint
	clock  time.Time

	failLookups    error
	failMutations  bool
	vanishOnDelete bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		contractors: map[uint]*models.Contractor{
			1: {ID: 1, UserID: 10, FirstName: "Pat", LastName: "Mason"},
			2: {ID: 2, UserID: 10, FirstName: "Lee", LastName: "Ford"},
		},
		users: map[uint]*models.User{
			10: {ID: 10, Username: "pat"},
			11: {ID: 11, Username: "alex"},
			12: {ID: 12, Username: "sam"},
		},
		ratings: map[uint]*models.Rating{},
		clock:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *mockRepo) GetContractorByID(_ context.Context, id uint) (*models.Contractor, error) {
	if m.failLookups != nil {
		return nil, m.failLookups
	}
	ct, ok := m.contractors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ct, nil
}

func (m *mockRepo) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	if m.failLookups != nil {
		return nil, m.failLookups
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetRatingByID(_ context.Context, id uint) (*models.Rating, error) {
	if m.failLookups != nil {
		return nil, m.failLookups
	}
	r, ok := m.ratings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) CreateRatingWithAverage(_ context.Context, r *models.Rating) error {
	if m.failMutations {
		return errors.New("store unavailable")
	}

	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = m.clock
	m.clock = m.clock.Add(time.Second)

	stored := *r
	m.ratings[r.ID] = &stored

	m.refreshAverage(r.ContractorID)
	return nil
}

func (m *mockRepo) DeleteRatingWithAverage(_ context.Context, r *models.Rating) error {
	if m.failMutations {
		return errors.New("store unavailable")
	}
	if m.vanishOnDelete {
		delete(m.ratings, r.ID)
		return domain.ErrNotFound
	}

	if _, ok := m.ratings[r.ID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.ratings, r.ID)

	m.refreshAverage(r.ContractorID)
	return nil
}

func (m *mockRepo) refreshAverage(contractorID uint) {
	var scores []float64
	for _, r := range m.ratings {
		if r.ContractorID == contractorID {
			scores = append(scores, r.Score)
		}
	}
	m.contractors[contractorID].AverageRating = domain.Average(scores)
}

func (m *mockRepo) ListByContractor(_ context.Context, contractorID uint) ([]dto.RatingWithRaterDTO, error) {
	var rows []dto.RatingWithRaterDTO
	for _, r := range m.ratings {
		if r.ContractorID != contractorID {
			continue
		}
		rows = append(rows, dto.RatingWithRaterDTO{
			ID:           r.ID,
			ContractorID: r.ContractorID,
			UserID:       r.UserID,
			Score:        r.Score,
			Comment:      r.Comment,
			CreatedAt:    r.CreatedAt,
			Username:     m.users[r.UserID].Username,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (m *mockRepo) ListByAuthor(_ context.Context, userID uint) ([]dto.RatingWithContractorDTO, error) {
	var rows []dto.RatingWithContractorDTO
	for _, r := range m.ratings {
		if r.UserID != userID {
			continue
		}
		ct := m.contractors[r.ContractorID]
		rows = append(rows, dto.RatingWithContractorDTO{
			ID:             r.ID,
			ContractorID:   r.ContractorID,
			UserID:         r.UserID,
			Score:          r.Score,
			Comment:        r.Comment,
			CreatedAt:      r.CreatedAt,
			ContractorName: ct.FirstName + " " + ct.LastName,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

// ======================================================
// HELPERS
// ======================================================

func submit(t *testing.T, uc *SubmitRating, contractorID, userID uint, score float64, comment string) *models.Rating {
	t.Helper()
	r, err := uc.Execute(context.Background(), SubmitRatingInput{
		ContractorID: contractorID,
		UserID:       userID,
		Score:        score,
		Comment:      comment,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	return r
}

func wantAverage(t *testing.T, repo *mockRepo, contractorID uint, want float64) {
	t.Helper()
	avg := repo.contractors[contractorID].AverageRating
	if avg == nil {
		t.Fatalf("expected average %v, got nil", want)
	}
	if *avg != want {
		t.Fatalf("expected average %v, got %v", want, *avg)
	}
}

// ======================================================
// SUBMIT / DELETE — AVERAGE INVARIANT
// ======================================================

func TestSubmitAndDelete_AverageLifecycle(t *testing.T) {
	repo := newMockRepo()
	submitUC := NewSubmitRating(repo, nil)
	deleteUC := NewDeleteRating(repo, nil)

	if repo.contractors[1].AverageRating != nil {
		t.Fatalf("expected unrated contractor to have nil average")
	}

	first := submit(t, submitUC, 1, 11, 4, "solid work")
	wantAverage(t, repo, 1, 4.0)

	second := submit(t, submitUC, 1, 12, 5, "excellent")
	wantAverage(t, repo, 1, 4.5)

	if err := deleteUC.Execute(context.Background(), first.ID, 11); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	wantAverage(t, repo, 1, 5.0)

	if err := deleteUC.Execute(context.Background(), second.ID, 12); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if avg := repo.contractors[1].AverageRating; avg != nil {
		t.Fatalf("expected nil average after last rating removed, got %v", *avg)
	}
}

func TestSubmitRating_ReturnsRecordWithIdentity(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)

	r := submit(t, uc, 1, 11, 3, "fine")
	if r.ID == 0 {
		t.Fatalf("expected generated rating id")
	}
	if r.CreatedAt.IsZero() {
		t.Fatalf("expected rating timestamp to be set")
	}
	if r.Comment != "fine" {
		t.Fatalf("unexpected comment: %q", r.Comment)
	}
}

func TestSubmitRating_DuplicatePerUserAllowed(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)

	submit(t, uc, 1, 11, 2, "first visit")
	submit(t, uc, 1, 11, 4, "second visit, much better")

	if len(repo.ratings) != 2 {
		t.Fatalf("expected both ratings from the same user to persist, got %d", len(repo.ratings))
	}
	wantAverage(t, repo, 1, 3.0)
}

// ======================================================
// VALIDATION — NO SIDE EFFECTS ON FAILURE
// ======================================================

func TestSubmitRating_InvalidScore(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)

	for _, score := range []float64{0, 6, math.NaN()} {
		_, err := uc.Execute(context.Background(), SubmitRatingInput{
			ContractorID: 1,
			UserID:       11,
			Score:        score,
			Comment:      "anything",
		})
		if !httperr.IsBusiness(err, "invalid_score") {
			t.Fatalf("score %v: expected invalid_score, got %v", score, err)
		}
	}

	if len(repo.ratings) != 0 {
		t.Fatalf("expected store unchanged after rejected scores")
	}
	if repo.contractors[1].AverageRating != nil {
		t.Fatalf("expected average untouched after rejected scores")
	}
}

func TestSubmitRating_EmptyComment(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)

	_, err := uc.Execute(context.Background(), SubmitRatingInput{
		ContractorID: 1,
		UserID:       11,
		Score:        4,
		Comment:      "   ",
	})
	if !httperr.IsBusiness(err, "empty_comment") {
		t.Fatalf("expected empty_comment, got %v", err)
	}
	if len(repo.ratings) != 0 {
		t.Fatalf("expected store unchanged after rejected comment")
	}
}

func TestSubmitRating_UnknownReferences(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)

	_, err := uc.Execute(context.Background(), SubmitRatingInput{
		ContractorID: 999,
		UserID:       11,
		Score:        4,
		Comment:      "ok",
	})
	if !httperr.IsBusiness(err, "contractor_not_found") {
		t.Fatalf("expected contractor_not_found, got %v", err)
	}

	_, err = uc.Execute(context.Background(), SubmitRatingInput{
		ContractorID: 1,
		UserID:       999,
		Score:        4,
		Comment:      "ok",
	})
	if !httperr.IsBusiness(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}

func TestDeleteRating_NotFound(t *testing.T) {
	repo := newMockRepo()
	submitUC := NewSubmitRating(repo, nil)
	deleteUC := NewDeleteRating(repo, nil)

	if err := deleteUC.Execute(context.Background(), 42, 11); !httperr.IsBusiness(err, "rating_not_found") {
		t.Fatalf("expected rating_not_found for unknown id, got %v", err)
	}

	// Repeat delete of a real rating is an error, not a silent no-op.
	r := submit(t, submitUC, 1, 11, 4, "ok")
	if err := deleteUC.Execute(context.Background(), r.ID, 11); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := deleteUC.Execute(context.Background(), r.ID, 11); !httperr.IsBusiness(err, "rating_not_found") {
		t.Fatalf("expected rating_not_found on repeat delete, got %v", err)
	}
}

func TestSubmitRating_StoreFailurePropagates(t *testing.T) {
	repo := newMockRepo()
	uc := NewSubmitRating(repo, nil)
	repo.failMutations = true

	_, err := uc.Execute(context.Background(), SubmitRatingInput{
		ContractorID: 1,
		UserID:       11,
		Score:        4,
		Comment:      "ok",
	})
	if err == nil {
		t.Fatalf("expected store failure to propagate")
	}
	if len(repo.ratings) != 0 {
		t.Fatalf("expected no rating committed on store failure")
	}
}

// A store outage during entity lookups must surface as a plain error for
// the HTTP layer to report as retryable, never as a not-found business code.
func TestLookupOutage_NotReportedAsNotFound(t *testing.T) {
	repo := newMockRepo()
	repo.failLookups = errors.New("connection refused")

	submitUC := NewSubmitRating(repo, nil)
	deleteUC := NewDeleteRating(repo, nil)
	listForContractorUC := NewListRatingsForContractor(repo)
	listForUserUC := NewListRatingsForUser(repo)

	_, err := submitUC.Execute(context.Background(), SubmitRatingInput{
		ContractorID: 1,
		UserID:       11,
		Score:        4,
		Comment:      "ok",
	})
	if err == nil || httperr.BusinessCode(err) != "" {
		t.Fatalf("submit: expected plain store error, got %v", err)
	}

	if err := deleteUC.Execute(context.Background(), 1, 11); err == nil || httperr.BusinessCode(err) != "" {
		t.Fatalf("delete: expected plain store error, got %v", err)
	}

	if _, err := listForContractorUC.Execute(context.Background(), 1); err == nil || httperr.BusinessCode(err) != "" {
		t.Fatalf("list for contractor: expected plain store error, got %v", err)
	}

	if _, err := listForUserUC.Execute(context.Background(), 11); err == nil || httperr.BusinessCode(err) != "" {
		t.Fatalf("list for user: expected plain store error, got %v", err)
	}
}

// The rating can disappear between the lookup and the delete transaction
// when two deletes race; the loser still gets not-found, not a server error.
func TestDeleteRating_RaceWithConcurrentDelete(t *testing.T) {
	repo := newMockRepo()
	submitUC := NewSubmitRating(repo, nil)
	deleteUC := NewDeleteRating(repo, nil)

	r := submit(t, submitUC, 1, 11, 4, "ok")
	repo.vanishOnDelete = true

	if err := deleteUC.Execute(context.Background(), r.ID, 11); !httperr.IsBusiness(err, "rating_not_found") {
		t.Fatalf("expected rating_not_found when losing the delete race, got %v", err)
	}
}

// ======================================================
// JOINED READ VIEWS
// ======================================================

func TestListForContractor_NewestFirstWithRater(t *testing.T) {
	repo := newMockRepo()
	submitUC := NewSubmitRating(repo, nil)
	listUC := NewListRatingsForContractor(repo)

	submit(t, submitUC, 1, 11, 3, "t1")
	submit(t, submitUC, 1, 12, 4, "t2")
	submit(t, submitUC, 1, 11, 5, "t3")
	submit(t, submitUC, 2, 11, 1, "other contractor")

	rows, err := listUC.Execute(context.Background(), 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 ratings, got %d", len(rows))
	}
	for i, wantComment := range []string{"t3", "t2", "t1"} {
		if rows[i].Comment != wantComment {
			t.Fatalf("position %d: expected %q, got %q", i, wantComment, rows[i].Comment)
		}
	}
	if rows[0].Username != "alex" || rows[1].Username != "sam" {
		t.Fatalf("expected rater usernames joined, got %q, %q", rows[0].Username, rows[1].Username)
	}
}

func TestListForContractor_UnknownContractor(t *testing.T) {
	repo := newMockRepo()
	listUC := NewListRatingsForContractor(repo)

	_, err := listUC.Execute(context.Background(), 999)
	if !httperr.IsBusiness(err, "contractor_not_found") {
		t.Fatalf("expected contractor_not_found, got %v", err)
	}
}

func TestListForUser_NewestFirstWithContractorName(t *testing.T) {
	repo := newMockRepo()
	submitUC := NewSubmitRating(repo, nil)
	listUC := NewListRatingsForUser(repo)

	submit(t, submitUC, 1, 11, 3, "older")
	submit(t, submitUC, 2, 11, 5, "newer")
	submit(t, submitUC, 1, 12, 4, "someone else")

	rows, err := listUC.Execute(context.Background(), 11)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 ratings, got %d", len(rows))
	}
	if rows[0].Comment != "newer" || rows[1].Comment != "older" {
		t.Fatalf("expected newest-first order, got %q then %q", rows[0].Comment, rows[1].Comment)
	}
	if rows[0].ContractorName != "Lee Ford" {
		t.Fatalf("expected contractor name joined, got %q", rows[0].ContractorName)
	}
}

// ======================================================
// CONVERGENCE UNDER INTERLEAVING
// ======================================================

// Two submissions for the same contractor land in either order; both must
// persist and the stored average must reflect both.
func TestSubmitRating_InterleavedSubmissionsConverge(t *testing.T) {
	orders := [][2]float64{{4, 5}, {5, 4}}

	for _, scores := range orders {
		repo := newMockRepo()
		uc := NewSubmitRating(repo, nil)

		submit(t, uc, 1, 11, scores[0], "a")
		submit(t, uc, 1, 12, scores[1], "b")

		if len(repo.ratings) != 2 {
			t.Fatalf("expected both concurrent submissions to persist, got %d", len(repo.ratings))
		}
		wantAverage(t, repo, 1, 4.5)
	}
}
