package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
	"github.com/davideparisimodena/careconnect/internal/service/event"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/logger"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("ledger_test")

// fakeRequestRepo mirrors the conditional-update semantics of the
// postgres repository: eligibility check and ownership write happen
// under one lock.
type fakeRequestRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*model.Request
	users    *fakeUserRepo
}

func newFakeRequestRepo(users *fakeUserRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		nextID:   1,
		requests: make(map[int64]*model.Request),
		users:    users,
	}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request.ID = r.nextID
	r.nextID++
	request.Status = model.RequestStatusOpen
	request.ProfessionalID = nil
	request.CreatedAt = time.Now()

	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) Get(_ context.Context, id int64) (*model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) ListOpenFor(_ context.Context, city string, professionalID int64) ([]*model.OpenRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.OpenRequest
	for _, request := range r.requests {
		if request.Status != model.RequestStatusOpen {
			continue
		}
		public := request.City == city && request.TargetProfessionalID == nil
		targeted := request.TargetProfessionalID != nil && *request.TargetProfessionalID == professionalID
		if !public && !targeted {
			continue
		}
		out = append(out, &model.OpenRequest{
			ID:          request.ID,
			Category:    request.Category,
			Description: request.Description,
			City:        request.City,
			Exclusive:   targeted,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Exclusive != out[j].Exclusive {
			return out[i].Exclusive
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *fakeRequestRepo) Claim(_ context.Context, requestID, professionalID int64, city string) (*model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[requestID]
	if !ok || request.Status != model.RequestStatusOpen {
		return nil, repository.ErrNotAvailable
	}

	public := request.City == city && request.TargetProfessionalID == nil
	targeted := request.TargetProfessionalID != nil && *request.TargetProfessionalID == professionalID
	if !public && !targeted {
		return nil, repository.ErrNotAvailable
	}

	request.Status = model.RequestStatusClaimed
	request.ProfessionalID = &professionalID
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) ListByPatient(_ context.Context, patientID int64) ([]*model.Request, error) {
	return r.listBy(func(req *model.Request) bool { return req.PatientID == patientID }), nil
}

func (r *fakeRequestRepo) ListByProfessional(_ context.Context, professionalID int64) ([]*model.Request, error) {
	return r.listBy(func(req *model.Request) bool {
		return req.ProfessionalID != nil && *req.ProfessionalID == professionalID
	}), nil
}

func (r *fakeRequestRepo) listBy(match func(*model.Request) bool) []*model.Request {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Request
	for _, request := range r.requests {
		if match(request) {
			clone := *request
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User)}
}

func (r *fakeUserRepo) add(user *model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetProfessional(ctx context.Context, id int64) (*model.User, error) {
	user, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleProfessional {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) ListProfessionals(context.Context) ([]*model.ProfessionalListing, error) {
	return nil, nil
}

func (r *fakeUserRepo) ListProfessionalsByQualification(context.Context, string, []string) ([]*model.ProfessionalListing, error) {
	return nil, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string, *time.Time) error {
	return nil
}

func (r *fakeOutboxRepo) MarkRetry(context.Context, uuid.UUID, model.OutboxStatus, *string, time.Time, int) error {
	return nil
}

func (r *fakeOutboxRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type stubNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *stubNotifier) NotifyClaim(context.Context, string, string, *model.Request) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return nil
}

type fixture struct {
	svc      *Service
	requests *fakeRequestRepo
	users    *fakeUserRepo
	outbox   *fakeOutboxRepo
	notifier *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newFakeUserRepo()
	requests := newFakeRequestRepo(users)
	outbox := &fakeOutboxRepo{}
	notifier := &stubNotifier{}

	svc := NewService(
		requests,
		users,
		event.NewService(outbox),
		notifier,
		logger.NewLogger(nil),
		testMetrics,
	)

	return &fixture{
		svc:      svc,
		requests: requests,
		users:    users,
		outbox:   outbox,
		notifier: notifier,
	}
}

func (f *fixture) addPatient(id int64, city string) {
	f.users.add(&model.User{ID: id, Username: "patient", Role: model.RolePatient, City: city})
}

func (f *fixture) addProfessional(id int64, city string) {
	f.users.add(&model.User{ID: id, Username: "pro", Role: model.RoleProfessional, City: city})
}

func TestSubmitRequiresFields(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")

	_, err := f.svc.Submit(context.Background(), 1, &model.CreateRequestRequest{
		Category: "Visita Medica",
		City:     "Milano",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestSubmitTargetPolicy(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")

	tests := []struct {
		name   string
		target string
		want   *int64
	}{
		{"empty", "", nil},
		{"non numeric", "abc", nil},
		{"negative", "-5", nil},
		{"zero", "0", nil},
		{"unknown professional", "999", nil},
		{"patient id", "1", nil},
		{"valid professional", "2", int64Ptr(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := f.svc.Submit(context.Background(), 1, &model.CreateRequestRequest{
				Category:             "Visita Medica",
				Description:          "visita a domicilio",
				City:                 "Milano",
				TargetProfessionalID: tt.target,
			})
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, request.TargetProfessionalID)
			} else {
				require.NotNil(t, request.TargetProfessionalID)
				assert.Equal(t, *tt.want, *request.TargetProfessionalID)
			}
			assert.Equal(t, model.RequestStatusOpen, request.Status)
			assert.Nil(t, request.ProfessionalID)
		})
	}
}

func TestSubmitEmitsEvent(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")

	_, err := f.svc.Submit(context.Background(), 1, &model.CreateRequestRequest{
		Category:    "Visita Medica",
		Description: "visita",
		City:        "Milano",
	})
	require.NoError(t, err)
	assert.Contains(t, f.outbox.types(), model.EventRequestCreated)
}

func TestListOpenOrdering(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	ctx := context.Background()

	submit := func(city, target string) *model.Request {
		request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
			Category:             "Visita Medica",
			Description:          "visita",
			City:                 city,
			TargetProfessionalID: target,
		})
		require.NoError(t, err)
		return request
	}

	pub1 := submit("Milano", "")
	pub2 := submit("Milano", "")
	other := submit("Roma", "")
	// targeted from another city still shows up, flagged exclusive
	excl := submit("Roma", "2")

	open, err := f.svc.ListOpen(ctx, "Milano", 2)
	require.NoError(t, err)
	require.Len(t, open, 3)

	assert.Equal(t, excl.ID, open[0].ID)
	assert.True(t, open[0].Exclusive)
	assert.Equal(t, pub2.ID, open[1].ID)
	assert.Equal(t, pub1.ID, open[2].ID)

	for _, entry := range open {
		assert.NotEqual(t, other.ID, entry.ID)
	}
}

func TestExclusiveHiddenFromOthers(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	f.addProfessional(3, "Milano")
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
		Category:             "Visita Medica",
		Description:          "visita",
		City:                 "Milano",
		TargetProfessionalID: "2",
	})
	require.NoError(t, err)

	forTarget, err := f.svc.ListOpen(ctx, "Milano", 2)
	require.NoError(t, err)
	require.Len(t, forTarget, 1)
	assert.Equal(t, request.ID, forTarget[0].ID)

	forOther, err := f.svc.ListOpen(ctx, "Milano", 3)
	require.NoError(t, err)
	assert.Empty(t, forOther)

	// city match does not open a targeted request to others
	_, err = f.svc.Claim(ctx, request.ID, 3, "Milano")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotAvailable))
}

func TestClaimSuccess(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
		Category:    "Visita Medica",
		Description: "visita",
		City:        "Milano",
	})
	require.NoError(t, err)

	claimed, err := f.svc.Claim(ctx, request.ID, 2, "Milano")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusClaimed, claimed.Status)
	require.NotNil(t, claimed.ProfessionalID)
	assert.Equal(t, int64(2), *claimed.ProfessionalID)
	assert.Contains(t, f.outbox.types(), model.EventRequestClaimed)
}

func TestClaimFailures(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	f.addProfessional(3, "Milano")
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
		Category:    "Visita Medica",
		Description: "visita",
		City:        "Milano",
	})
	require.NoError(t, err)

	// wrong city
	_, err = f.svc.Claim(ctx, request.ID, 2, "Roma")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotAvailable))

	// unknown id
	_, err = f.svc.Claim(ctx, 9999, 2, "Milano")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	// already claimed
	_, err = f.svc.Claim(ctx, request.ID, 2, "Milano")
	require.NoError(t, err)
	_, err = f.svc.Claim(ctx, request.ID, 3, "Milano")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotAvailable))
}

func TestClaimMonotonicity(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	f.addProfessional(3, "Milano")
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
		Category:    "Visita Medica",
		Description: "visita",
		City:        "Milano",
	})
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, request.ID, 2, "Milano")
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, request.ID, 3, "Milano")
	assert.Error(t, err)

	current, err := f.requests.Get(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusClaimed, current.Status)
	require.NotNil(t, current.ProfessionalID)
	assert.Equal(t, int64(2), *current.ProfessionalID)
}

func TestClaimRaceExclusivity(t *testing.T) {
	for i := 0; i < 25; i++ {
		f := newFixture(t)
		f.addPatient(1, "Milano")
		f.addProfessional(2, "Milano")
		f.addProfessional(3, "Milano")
		ctx := context.Background()

		request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
			Category:    "Visita Medica",
			Description: "visita",
			City:        "Milano",
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for n, proID := range []int64{2, 3} {
			wg.Add(1)
			go func(n int, proID int64) {
				defer wg.Done()
				_, results[n] = f.svc.Claim(ctx, request.ID, proID, "Milano")
			}(n, proID)
		}
		wg.Wait()

		var wins, losses int
		for _, err := range results {
			switch {
			case err == nil:
				wins++
			case apperrors.IsCode(err, apperrors.ErrNotAvailable):
				losses++
			default:
				t.Fatalf("unexpected claim error: %v", err)
			}
		}
		assert.Equal(t, 1, wins, "exactly one claim must win")
		assert.Equal(t, 1, losses, "the loser must get not available")

		current, err := f.requests.Get(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusClaimed, current.Status)
		assert.NotNil(t, current.ProfessionalID)
	}
}

func TestHistoryOrdering(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
			Category:    "Visita Medica",
			Description: "visita",
			City:        "Milano",
		})
		require.NoError(t, err)
		ids = append(ids, request.ID)
	}

	history, err := f.svc.HistoryFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, request := range history {
		assert.Equal(t, ids[len(ids)-1-i], request.ID)
	}
}

func TestClaimsFor(t *testing.T) {
	f := newFixture(t)
	f.addPatient(1, "Milano")
	f.addProfessional(2, "Milano")
	ctx := context.Background()

	request, err := f.svc.Submit(ctx, 1, &model.CreateRequestRequest{
		Category:    "Visita Medica",
		Description: "visita",
		City:        "Milano",
	})
	require.NoError(t, err)

	_, err = f.svc.Claim(ctx, request.ID, 2, "Milano")
	require.NoError(t, err)

	claims, err := f.svc.ClaimsFor(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, request.ID, claims[0].ID)
}

func int64Ptr(v int64) *int64 {
	return &v
}
