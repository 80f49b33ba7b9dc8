package staff

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/service/access"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

type fakeStaffRepo struct {
	profiles    map[uuid.UUID]*model.StaffProfile
	assignments map[uuid.UUID][]uuid.UUID
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		profiles:    make(map[uuid.UUID]*model.StaffProfile),
		assignments: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeStaffRepo) CreateProfile(ctx context.Context, p *model.StaffProfile) error {
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeStaffRepo) GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffProfile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStaffRepo) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.StaffProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeStaffRepo) SetAssignments(ctx context.Context, profileID uuid.UUID, ids []uuid.UUID) error {
	f.assignments[profileID] = ids
	return nil
}

func (f *fakeStaffRepo) ListAssignments(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignments[profileID], nil
}

type fakeServiceUserRepo struct {
	users []*model.ServiceUser
}

func (f *fakeServiceUserRepo) Create(ctx context.Context, su *model.ServiceUser) error {
	f.users = append(f.users, su)
	return nil
}

func (f *fakeServiceUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.ServiceUser, error) {
	for _, su := range f.users {
		if su.ID == id {
			return su, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeServiceUserRepo) GetBySyncRef(ctx context.Context, ref int64) (*model.ServiceUser, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeServiceUserRepo) Update(ctx context.Context, su *model.ServiceUser) error { return nil }

func (f *fakeServiceUserRepo) List(ctx context.Context, nameQuery string) ([]*model.ServiceUser, error) {
	return f.users, nil
}

func (f *fakeServiceUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID, nameQuery string) ([]*model.ServiceUser, error) {
	return nil, nil
}

type fixture struct {
	svc    *Service
	repo   *fakeStaffRepo
	suRepo *fakeServiceUserRepo
	access *access.Service
}

func newFixture() *fixture {
	repo := newFakeStaffRepo()
	suRepo := &fakeServiceUserRepo{}
	accessSvc := access.NewService(repo, suRepo)
	return &fixture{
		svc:    NewService(repo, accessSvc),
		repo:   repo,
		suRepo: suRepo,
		access: accessSvc,
	}
}

func (f *fixture) addServiceUser(name string) *model.ServiceUser {
	su := &model.ServiceUser{
		Base:     model.Base{ID: uuid.New()},
		SyncRef:  int64(len(f.suRepo.users) + 1),
		FullName: name,
	}
	f.suRepo.users = append(f.suRepo.users, su)
	return su
}

func (f *fixture) addActor(role model.Role) (model.Actor, *model.StaffProfile) {
	profile := &model.StaffProfile{
		Base:   model.Base{ID: uuid.New()},
		UserID: uuid.New(),
		Email:  "staff@example.com",
		Role:   role,
	}
	f.repo.profiles[profile.UserID] = profile
	return model.Actor{ID: profile.UserID, Email: profile.Email}, profile
}

func adminActor() model.Actor {
	return model.Actor{ID: uuid.New(), Email: "admin@example.com", Superuser: true}
}

func TestCreateProfile(t *testing.T) {
	f := newFixture()

	profile, err := f.svc.CreateProfile(context.Background(), adminActor(), &model.CreateStaffProfileRequest{
		UserID: uuid.New().String(),
		Email:  "carer@example.com",
		Role:   "STAFF",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, profile.Role)
	assert.Equal(t, "carer@example.com", profile.Email)
	assert.NotEqual(t, uuid.Nil, profile.ID)
}

func TestCreateProfileRejectsInvalidRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateProfile(context.Background(), adminActor(), &model.CreateStaffProfileRequest{
		UserID: uuid.New().String(),
		Email:  "carer@example.com",
		Role:   "SUPERVISOR",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestCreateProfileRejectsBadInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateProfile(context.Background(), adminActor(), &model.CreateStaffProfileRequest{
		UserID: "not-a-uuid",
		Email:  "not-an-email",
		Role:   "STAFF",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestCreateProfileRequiresManagerRole(t *testing.T) {
	f := newFixture()
	staffActor, _ := f.addActor(model.RoleStaff)

	_, err := f.svc.CreateProfile(context.Background(), staffActor, &model.CreateStaffProfileRequest{
		UserID: uuid.New().String(),
		Email:  "carer@example.com",
		Role:   "STAFF",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestGetProfileIncludesAssignments(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")
	_, profile := f.addActor(model.RoleStaff)
	f.repo.assignments[profile.ID] = []uuid.UUID{su.ID}

	got, err := f.svc.GetProfile(context.Background(), adminActor(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{su.ID}, got.AssignedServiceUsers)
}

func TestGetProfileUnknownIDIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetProfile(context.Background(), adminActor(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignServiceUsersReplacesSetAndInvalidatesScope(t *testing.T) {
	f := newFixture()
	first := f.addServiceUser("Ada Price")
	second := f.addServiceUser("Ben Okafor")
	staffActor, profile := f.addActor(model.RoleStaff)
	f.repo.assignments[profile.ID] = []uuid.UUID{first.ID}

	// Prime the cached scope with the old assignment set.
	scope, err := f.access.Resolve(context.Background(), staffActor)
	require.NoError(t, err)
	assert.False(t, scope.Contains(second.ID))

	err = f.svc.AssignServiceUsers(context.Background(), adminActor(), profile.ID, []uuid.UUID{second.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, f.repo.assignments[profile.ID])

	// The reassignment is visible immediately, not after cache expiry.
	scope, err = f.access.Resolve(context.Background(), staffActor)
	require.NoError(t, err)
	assert.True(t, scope.Contains(second.ID))
	assert.False(t, scope.Contains(first.ID))
}

func TestAssignServiceUsersUnknownProfileIsNotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.AssignServiceUsers(context.Background(), adminActor(), uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAssignServiceUsersRequiresManagerRole(t *testing.T) {
	f := newFixture()
	staffActor, profile := f.addActor(model.RoleStaff)

	err := f.svc.AssignServiceUsers(context.Background(), staffActor, profile.ID, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}
