package report

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/service/access"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

type fakeNoteRepo struct {
	notes []*model.CommunicationNote

	// captured from the last ListForReport call
	gotStart *time.Time
	gotEnd   *time.Time
}

func (f *fakeNoteRepo) Create(ctx context.Context, n *model.CommunicationNote) error {
	f.notes = append(f.notes, n)
	return nil
}

func (f *fakeNoteRepo) ListByServiceUser(ctx context.Context, suID uuid.UUID, limit int) ([]*model.CommunicationNote, error) {
	return f.notes, nil
}

func (f *fakeNoteRepo) ListForReport(ctx context.Context, suID uuid.UUID, start, end *time.Time) ([]*model.CommunicationNote, error) {
	f.gotStart = start
	f.gotEnd = end
	var out []*model.CommunicationNote
	for _, n := range f.notes {
		if n.ServiceUserID != suID {
			continue
		}
		if start != nil && n.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && n.CreatedAt.After(*end) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNoteRepo) ExistsByClientUID(ctx context.Context, clientUID string) (bool, error) {
	return false, nil
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

type fakeStaffRepo struct {
	profiles    map[uuid.UUID]*model.StaffProfile
	assignments map[uuid.UUID][]uuid.UUID
}

func (f *fakeStaffRepo) CreateProfile(ctx context.Context, p *model.StaffProfile) error { return nil }

func (f *fakeStaffRepo) GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffProfile, error) {
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
	return nil
}

func (f *fakeStaffRepo) ListAssignments(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	return f.assignments[profileID], nil
}

type fixture struct {
	svc      *Service
	noteRepo *fakeNoteRepo
	suRepo   *fakeServiceUserRepo
	staff    *fakeStaffRepo
}

func newFixture() *fixture {
	noteRepo := &fakeNoteRepo{}
	suRepo := &fakeServiceUserRepo{}
	staffRepo := &fakeStaffRepo{
		profiles:    make(map[uuid.UUID]*model.StaffProfile),
		assignments: make(map[uuid.UUID][]uuid.UUID),
	}
	accessSvc := access.NewService(staffRepo, suRepo)
	return &fixture{
		svc:      NewService(noteRepo, suRepo, accessSvc, "Raynet Care Limited"),
		noteRepo: noteRepo,
		suRepo:   suRepo,
		staff:    staffRepo,
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

func (f *fixture) addNote(su *model.ServiceUser, at time.Time, text string) {
	f.noteRepo.notes = append(f.noteRepo.notes, &model.CommunicationNote{
		ID:            uuid.New(),
		ServiceUserID: su.ID,
		AuthorEmail:   "carer@example.com",
		CreatedAt:     at,
		VisitType:     "home visit",
		NoteText:      text,
	})
}

func adminActor() model.Actor {
	return model.Actor{ID: uuid.New(), Email: "admin@example.com", Superuser: true}
}

func TestExportNotesProducesPDF(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")
	f.addNote(su, time.Now(), "settled well, ate a full meal")

	pdf, filename, err := f.svc.ExportNotes(context.Background(), adminActor(), su.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ada Price-notes.pdf", filename)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestExportNotesEmptyHistoryStillRenders(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")

	pdf, _, err := f.svc.ExportNotes(context.Background(), adminActor(), su.ID, nil, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestExportNotesEndBoundCoversWholeDay(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")
	end := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	// Written late on the end date; an exclusive midnight bound would
	// drop it.
	f.addNote(su, end.Add(23*time.Hour), "late evening call")

	_, _, err := f.svc.ExportNotes(context.Background(), adminActor(), su.ID, nil, &end)
	require.NoError(t, err)

	require.NotNil(t, f.noteRepo.gotEnd)
	assert.Equal(t, end.Add(24*time.Hour-time.Nanosecond), *f.noteRepo.gotEnd)
	assert.Nil(t, f.noteRepo.gotStart)
}

func TestExportNotesStartBoundPassedThrough(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := f.svc.ExportNotes(context.Background(), adminActor(), su.ID, &start, nil)
	require.NoError(t, err)

	require.NotNil(t, f.noteRepo.gotStart)
	assert.Equal(t, start, *f.noteRepo.gotStart)
	assert.Nil(t, f.noteRepo.gotEnd)
}

func TestExportNotesUnknownServiceUserIsNotFound(t *testing.T) {
	f := newFixture()

	_, _, err := f.svc.ExportNotes(context.Background(), adminActor(), uuid.New(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExportNotesForbiddenOutsideAssignment(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")

	profile := &model.StaffProfile{
		Base:   model.Base{ID: uuid.New()},
		UserID: uuid.New(),
		Role:   model.RoleStaff,
	}
	f.staff.profiles[profile.UserID] = profile
	actor := model.Actor{ID: profile.UserID, Email: "carer@example.com"}

	_, _, err := f.svc.ExportNotes(context.Background(), actor, su.ID, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "All", periodLabel(nil))

	d := time.Date(2026, 8, 20, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-20", periodLabel(&d))
}

func TestWrapBreaksOnWordBoundaries(t *testing.T) {
	lines := wrap("one two three four", 9)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
}

func TestWrapShortTextSingleLine(t *testing.T) {
	lines := wrap("short note", 110)
	assert.Equal(t, []string{"short note"}, lines)
}

func TestWrapEmptyText(t *testing.T) {
	assert.Empty(t, wrap("", 110))
	assert.Empty(t, wrap("   ", 110))
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	text := strings.Repeat("observation noted during the visit ", 20)
	for _, line := range wrap(text, 110) {
		assert.LessOrEqual(t, len(line), 110)
	}
}

func TestExportLongHistoryPaginates(t *testing.T) {
	f := newFixture()
	su := f.addServiceUser("Ada Price")
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 80; i++ {
		f.addNote(su, base.Add(time.Duration(i)*time.Hour), strings.Repeat("routine visit, all well. ", 12))
	}

	pdf, _, err := f.svc.ExportNotes(context.Background(), adminActor(), su.ID, nil, nil)
	require.NoError(t, err)
	// A multi-page document is strictly larger than a single-page one.
	single, _, err := f.svc.ExportNotes(context.Background(), adminActor(), uuidOf(f, "Ben Okafor"), nil, nil)
	require.NoError(t, err)
	assert.Greater(t, len(pdf), len(single))
}

func uuidOf(f *fixture, name string) uuid.UUID {
	return f.addServiceUser(name).ID
}
