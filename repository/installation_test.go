package repository

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	customer *domain.User
	tech     *domain.User
	pkg      *domain.Package
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return fixture{
		db:       db,
		customer: testutil.SeedUser(t, db, "alice", domain.RoleCustomer),
		tech:     testutil.SeedUser(t, db, "budi", domain.RoleTechnician),
		pkg:      testutil.SeedPackage(t, db, "Home 20", 250000),
	}
}

func (f fixture) createInstallation(t *testing.T) *domain.InstallationRequest {
	t.Helper()
	req := &domain.InstallationRequest{
		UserID:    f.customer.ID,
		PackageID: f.pkg.ID,
		Address:   "Jl. X",
		Status:    domain.InstallationPending,
	}
	if err := NewInstallationRepository(f.db).CreateInstallation(context.Background(), req, domain.SideEffects{}); err != nil {
		t.Fatalf("create installation: %v", err)
	}
	return req
}

func countJobs(t *testing.T, db *gorm.DB, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&domain.TechnicianJob{}).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	return n
}

func TestAssignTechnicianCreatesOneJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewInstallationRepository(f.db)
	req := f.createInstallation(t)
	now := time.Now().Unix()

	var fx domain.SideEffects
	uid := f.customer.ID
	fx.Notify(domain.Notification{UserID: &uid, Title: "Instalasi Dijadwalkan", Message: "x", Type: domain.NotificationInstallation})
	fx.Enqueue(domain.ChannelEmail, "installationScheduled", f.customer.Email, map[string]interface{}{"address": "Jl. X"})

	updated, job, err := repo.AssignTechnician(ctx, req.ID, f.tech.ID, now, fx)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.Status != domain.InstallationScheduled {
		t.Fatalf("expected scheduled, got %s", updated.Status)
	}
	if updated.TechnicianID == nil || *updated.TechnicianID != f.tech.ID {
		t.Fatalf("technician not recorded: %+v", updated.TechnicianID)
	}
	if job.InstallationID == nil || *job.InstallationID != req.ID || job.TechnicianID != f.tech.ID {
		t.Fatalf("unexpected job %+v", job)
	}
	if job.ScheduledDate != now {
		t.Fatalf("expected scheduled date %d, got %d", now, job.ScheduledDate)
	}

	// same technician again: no second job
	_, again, err := repo.AssignTechnician(ctx, req.ID, f.tech.ID, now, domain.SideEffects{})
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if again.ID != job.ID {
		t.Fatalf("expected the existing job %d, got %d", job.ID, again.ID)
	}
	if n := countJobs(t, f.db, "installation_id = ?", req.ID); n != 1 {
		t.Fatalf("expected 1 job, got %d", n)
	}

	var notifications, outbox int64
	f.db.Model(&domain.Notification{}).Count(&notifications)
	f.db.Model(&domain.OutboxMessage{}).Where("status = ?", domain.OutboxPending).Count(&outbox)
	if notifications != 1 || outbox != 1 {
		t.Fatalf("expected side effects written once, got %d notifications %d outbox", notifications, outbox)
	}
}

func TestReassignCancelsPreviousJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewInstallationRepository(f.db)
	other := testutil.SeedUser(t, f.db, "citra", domain.RoleTechnician)
	req := f.createInstallation(t)
	now := time.Now().Unix()

	_, first, err := repo.AssignTechnician(ctx, req.ID, f.tech.ID, now, domain.SideEffects{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, _, err := repo.AssignTechnician(ctx, req.ID, other.ID, now, domain.SideEffects{}); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	var old domain.TechnicianJob
	if err := f.db.First(&old, first.ID).Error; err != nil {
		t.Fatalf("load first job: %v", err)
	}
	if old.Status != domain.JobCancelled {
		t.Fatalf("expected first job cancelled, got %s", old.Status)
	}
	if n := countJobs(t, f.db, "installation_id = ? AND status = ?", req.ID, domain.JobScheduled); n != 1 {
		t.Fatalf("expected exactly one open job, got %d", n)
	}

	// back to the first technician reopens the cancelled row
	_, back, err := repo.AssignTechnician(ctx, req.ID, f.tech.ID, now, domain.SideEffects{})
	if err != nil {
		t.Fatalf("assign back: %v", err)
	}
	if back.ID != first.ID || back.Status != domain.JobScheduled {
		t.Fatalf("expected job %d reopened, got %+v", first.ID, back)
	}
}

func TestAssignRejectsNonTechnician(t *testing.T) {
	f := newFixture(t)
	req := f.createInstallation(t)

	_, _, err := NewInstallationRepository(f.db).AssignTechnician(context.Background(), req.ID, f.customer.ID, time.Now().Unix(), domain.SideEffects{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := countJobs(t, f.db, "installation_id = ?", req.ID); n != 0 {
		t.Fatalf("expected no job, got %d", n)
	}
}

func TestScheduleWithoutTechnicianRejected(t *testing.T) {
	f := newFixture(t)
	req := f.createInstallation(t)

	_, err := NewInstallationRepository(f.db).TransitionInstallation(context.Background(), req.ID, domain.InstallationScheduled, domain.SideEffects{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCompletingJobCompletesInstallation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createInstallation(t)
	now := time.Now().Unix()

	_, job, err := NewInstallationRepository(f.db).AssignTechnician(ctx, req.ID, f.tech.ID, now, domain.SideEffects{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	jobs := NewJobRepository(f.db)
	start := domain.JobInProgress
	if _, err := jobs.UpdateJob(ctx, job.ID, domain.JobUpdate{Status: &start}, now, domain.SideEffects{}); err != nil {
		t.Fatalf("start job: %v", err)
	}
	var loaded domain.InstallationRequest
	f.db.First(&loaded, req.ID)
	if loaded.Status != domain.InstallationInProgress {
		t.Fatalf("expected in_progress, got %s", loaded.Status)
	}

	done := domain.JobCompleted
	notes := "ONT terpasang"
	updated, err := jobs.UpdateJob(ctx, job.ID, domain.JobUpdate{
		Status:          &done,
		Notes:           &notes,
		CompletionProof: []string{"/uploads/jobs/proof.jpg"},
	}, now+60, domain.SideEffects{})
	if err != nil {
		t.Fatalf("complete job: %v", err)
	}
	if updated.CompletionDate == nil || *updated.CompletionDate != now+60 {
		t.Fatalf("completion date not set: %+v", updated.CompletionDate)
	}
	if len(updated.CompletionProof) != 1 {
		t.Fatalf("expected proof stored, got %v", updated.CompletionProof)
	}
	f.db.First(&loaded, req.ID)
	if loaded.Status != domain.InstallationCompleted {
		t.Fatalf("expected completed, got %s", loaded.Status)
	}

	if _, err := jobs.UpdateJob(ctx, job.ID, domain.JobUpdate{Status: &start}, now, domain.SideEffects{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompletingSupportJobResolvesTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tickets := NewTicketRepository(f.db)

	ticket := &domain.SupportTicket{
		UserID:      f.customer.ID,
		Subject:     "Internet mati",
		Description: "Lampu LOS merah",
		Priority:    domain.PriorityHigh,
		Status:      domain.TicketNew,
	}
	if err := tickets.CreateTicket(ctx, ticket, domain.SideEffects{}); err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	assigned, job, err := tickets.AssignTechnician(ctx, ticket.ID, f.tech.ID, time.Now().Unix(), domain.SideEffects{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != domain.TicketInProgress || job.JobType != domain.JobTypeSupport {
		t.Fatalf("unexpected assign result %s %s", assigned.Status, job.JobType)
	}

	done := domain.JobCompleted
	if _, err := NewJobRepository(f.db).UpdateJob(ctx, job.ID, domain.JobUpdate{Status: &done}, time.Now().Unix(), domain.SideEffects{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("scheduled job cannot complete directly, got %v", err)
	}
	start := domain.JobInProgress
	if _, err := NewJobRepository(f.db).UpdateJob(ctx, job.ID, domain.JobUpdate{Status: &start}, time.Now().Unix(), domain.SideEffects{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := NewJobRepository(f.db).UpdateJob(ctx, job.ID, domain.JobUpdate{Status: &done}, time.Now().Unix(), domain.SideEffects{}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := tickets.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("load ticket: %v", err)
	}
	if got.Status != domain.TicketResolved {
		t.Fatalf("expected resolved, got %s", got.Status)
	}
}

func TestCreateJobRejectsDuplicatePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.createInstallation(t)
	jobs := NewJobRepository(f.db)

	id := req.ID
	job := &domain.TechnicianJob{TechnicianID: f.tech.ID, InstallationID: &id, JobType: domain.JobTypeMaintenance, Status: domain.JobScheduled, ScheduledDate: time.Now().Unix()}
	if err := jobs.CreateJob(ctx, job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	loaded, _ := NewInstallationRepository(f.db).GetInstallationByID(ctx, req.ID)
	if loaded.TechnicianID == nil || *loaded.TechnicianID != f.tech.ID {
		t.Fatalf("expected technician copied to request")
	}
	if loaded.Status != domain.InstallationScheduled {
		t.Fatalf("expected pending request scheduled by the job, got %s", loaded.Status)
	}

	dup := &domain.TechnicianJob{TechnicianID: f.tech.ID, InstallationID: &id, JobType: domain.JobTypeMaintenance, Status: domain.JobScheduled, ScheduledDate: time.Now().Unix()}
	if err := jobs.CreateJob(ctx, dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}
