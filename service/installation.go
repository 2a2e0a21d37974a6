package service

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"sekarnet/notifier"
	"sekarnet/utils"
	"strings"
	"time"
)

type installationService struct {
	repo        domain.InstallationRepository
	userRepo    domain.UserRepository
	packageRepo domain.PackageRepository
	now         clock
}

func NewInstallationService(repo domain.InstallationRepository, userRepo domain.UserRepository, packageRepo domain.PackageRepository) domain.InstallationUseCase {
	return &installationService{
		repo:        repo,
		userRepo:    userRepo,
		packageRepo: packageRepo,
		now:         time.Now,
	}
}

func (s *installationService) List(ctx context.Context, actor domain.Actor) ([]domain.InstallationRequest, error) {
	switch actor.Role {
	case domain.RoleAdmin:
		return s.repo.GetAllInstallations(ctx)
	case domain.RoleTechnician:
		return s.repo.GetTechnicianInstallations(ctx, actor.ID)
	default:
		return s.repo.GetUserInstallations(ctx, actor.ID)
	}
}

func (s *installationService) Get(ctx context.Context, actor domain.Actor, id uint) (*domain.InstallationRequest, error) {
	req, err := s.repo.GetInstallationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSeeInstallation(actor, req) {
		return nil, forbidden("installation request %d", id)
	}
	return req, nil
}

func canSeeInstallation(actor domain.Actor, req *domain.InstallationRequest) bool {
	if domain.CanAccess(actor, req.UserID) {
		return true
	}
	return isAssigned(actor, req.TechnicianID)
}

func isAssigned(actor domain.Actor, technicianID *uint) bool {
	return actor.Role == domain.RoleTechnician && technicianID != nil && *technicianID == actor.ID
}

func (s *installationService) Create(ctx context.Context, actor domain.Actor, req *domain.InstallationRequest) (*domain.InstallationRequest, error) {
	if err := require(actor, domain.ActionInstallationCreate); err != nil {
		return nil, err
	}
	owner, err := ownerFor(actor, req.UserID)
	if err != nil {
		return nil, err
	}
	req.Address = strings.TrimSpace(req.Address)
	if req.Address == "" {
		return nil, invalid("address is required")
	}
	if req.PackageID == 0 {
		return nil, invalid("packageId is required")
	}

	req.ID = 0
	req.UserID = owner
	req.Status = domain.InstallationPending
	req.TechnicianID = nil

	var fx domain.SideEffects
	fx.Record(owner, domain.ActivityInstallationRequest, map[string]interface{}{
		"packageId": req.PackageID,
		"address":   req.Address,
	})
	notifyRole(&fx, domain.RoleAdmin, "Permintaan Instalasi Baru",
		fmt.Sprintf("Permintaan instalasi baru di %s", req.Address), domain.NotificationInstallation)

	if err := s.repo.CreateInstallation(ctx, req, fx); err != nil {
		return nil, err
	}
	return req, nil
}

// Update routes a PATCH body: technicianId to Assign, status to a transition,
// the rest to a detail edit.
func (s *installationService) Update(ctx context.Context, actor domain.Actor, id uint, in domain.InstallationUpdate) (*domain.InstallationRequest, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Address != nil || in.Notes != nil || in.PreferredDate != nil {
		if err := canEditInstallation(actor, req, in); err != nil {
			return nil, err
		}
		if in.Address != nil && strings.TrimSpace(*in.Address) == "" {
			return nil, invalid("address cannot be empty")
		}
		if req, err = s.repo.UpdateInstallationDetails(ctx, id, in); err != nil {
			return nil, err
		}
	}

	if in.TechnicianID != nil {
		if req, _, err = s.Assign(ctx, actor, id, *in.TechnicianID); err != nil {
			return nil, err
		}
		if in.Status != nil && *in.Status == domain.InstallationScheduled {
			return req, nil
		}
	}

	if in.Status != nil {
		return s.transition(ctx, actor, req, *in.Status)
	}
	return req, nil
}

func canEditInstallation(actor domain.Actor, req *domain.InstallationRequest, in domain.InstallationUpdate) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.ID == req.UserID:
		if req.Status != domain.InstallationPending {
			return invalid("only pending requests can be edited")
		}
		return nil
	case isAssigned(actor, req.TechnicianID) && in.Address == nil && in.PreferredDate == nil:
		return nil
	}
	return forbidden("cannot edit installation request %d", req.ID)
}

func (s *installationService) transition(ctx context.Context, actor domain.Actor, req *domain.InstallationRequest, to string) (*domain.InstallationRequest, error) {
	switch {
	case actor.IsAdmin():
	case actor.Role == domain.RoleTechnician:
		if !isAssigned(actor, req.TechnicianID) {
			return nil, forbidden("installation request %d is not assigned to you", req.ID)
		}
	case actor.ID == req.UserID:
		if to != domain.InstallationCancelled || req.Status != domain.InstallationPending {
			return nil, forbidden("customers may only cancel pending requests")
		}
	default:
		return nil, forbidden("cannot change installation request %d", req.ID)
	}

	var fx domain.SideEffects
	if actor.ID != req.UserID {
		notifyUser(&fx, req.UserID, "Status Instalasi Diperbarui",
			fmt.Sprintf("Status permintaan instalasi #%d sekarang %s", req.ID, to), domain.NotificationInstallation)
	}
	return s.repo.TransitionInstallation(ctx, req.ID, to, fx)
}

func (s *installationService) Assign(ctx context.Context, actor domain.Actor, id, technicianID uint) (*domain.InstallationRequest, *domain.TechnicianJob, error) {
	if err := require(actor, domain.ActionInstallationAssign); err != nil {
		return nil, nil, err
	}
	if technicianID == 0 {
		return nil, nil, invalid("technicianId is required")
	}
	req, err := s.repo.GetInstallationByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tech, err := s.userRepo.GetUserByID(ctx, technicianID)
	if err != nil {
		return nil, nil, err
	}
	if tech.Role != domain.RoleTechnician {
		return nil, nil, invalid("user %d is not a technician", technicianID)
	}
	owner, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	packageName := ""
	if pkg, err := s.packageRepo.GetPackageByID(ctx, req.PackageID); err == nil {
		packageName = pkg.Name
	}

	now := s.now.unix()
	scheduled := req.ScheduleDate(now)

	var fx domain.SideEffects
	notifyUser(&fx, owner.ID, "Instalasi Dijadwalkan",
		fmt.Sprintf("Instalasi Anda dijadwalkan pada %s dengan teknisi %s", utils.FormatDateID(scheduled), tech.FullName),
		domain.NotificationInstallation)
	payload := map[string]interface{}{
		"customerName":   owner.FullName,
		"scheduledDate":  utils.FormatDateID(scheduled),
		"address":        req.Address,
		"packageName":    packageName,
		"technicianName": tech.FullName,
	}
	fx.Enqueue(domain.ChannelEmail, notifier.TemplateInstallationScheduled, owner.Email, payload)
	fx.Enqueue(domain.ChannelSMS, notifier.TemplateInstallationScheduled, phoneOf(owner), payload)
	notifyUser(&fx, tech.ID, "Tugas Instalasi Baru",
		fmt.Sprintf("Anda ditugaskan untuk instalasi di %s", req.Address), domain.NotificationInstallation)

	return s.repo.AssignTechnician(ctx, id, technicianID, now, fx)
}
