package dto

import (
	"sekarnet/domain"

	"gorm.io/datatypes"
)

type CreateInstallationRequest struct {
	UserID        uint    `json:"userId"`
	PackageID     uint    `json:"packageId" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	PreferredDate *int64  `json:"preferredDate" binding:"omitempty,gt=0"`
	Notes         *string `json:"notes"`
}

func MakeCreateInstallationRequest(req *CreateInstallationRequest) domain.InstallationRequest {
	return domain.InstallationRequest{
		UserID:        req.UserID,
		PackageID:     req.PackageID,
		Address:       req.Address,
		PreferredDate: req.PreferredDate,
		Notes:         req.Notes,
	}
}

type UpdateInstallationRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending scheduled in_progress completed cancelled"`
	TechnicianID  *uint   `json:"technicianId" binding:"omitempty,gt=0"`
	Address       *string `json:"address"`
	Notes         *string `json:"notes"`
	PreferredDate *int64  `json:"preferredDate" binding:"omitempty,gt=0"`
}

func MakeInstallationUpdate(req *UpdateInstallationRequest) domain.InstallationUpdate {
	return domain.InstallationUpdate{
		Status:        req.Status,
		TechnicianID:  req.TechnicianID,
		Address:       req.Address,
		Notes:         req.Notes,
		PreferredDate: req.PreferredDate,
	}
}

type AssignTechnicianRequest struct {
	TechnicianID uint `json:"technicianId" binding:"required,gt=0"`
}

type CreateTicketRequest struct {
	UserID      uint     `json:"userId"`
	Subject     string   `json:"subject" binding:"required,max=200"`
	Description string   `json:"description" binding:"required"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	Attachments []string `json:"attachments"`
}

func MakeCreateTicketRequest(req *CreateTicketRequest) domain.SupportTicket {
	return domain.SupportTicket{
		UserID:      req.UserID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Attachments: datatypes.NewJSONSlice(req.Attachments),
	}
}

type UpdateTicketRequest struct {
	Subject      *string  `json:"subject" binding:"omitempty,max=200"`
	Description  *string  `json:"description"`
	Priority     *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status       *string  `json:"status" binding:"omitempty,oneof=new in_progress resolved closed"`
	TechnicianID *uint    `json:"technicianId" binding:"omitempty,gt=0"`
	Response     *string  `json:"response"`
	Attachments  []string `json:"attachments"`
}

func MakeTicketUpdate(req *UpdateTicketRequest) domain.TicketUpdate {
	return domain.TicketUpdate{
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		TechnicianID: req.TechnicianID,
		Response:     req.Response,
		Attachments:  req.Attachments,
	}
}

type CreateJobRequest struct {
	TechnicianID   uint    `json:"technicianId" binding:"required,gt=0"`
	InstallationID *uint   `json:"installationId" binding:"omitempty,gt=0"`
	TicketID       *uint   `json:"ticketId" binding:"omitempty,gt=0"`
	JobType        string  `json:"jobType" binding:"required,oneof=installation support maintenance"`
	ScheduledDate  int64   `json:"scheduledDate" binding:"omitempty,gt=0"`
	Notes          *string `json:"notes"`
}

func MakeCreateJobRequest(req *CreateJobRequest) domain.TechnicianJob {
	return domain.TechnicianJob{
		TechnicianID:   req.TechnicianID,
		InstallationID: req.InstallationID,
		TicketID:       req.TicketID,
		JobType:        req.JobType,
		ScheduledDate:  req.ScheduledDate,
		Notes:          req.Notes,
	}
}

type UpdateJobRequest struct {
	Status          *string  `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Notes           *string  `json:"notes"`
	CompletionProof []string `json:"completionProof"`
	ScheduledDate   *int64   `json:"scheduledDate" binding:"omitempty,gt=0"`
}

func MakeJobUpdate(req *UpdateJobRequest) domain.JobUpdate {
	return domain.JobUpdate{
		Status:          req.Status,
		Notes:           req.Notes,
		CompletionProof: req.CompletionProof,
		ScheduledDate:   req.ScheduledDate,
	}
}
