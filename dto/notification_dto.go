package dto

import "sekarnet/domain"

type CreateNotificationRequest struct {
	UserID     *uint   `json:"userId" binding:"omitempty,gt=0"`
	TargetRole *string `json:"targetRole" binding:"omitempty,role"`
	Title      string  `json:"title" binding:"required,max=200"`
	Message    string  `json:"message" binding:"required"`
	Type       string  `json:"type" binding:"required"`
}

func MakeCreateNotificationRequest(req *CreateNotificationRequest) domain.Notification {
	return domain.Notification{
		UserID:     req.UserID,
		TargetRole: req.TargetRole,
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
	}
}

type BroadcastRequest struct {
	Title      string  `json:"title" binding:"required,max=200"`
	Message    string  `json:"message" binding:"required"`
	Type       string  `json:"type"`
	TargetRole *string `json:"targetRole" binding:"omitempty,role"`
	SendEmail  bool    `json:"sendEmail"`
}

func MakeBroadcastInput(req *BroadcastRequest) domain.BroadcastInput {
	return domain.BroadcastInput{
		Title:      req.Title,
		Message:    req.Message,
		Type:       req.Type,
		TargetRole: req.TargetRole,
		SendEmail:  req.SendEmail,
	}
}

type CreateStatRequest struct {
	UserID        uint     `json:"userId"`
	DownloadSpeed float64  `json:"downloadSpeed" binding:"gte=0"`
	UploadSpeed   float64  `json:"uploadSpeed" binding:"gte=0"`
	Ping          *float64 `json:"ping" binding:"omitempty,gte=0"`
}

func MakeCreateStatRequest(req *CreateStatRequest) domain.ConnectionStat {
	return domain.ConnectionStat{
		UserID:        req.UserID,
		DownloadSpeed: req.DownloadSpeed,
		UploadSpeed:   req.UploadSpeed,
		Ping:          req.Ping,
	}
}

type GenerateReportRequest struct {
	Type   string `json:"type" binding:"required,oneof=customers billing installations support jobs all"`
	Format string `json:"format" binding:"omitempty,oneof=excel pdf"`
}

type CleanupReportsRequest struct {
	DaysToKeep *int `json:"daysToKeep" binding:"omitempty,gte=0"`
}
