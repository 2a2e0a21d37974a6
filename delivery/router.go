package delivery

import (
	"sekarnet/domain"
	"sekarnet/storage"
	"sekarnet/websocket"

	"github.com/gin-gonic/gin"
)

// UseCases bundles everything the HTTP layer serves.
type UseCases struct {
	Auth         domain.AuthUseCase
	User         domain.UserUseCase
	Package      domain.PackageUseCase
	Subscription domain.SubscriptionUseCase
	Installation domain.InstallationUseCase
	Ticket       domain.TicketUseCase
	Job          domain.JobUseCase
	Bill         domain.BillUseCase
	Payment      domain.PaymentUseCase
	Notification domain.NotificationUseCase
	Activity     domain.ActivityUseCase
	Report       domain.ReportUseCase
}

// RegisterRoutes mounts every handler on app. hub may be nil to skip /ws.
func RegisterRoutes(app *gin.Engine, uc UseCases, uploader storage.Uploader, hub *websocket.Hub) {
	jwtManager := uc.Auth.GetAccessTokenManager()

	NewAuthHandler(app, uc.Auth)
	NewUserHandler(app, uc.User, jwtManager)
	NewPackageHandler(app, uc.Package, jwtManager)
	NewSubscriptionHandler(app, uc.Subscription, jwtManager)
	NewInstallationHandler(app, uc.Installation, jwtManager)
	NewTicketHandler(app, uc.Ticket, jwtManager)
	NewJobHandler(app, uc.Job, jwtManager)
	NewBillHandler(app, uc.Bill, uploader, jwtManager)
	NewPaymentHandler(app, uc.Payment, uc.Bill, jwtManager)
	NewNotificationHandler(app, uc.Notification, jwtManager)
	NewActivityHandler(app, uc.Activity, jwtManager)
	NewReportHandler(app, uc.Report, jwtManager)

	if hub != nil {
		app.GET("/ws", websocket.Handler(hub, jwtManager))
	}
}
