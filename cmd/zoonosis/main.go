package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Manuufarina/gestion-zoonosis/config"
	"github.com/Manuufarina/gestion-zoonosis/internal/app"
	"github.com/Manuufarina/gestion-zoonosis/internal/audit"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http"
	"github.com/Manuufarina/gestion-zoonosis/internal/delivery/http/router/handler"
	"github.com/Manuufarina/gestion-zoonosis/internal/domain/service"
	"github.com/Manuufarina/gestion-zoonosis/internal/export"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/auth/identitytoolkit"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/blob"
	logs "github.com/Manuufarina/gestion-zoonosis/internal/infra/log"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/persistence/firestore"
	"github.com/Manuufarina/gestion-zoonosis/internal/infra/qrcode"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		firestore.NewClient,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			firestore.NewResidentRepository,
			firestore.NewPetRepository,
			firestore.NewVisitRepository,
			firestore.NewSupplyRepository,
			firestore.NewUserRepository,
			firestore.NewAuditRepository,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newSessionProvider,
			newQRCodeService,
			blob.NewArtifactStore,
			export.NewService,
			audit.NewRecorder,
			app.New,
		),
	)
}

func newSessionProvider(cfg *config.Config, logger *slog.Logger) (service.SessionProvider, error) {
	return identitytoolkit.New(cfg, logger)
}

func newQRCodeService(cfg *config.Config) service.QRCodeService {
	return qrcode.NewQRCodeService(cfg.Exports.QRSize, cfg.Exports.ErrorCorrectionLevel)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewViewHandler,
			handler.NewActionHandler,
			handler.NewExportHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))

				// Trigger graceful shutdown to execute all OnStop hooks
				if shutdownErr := params.Shutdown(); shutdownErr != nil {
					slog.Error("Failed to shutdown gracefully", slog.Any("error", shutdownErr))
					os.Exit(1)
				}
			}
		}()
	}
}
