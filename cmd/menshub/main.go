package main

import (
	"context"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/fx"

	"menshub/config"
	"menshub/internal/delivery"
	"menshub/internal/delivery/http"
	"menshub/internal/delivery/http/middleware"
	"menshub/internal/delivery/http/router/handler"
	"menshub/internal/domain/repository"
	"menshub/internal/domain/service"
	"menshub/internal/infra/auth"
	identityfirebase "menshub/internal/infra/identity/firebase"
	identitylocal "menshub/internal/infra/identity/local"
	logs "menshub/internal/infra/log"
	"menshub/internal/infra/mail"
	"menshub/internal/infra/oauth/google"
	"menshub/internal/infra/persistence/firestoredb"
	"menshub/internal/infra/persistence/localstore"
	"menshub/internal/infra/pubsub"
	"menshub/internal/infra/security"
	"menshub/internal/usecase"
	"menshub/internal/usecase/impl"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			resumeSession,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			localstore.NewStore,
			newFirebaseApp,
			newFirestoreClient,
		),
		pubsub.Module,
	)
}

// newFirebaseApp initializes the Firebase app when the remote identity
// provider is enabled. The whole remote stack is optional; everything
// downstream tolerates a nil app.
func newFirebaseApp(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
	if cfg.Identity == nil || !cfg.Identity.RemoteEnabled {
		return nil, nil
	}

	return firestoredb.NewApp(ctx, cfg)
}

func newFirestoreClient(lc fx.Lifecycle, ctx context.Context, app *firebase.App) (*firestore.Client, error) {
	if app == nil {
		return nil, nil
	}

	client, err := firestoredb.NewClient(ctx, app)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			localstore.NewCredentialRepository,
			localstore.NewSessionRepository,
			newUserRepository,
			newResourceRepository,
		),
	)
}

func newUserRepository(client *firestore.Client) repository.UserRepository {
	if client == nil {
		return nil
	}

	return firestoredb.NewUserRepository(client)
}

// newResourceRepository serves the catalogue from the document store when
// available, and from the local slot store otherwise.
func newResourceRepository(client *firestore.Client, store *localstore.Store) repository.ResourceRepository {
	if client == nil {
		return localstore.NewResourceRepository(store)
	}

	return firestoredb.NewResourceRepository(client)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTSessionCodec,
			mail.NewEmailJSService,
			security.NewContentSanitizer,
			identitylocal.NewProvider,
			newRemoteIdentity,
		),
	)
}

// newRemoteIdentity assembles the Firebase-backed provider with its OAuth
// helpers. Returns nil when remote identity is disabled; the auth facade
// then runs on the local credential store alone.
func newRemoteIdentity(
	ctx context.Context,
	cfg *config.Config,
	app *firebase.App,
	userRepo repository.UserRepository,
	mailService service.MailService,
	logger *slog.Logger,
) (service.GoogleIdentityProvider, error) {
	if app == nil {
		return nil, nil
	}

	oauthService, err := google.NewOAuthService(cfg)
	if err != nil {
		return nil, err
	}
	tokenVerifier, err := google.NewTokenVerifier(cfg)
	if err != nil {
		return nil, err
	}

	return identityfirebase.NewProvider(ctx, cfg, app, userRepo, mailService, oauthService, tokenVerifier, logger)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewAuthService,
			newGuardService,
			impl.NewDirectoryService,
			impl.NewResourceService,
			newContactService,
		),
	)
}

func newGuardService(authUC usecase.AuthUsecase, logger *slog.Logger) usecase.GuardUsecase {
	return impl.NewGuardService(authUC, logger, impl.DefaultRouteRules())
}

func newContactService(
	cfg *config.Config,
	mailService service.MailService,
	sanitizer service.ContentSanitizer,
	logger *slog.Logger,
) usecase.ContactUsecase {
	contactTemplate := ""
	if cfg.Mail != nil {
		contactTemplate = cfg.Mail.Templates.Contact
	}

	return impl.NewContactService(mailService, sanitizer, contactTemplate, logger)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
			middleware.NewGuardMiddleware,
			middleware.NewRateLimitMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewResourceHandler,
			handler.NewContactHandler,
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

// resumeSession re-arms the idle watchdog for a session that survived a
// restart. Stale activity forces the logout immediately instead of
// resurrecting a long-idle session.
func resumeSession(authUC usecase.AuthUsecase, logger *slog.Logger) {
	if !authUC.IsAuthenticated() {
		return
	}

	logger.Info("resuming persisted session")
	authUC.NoteActivity()
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
