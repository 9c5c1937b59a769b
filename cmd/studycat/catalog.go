package main

import (
	"context"
	"log/slog"
	"time"

	"studycat/internal/platform/postgres"
	"studycat/internal/study/service"
	genomestore "studycat/internal/study/store/genome"
	studystore "studycat/internal/study/store/study"
	dErrors "studycat/pkg/domain-errors"
	"studycat/pkg/platform/audit/publisher"
	auditpostgres "studycat/pkg/platform/audit/store/postgres"
	"studycat/pkg/platform/tx"
)

const catalogTxTimeout = 5 * time.Minute

// openCatalog connects the service to the Postgres catalog. Audit events go to
// the same outbox the server relays.
func openCatalog(ctx context.Context, databaseURL string, logger *slog.Logger) (*service.Service, func() error, error) {
	if databaseURL == "" {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "a catalog database is required: pass --database-url or set DATABASE_URL")
	}
	db, err := postgres.Open(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	svc := service.New(studystore.NewPostgres(db), genomestore.NewPostgres(db),
		service.WithLogger(logger),
		service.WithTx(tx.NewPostgres(db, catalogTxTimeout)),
		service.WithAuditPublisher(publisher.NewPublisher(auditpostgres.New(db), publisher.WithLogger(logger))),
	)
	return svc, db.Close, nil
}
