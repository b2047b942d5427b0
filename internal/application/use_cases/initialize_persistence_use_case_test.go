//go:build !integration

package use_cases

import (
	"context"
	"testing"
	"time"

	"zanopay/internal/application/dto"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type fakeBootstrapGateway struct {
	readinessFailures int
	readinessCalls    int
	migrationsCalls   int
	migrationsErr     *apperrors.AppError
}

func (g *fakeBootstrapGateway) CheckReadiness(_ context.Context) *apperrors.AppError {
	g.readinessCalls++
	if g.readinessCalls <= g.readinessFailures {
		return apperrors.NewInternal("db_not_ready", "database is not ready", nil)
	}
	return nil
}

func (g *fakeBootstrapGateway) RunMigrations(_ context.Context) *apperrors.AppError {
	g.migrationsCalls++
	return g.migrationsErr
}

func TestInitializePersistenceRetriesUntilReady(t *testing.T) {
	gateway := &fakeBootstrapGateway{readinessFailures: 2}
	useCase := NewInitializePersistenceUseCase(gateway)

	appErr := useCase.Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       time.Second,
		ReadinessRetryInterval: time.Millisecond,
	})
	if appErr != nil {
		t.Fatalf("expected no error, got %+v", appErr)
	}
	if gateway.readinessCalls != 3 {
		t.Fatalf("expected 3 readiness attempts, got %d", gateway.readinessCalls)
	}
	if gateway.migrationsCalls != 1 {
		t.Fatalf("expected migrations to run once, got %d", gateway.migrationsCalls)
	}
}

func TestInitializePersistenceTimesOut(t *testing.T) {
	gateway := &fakeBootstrapGateway{readinessFailures: 1_000_000}
	useCase := NewInitializePersistenceUseCase(gateway)

	appErr := useCase.Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       10 * time.Millisecond,
		ReadinessRetryInterval: time.Millisecond,
	})
	if appErr == nil || appErr.Code != "db_readiness_timeout" {
		t.Fatalf("expected db_readiness_timeout, got %+v", appErr)
	}
	if gateway.migrationsCalls != 0 {
		t.Fatalf("expected no migrations after timeout, got %d", gateway.migrationsCalls)
	}
}

func TestInitializePersistenceValidatesCommand(t *testing.T) {
	useCase := NewInitializePersistenceUseCase(&fakeBootstrapGateway{})

	appErr := useCase.Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       0,
		ReadinessRetryInterval: time.Millisecond,
	})
	if appErr == nil || appErr.Code != "readiness_timeout_invalid" {
		t.Fatalf("expected readiness_timeout_invalid, got %+v", appErr)
	}

	appErr = useCase.Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       time.Second,
		ReadinessRetryInterval: 0,
	})
	if appErr == nil || appErr.Code != "readiness_retry_interval_invalid" {
		t.Fatalf("expected readiness_retry_interval_invalid, got %+v", appErr)
	}
}

func TestInitializePersistencePropagatesMigrationFailure(t *testing.T) {
	gateway := &fakeBootstrapGateway{
		migrationsErr: apperrors.NewInternal("db_migration_apply_failed", "migration failed", nil),
	}
	useCase := NewInitializePersistenceUseCase(gateway)

	appErr := useCase.Execute(context.Background(), dto.InitializePersistenceCommand{
		ReadinessTimeout:       time.Second,
		ReadinessRetryInterval: time.Millisecond,
	})
	if appErr == nil || appErr.Code != "db_migration_apply_failed" {
		t.Fatalf("expected db_migration_apply_failed, got %+v", appErr)
	}
}
