package use_cases

import (
	"context"
	"log"

	"zanopay/internal/application/dto"
	portsin "zanopay/internal/application/ports/in"
	portsout "zanopay/internal/application/ports/out"
	apperrors "zanopay/internal/shared_kernel/errors"
)

type getHealthUseCase struct {
	chain  portsout.ChainGateway
	logger *log.Logger
}

func NewGetHealthUseCase(chain portsout.ChainGateway, logger *log.Logger) portsin.GetHealthUseCase {
	return &getHealthUseCase{chain: chain, logger: logger}
}

// Execute reports service health. The process serving the request is healthy
// by definition; an unreachable node degrades the status instead of failing
// the endpoint, so load balancers keep routing while payments stall.
func (u *getHealthUseCase) Execute(ctx context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	if u.chain != nil {
		if appErr := u.chain.CheckNode(ctx); appErr != nil {
			u.logf("node liveness probe failed code=%s message=%s", appErr.Code, appErr.Message)
			return dto.HealthOutput{Status: "degraded"}, nil
		}
	}

	return dto.HealthOutput{Status: "healthy"}, nil
}

func (u *getHealthUseCase) logf(format string, args ...any) {
	if u.logger == nil {
		return
	}
	u.logger.Printf(format, args...)
}
