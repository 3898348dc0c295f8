package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"healthbridge/internal/grants/models"
	"healthbridge/pkg/platform/httputil"
	"healthbridge/pkg/platform/middleware/admin"
	"healthbridge/pkg/requestcontext"
)

// Sweeper runs one expiry pass on demand.
type Sweeper interface {
	RunOnce(ctx context.Context) (models.SweepResult, error)
}

type sweepResponse struct {
	ExpiredStandard  int64 `json:"expired_standard"`
	ExpiredEmergency int64 `json:"expired_emergency"`
	ExpiredPending   int64 `json:"expired_pending"`
	Total            int64 `json:"total"`
}

func handleSweep(sweeper Sweeper, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := sweeper.RunOnce(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "on-demand sweep failed",
				"error", err,
				"operator", admin.Operator(ctx),
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}
		logger.InfoContext(ctx, "on-demand sweep completed",
			"operator", admin.Operator(ctx),
			"expired_total", result.Total(),
		)
		httputil.WriteJSON(w, http.StatusOK, sweepResponse{
			ExpiredStandard:  result.ExpiredStandard,
			ExpiredEmergency: result.ExpiredEmergency,
			ExpiredPending:   result.ExpiredPending,
			Total:            result.Total(),
		})
	}
}
