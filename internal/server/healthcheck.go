package server

import (
	"context"
	"time"
)

// startHealthChecks runs periodic dependency pings in the background and
// logs state changes. It is observability only; failing checks never stop
// the server, they make the failure visible before users do.
//
// The returned stop function cancels the loop and is called during
// Shutdown.
func (s *Server) startHealthChecks() func() {
	hc := s.Config.Observability.HealthChecks
	if !hc.Enabled {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(hc.Interval)
		defer ticker.Stop()

		// Tracks last known state per check so only transitions are logged
		// at warn/info, not every tick.
		healthy := map[string]bool{}

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, check := range hc.Checks {
					s.runHealthCheck(ctx, check, hc.Timeout, healthy)
				}
			}
		}
	}()

	return cancel
}

func (s *Server) runHealthCheck(ctx context.Context, check string, timeout time.Duration, healthy map[string]bool) {
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var err error
	switch check {
	case "database":
		err = s.DB.Pool.Ping(checkCtx)
	case "redis":
		err = s.Redis.Ping(checkCtx).Err()
	default:
		return
	}

	wasHealthy, seen := healthy[check]

	if err != nil {
		if !seen || wasHealthy {
			s.Logger.Warn().Err(err).Str("check", check).Msg("Dependency health check failing")
		}
		healthy[check] = false
		return
	}

	if seen && !wasHealthy {
		s.Logger.Info().Str("check", check).Msg("Dependency health check recovered")
	}
	healthy[check] = true
}
