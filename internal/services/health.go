package services

import (
	"fmt"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/config"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	CDN          map[string]string `json:"cdn"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(msg string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
}

// HealthCheck checks the store and the three CDN listeners
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		CDN:     make(map[string]string, 3),
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail(fmt.Sprintf("Database connection error: %v", err))
		slog.Error("health check failed: database connection", "error", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail(fmt.Sprintf("Database ping failed: %v", err))
		slog.Error("health check failed: database ping", "error", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
	}

	for name, port := range map[string]string{
		"thingdefs":   cfg.PortCDNThingDefs,
		"areabundles": cfg.PortCDNAreaBundles,
		"ugcimages":   cfg.PortCDNUGCImages,
	} {
		if err := utils.PingListener(cfg.Host, port); err != nil {
			result.CDN[name] = "unreachable"
			result.fail(fmt.Sprintf("CDN %s ping failed: %v", name, err))
			slog.Error("health check failed: cdn listener", "cdn", name, "port", port, "error", err)
			continue
		}
		result.CDN[name] = "ok"
	}

	return result
}
