package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Enrichment
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Enrichment struct {
		Enabled  bool
		Schedule string // Cron format: "0 */6 * * *" = every 6 hours
		Batch    int    // Max books enriched per scheduled sweep
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration

		AuditRetentionSchedule string // Cron format: when to prune old audit events
		AuditRetentionDays     int    // Audit events older than this are pruned
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("enrichment_enabled", false)
	v.SetDefault("enrichment_schedule", "0 */6 * * *") // Every 6 hours
	v.SetDefault("enrichment_batch", 25)
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_workers", 2)
	v.SetDefault("tasks_release_after", 10*time.Minute)
	v.SetDefault("tasks_cleanup_interval", time.Hour)
	v.SetDefault("tasks_audit_retention_schedule", "30 3 * * *") // Daily at 03:30
	v.SetDefault("tasks_audit_retention_days", 30)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Enrichment: Enrichment{
			Enabled:  v.GetBool("enrichment_enabled"),
			Schedule: v.GetString("enrichment_schedule"),
			Batch:    v.GetInt("enrichment_batch"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("tasks_workers"),
			ReleaseAfter:    v.GetDuration("tasks_release_after"),
			CleanupInterval: v.GetDuration("tasks_cleanup_interval"),

			AuditRetentionSchedule: v.GetString("tasks_audit_retention_schedule"),
			AuditRetentionDays:     v.GetInt("tasks_audit_retention_days"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}
