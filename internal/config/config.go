package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prasetyadi/graphmail-pipeline/internal/models"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string
	TableName   string

	// Graph API
	GraphBaseURL     string
	GraphMessagesURL string
	GraphHostname    string
	TenantID         string
	ClientID         string
	ClientSecret     string
	StaticToken      string

	// Pipeline
	EmailFilter  string
	ProcessorURL string
	SiteName     string
	DriveFolder  string
	StagingDir   string

	// Report email
	SenderEmail   string
	AppPassword   string
	ToEmail       string
	SMTPHost      string
	SMTPPort      int
	ExcelFileName string

	// Schedules (6-field cron expressions, seconds first)
	PollSchedule   string
	ReportSchedule string

	// Server
	APIPort int

	// Logging
	LogLevel string

	// Security
	APIKey string
	AppEnv string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// STORAGE_TABLE_NAME (default: email_attachments)
	cfg.TableName = os.Getenv("STORAGE_TABLE_NAME")
	if cfg.TableName == "" {
		cfg.TableName = models.DefaultTableName
	}

	// GRAPH_API_URL (default: the public v1.0 endpoint)
	cfg.GraphBaseURL = os.Getenv("GRAPH_API_URL")
	if cfg.GraphBaseURL == "" {
		cfg.GraphBaseURL = "https://graph.microsoft.com/v1.0"
	}

	// GRAPH_API_MESSAGE_URL (default: derived from the base URL)
	cfg.GraphMessagesURL = os.Getenv("GRAPH_API_MESSAGE_URL")
	if cfg.GraphMessagesURL == "" {
		cfg.GraphMessagesURL = cfg.GraphBaseURL + "/me/messages"
	}

	cfg.GraphHostname = os.Getenv("GRAPH_HOSTNAME")
	cfg.TenantID = os.Getenv("TENANT_ID")
	cfg.ClientID = os.Getenv("CLIENT_ID")
	cfg.ClientSecret = os.Getenv("CLIENT_SECRET")
	cfg.StaticToken = os.Getenv("GRAPH_TOKEN")

	// EMAIL_FILTER (default: unread messages)
	cfg.EmailFilter = os.Getenv("EMAIL_FILTER")
	if cfg.EmailFilter == "" {
		cfg.EmailFilter = "isRead eq false"
	}

	// API_PORT (default: 8080)
	apiPort := os.Getenv("API_PORT")
	if apiPort == "" {
		cfg.APIPort = 8080
	} else {
		port, err := strconv.Atoi(apiPort)
		if err != nil {
			return nil, fmt.Errorf("API_PORT must be a valid integer: %w", err)
		}
		cfg.APIPort = port
	}

	// EMAIL_PROCESSING_FUNCTION_URL (default: this process's own endpoint)
	cfg.ProcessorURL = os.Getenv("EMAIL_PROCESSING_FUNCTION_URL")
	if cfg.ProcessorURL == "" {
		cfg.ProcessorURL = fmt.Sprintf("http://127.0.0.1:%d/api/process", cfg.APIPort)
	}

	cfg.SiteName = os.Getenv("SHAREPOINT_SITE_NAME")

	// DRIVE_FOLDER_PATH (default: Attachments)
	cfg.DriveFolder = os.Getenv("DRIVE_FOLDER_PATH")
	if cfg.DriveFolder == "" {
		cfg.DriveFolder = "Attachments"
	}

	// STAGING_DIR (default: <tmp>/attachments)
	cfg.StagingDir = os.Getenv("STAGING_DIR")
	if cfg.StagingDir == "" {
		cfg.StagingDir = filepath.Join(os.TempDir(), "attachments")
	}

	cfg.SenderEmail = os.Getenv("SENDER_EMAIL")
	cfg.AppPassword = os.Getenv("APP_PASSWORD")
	cfg.ToEmail = os.Getenv("TO_EMAIL")

	// SMTP_HOST (default: smtp.gmail.com)
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}

	// SMTP_PORT (default: 587)
	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		cfg.SMTPPort = 587
	} else {
		port, err := strconv.Atoi(smtpPort)
		if err != nil {
			return nil, fmt.Errorf("SMTP_PORT must be a valid integer: %w", err)
		}
		cfg.SMTPPort = port
	}

	// EXCEL_FILE_NAME (default: daily_report.xlsx)
	cfg.ExcelFileName = os.Getenv("EXCEL_FILE_NAME")
	if cfg.ExcelFileName == "" {
		cfg.ExcelFileName = "daily_report.xlsx"
	}

	// POLL_SCHEDULE / REPORT_SCHEDULE (default: every minute)
	cfg.PollSchedule = os.Getenv("POLL_SCHEDULE")
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = "0 */1 * * * *"
	}
	cfg.ReportSchedule = os.Getenv("REPORT_SCHEDULE")
	if cfg.ReportSchedule == "" {
		cfg.ReportSchedule = "0 */1 * * * *"
	}

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.APIKey = os.Getenv("API_KEY")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	return cfg, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTPPort must be between 1 and 65535")
	}
	if c.StaticToken == "" && (c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "") {
		return fmt.Errorf("either GRAPH_TOKEN or TENANT_ID/CLIENT_ID/CLIENT_SECRET must be set")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production")
	}
	if c.StaticToken != "" {
		return fmt.Errorf("GRAPH_TOKEN override is not allowed in production")
	}
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}
	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("graph_base_url", c.GraphBaseURL),
		slog.String("email_filter", c.EmailFilter),
		slog.String("processor_url", c.ProcessorURL),
		slog.String("site_name", c.SiteName),
		slog.String("drive_folder", c.DriveFolder),
		slog.String("staging_dir", c.StagingDir),
		slog.String("smtp_host", c.SMTPHost),
		slog.Int("smtp_port", c.SMTPPort),
		slog.String("poll_schedule", c.PollSchedule),
		slog.String("report_schedule", c.ReportSchedule),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("static_token_set", c.StaticToken != ""),
		slog.Bool("api_key_set", c.APIKey != ""),
	)
}
