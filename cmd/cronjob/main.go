package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fd-rental-backend/internal/config"
	"fd-rental-backend/internal/jobs"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository/postgres"
	"fd-rental-backend/internal/scheduler"
	"fd-rental-backend/internal/security"
	"fd-rental-backend/internal/service"
	"fd-rental-backend/internal/utils"

	_ "github.com/lib/pq"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "cronjob",
		Short:        "Scheduled jobs and maintenance commands for the rental back-office",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	rootCmd.AddCommand(
		scheduleCmd(),
		runOnceCmd(),
		migrateCmd(),
		issueTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")
	return db, nil
}

// notificationChannels picks SendGrid over SMTP for email; channels without
// credentials only log what they would have sent.
func notificationChannels(cfg *config.Config) (service.SMSSender, service.EmailSender) {
	var sms service.SMSSender
	if cfg.SMSEnabled() {
		sms = service.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber)
	} else {
		logger.Warn("Twilio is not configured, SMS reminders will only be logged")
		sms = service.NewLogSMSSender()
	}

	var email service.EmailSender
	switch {
	case cfg.EmailEnabled():
		email = service.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	case cfg.SMTPEnabled():
		email = service.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	default:
		logger.Warn("No email provider configured, manager digests will only be logged")
		email = service.NewLogEmailSender()
	}
	return sms, email
}

func newJobRunner(cfg *config.Config, db *sql.DB) *jobs.JobRunner {
	store := postgres.NewStore(db)
	repos := store.Repositories()
	loc := utils.LoadLocation(cfg.Business.Timezone)

	sms, email := notificationChannels(cfg)
	jobServices := &jobs.Services{
		Rental:       service.NewRentalService(store, repos, loc, time.Now),
		Notification: service.NewNotificationService(sms, email, cfg.SendGrid.ManagerEmails, cfg.Business.Name),
	}
	return jobs.NewJobRunner(repos, jobServices, cfg)
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the cron scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			cronScheduler := scheduler.NewScheduler(newJobRunner(cfg, db))
			cronScheduler.Start()
			logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			logger.Info("Shutting down cronjob scheduler...")
			cronScheduler.Stop()
			logger.Info("Cronjob scheduler stopped. Goodbye!")
			return nil
		},
	}
}

func runOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "run-once <job>",
		Short:     "Run a single job once and exit",
		Long:      "Run a single job once and exit. Available jobs: " + strings.Join(jobs.JobNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: jobs.JobNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("Running job once", "job", args[0])
			return newJobRunner(cfg, db).RunJob(cmd.Context(), args[0])
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			applied, err := postgres.Migrate(ctx, db)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s)\n", applied)
			return nil
		},
	}
}

func issueTokenCmd() *cobra.Command {
	var (
		userID int32
		email  string
		roles  []string
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue a staff access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tm := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
			token, err := tm.GenerateAccessToken(userID, email, roles)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().Int32Var(&userID, "user-id", 0, "Staff user id")
	cmd.Flags().StringVar(&email, "email", "", "Staff email")
	cmd.Flags().StringSliceVar(&roles, "role", []string{"manager"}, "Role(s): manager, superuser")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
