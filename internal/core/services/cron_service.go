package services

import (
	"context"
	"log"
	"time"

	"msacco-api/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance: purging expired refresh tokens and
// logging the nightly lending summary.
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	dashboard        *DashboardService
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	dashboard *DashboardService,
) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: refreshTokenRepo,
		dashboard:        dashboard,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	// Purge expired refresh tokens daily at 02:00
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	// Log lending summary daily at 23:55
	if _, err := s.cron.AddFunc("55 23 * * *", s.logLendingSummary); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✅ Cron scheduler stopped")
}

func (s *CronService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("⚠️ Refresh token purge failed: %v", err)
		return
	}
	log.Printf("🧹 Purged %d expired refresh tokens", deleted)
}

func (s *CronService) logLendingSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	summary, err := s.dashboard.GetLendingSummary(ctx)
	if err != nil {
		log.Printf("⚠️ Lending summary failed: %v", err)
		return
	}
	log.Printf("📊 Lending summary: %d pending, %d approved (%.2f out), deposits %.2f",
		summary.PendingLoans,
		summary.ApprovedLoans,
		summary.ApprovedAmount,
		summary.TotalDeposits,
	)
}
