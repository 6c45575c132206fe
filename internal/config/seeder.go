package config

import (
	"log"

	"msacco-api/internal/adapters/persistence/models"
	"msacco-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedLoanConfiguration(); err != nil {
		log.Printf("⚠️ Loan configuration seeder skipped: %v", err)
	}

	if err := s.seedLoanTypes(); err != nil {
		log.Printf("⚠️ Loan type seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "System Administrator",
		Email:    "admin@msacco.local",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedLoanConfiguration ensures the lending policy row exists. The seeded
// multiplier comes from config so deployments can tune it without a migration.
func (s *Seeder) seedLoanConfiguration() error {
	var count int64
	s.db.Model(&models.LoanConfiguration{}).Count(&count)
	if count > 0 {
		return nil
	}

	cfg := &models.LoanConfiguration{
		MaxLoanMultiplier: s.cfg.Loan.Multiplier,
	}
	if err := s.db.Create(cfg).Error; err != nil {
		return err
	}

	log.Printf("✅ Loan configuration created (multiplier: %.2f)", cfg.MaxLoanMultiplier)
	return nil
}

// seedLoanTypes seeds the default lending products
func (s *Seeder) seedLoanTypes() error {
	var count int64
	s.db.Model(&models.LoanType{}).Count(&count)
	if count > 0 {
		return nil
	}

	loanTypes := []models.LoanType{
		{Name: "Emergency Loan", InterestRate: 10.0, Duration: 12},
		{Name: "Development Loan", InterestRate: 12.0, Duration: 36},
		{Name: "School Fees Loan", InterestRate: 8.0, Duration: 12},
	}

	if err := s.db.Create(&loanTypes).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d loan types", len(loanTypes))
	return nil
}
