package database

import (
	"fmt"
	"log"

	"fintrack/config"
	"fintrack/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection, migrates the schema and seeds defaults.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Duplicate-key errors must map to gorm.ErrDuplicatedKey so the
		// alert engine can tell a dedup collision from a real failure.
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	// Connection pool limits.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.RecurringExpense{},
		&models.Alert{},
		&models.Investment{},
		&models.AIInsight{},
	); err != nil {
		return err
	}

	// Legacy rows from before the status column existed must stay usable.
	_ = DB.Model(&models.User{}).
		Where("status IS NULL OR status = ''").
		Update("status", models.UserStatusActive).Error

	seedCategories()
	seedPlans()

	log.Println("database initialized")
	return nil
}

// seedCategories inserts the default spending categories when the table is
// empty.
func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	// Colors match the mobile client palette.
	colorMap := map[string]string{
		models.CategoryFood:          "#ef4444",
		models.CategoryTransport:     "#3b82f6",
		models.CategoryShopping:      "#a855f7",
		models.CategoryEntertainment: "#ec4899",
		models.CategoryHealth:        "#10b981",
		models.CategoryEducation:     "#f59e0b",
		models.CategoryHousing:       "#14b8a6",
		models.CategoryOther:         "#64748b",
	}
	var cats []models.Category
	for i, name := range models.DefaultCategories() {
		color := colorMap[name]
		if color == "" {
			color = "#64748b"
		}
		cats = append(cats, models.Category{
			Name:  name,
			Sort:  (i + 1) * 10,
			Color: color,
		})
	}
	if len(cats) > 0 {
		_ = DB.Create(&cats).Error
	}
}

// seedPlans inserts the subscription tiers when the table is empty.
func seedPlans() {
	var count int64
	DB.Model(&models.Plan{}).Count(&count)
	if count > 0 {
		return
	}
	plans := []models.Plan{
		{Name: "free", MaxAlerts: 50, AIEnabled: false},
		{Name: "premium", MaxAlerts: 0, AIEnabled: true},
	}
	_ = DB.Create(&plans).Error
}

// GetDB returns the database handle.
func GetDB() *gorm.DB {
	return DB
}
