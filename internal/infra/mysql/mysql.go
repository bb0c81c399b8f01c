package mysql

import (
	"fmt"

	"storefront-engine/internal/config"
	"storefront-engine/internal/domain"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func NewMySQL(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.Product{},
		&domain.InventoryAdjustment{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.SubscriptionStatusEvent{},
		&domain.ReturnRequest{},
		&domain.ReturnItem{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
