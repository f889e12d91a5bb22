// file: database/connect.go
package database

import (
	"log"
	"time"

	"github.com/3liuhuo/DummyCTFPlatform/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect 建立 MySQL 连接并配置连接池。
// TranslateError 把驱动层 1062 翻译成 gorm.ErrDuplicatedKey，
// 唯一键冲突（用户名、报名记录）靠 errors.Is 识别。
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetConnMaxLifetime 设为 1 小时，规避 MySQL wait_timeout 断连
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established and connection pool configured.")
	return db, nil
}

// MigrateTables 自动迁移平台全部表结构（按需在启动时调用）
func MigrateTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.Challenge{},
		&models.ContestChallenge{},
		&models.Registrant{},
		&models.Submission{},
	)
}
