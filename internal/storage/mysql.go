package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blobRow is the single table used by the MySQL backend: one row per named
// collection.
type blobRow struct {
	Key   string `gorm:"primaryKey;size:191;column:blob_key"`
	Value string `gorm:"type:longtext;column:blob_value"`
}

func (blobRow) TableName() string { return "blobs" }

// MySQLStore persists blobs in a MySQL table through GORM, for deployments
// that prefer a shared SQL server over local disk.
type MySQLStore struct {
	db *gorm.DB
}

// OpenMySQL connects to MySQL using dsn and migrates the blob table.
func OpenMySQL(dsn string) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("while connecting to mysql: %w", err)
	}
	if err := db.AutoMigrate(&blobRow{}); err != nil {
		return nil, fmt.Errorf("while migrating blob table: %w", err)
	}
	return &MySQLStore{db: db}, nil
}

func (m *MySQLStore) Load(key, def string) (string, error) {
	var row blobRow
	err := m.db.First(&row, "blob_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("while loading %q: %w", key, err)
	}
	return row.Value, nil
}

func (m *MySQLStore) Save(key, value string) error {
	row := blobRow{Key: key, Value: value}
	err := m.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("while saving %q: %w", key, err)
	}
	return nil
}

func (m *MySQLStore) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
