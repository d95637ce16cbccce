package storage

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CacheEntry 持久化的缓存条目，写入后只读，直到时间桶滚动后被弃用
type CacheEntry struct {
	Key       string         `gorm:"primaryKey;size:200" json:"key"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	WrittenAt time.Time      `gorm:"index" json:"writtenAt"`
}

// PostgresBackend 持久层缓存，redis 丢失后兜底
type PostgresBackend struct {
	DB *gorm.DB
}

func OpenPostgres(dsn string) (*PostgresBackend, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewPostgresBackend(db)
}

func NewPostgresBackend(db *gorm.DB) (*PostgresBackend, error) {
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, err
	}
	return &PostgresBackend{DB: db}, nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, bool) {
	var entry CacheEntry
	// 未命中是常态，不打 record not found 日志
	silent := p.DB.Session(&gorm.Session{Logger: p.DB.Logger.LogMode(logger.Silent)})
	if err := silent.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		return nil, false
	}
	return []byte(entry.Payload), true
}

// Put 同一 key 并发写入时后写者胜出
func (p *PostgresBackend) Put(ctx context.Context, key string, payload []byte) error {
	if !json.Valid(payload) {
		// jsonb 列只接受合法 JSON，非 JSON 载荷包一层字符串
		wrapped, err := json.Marshal(string(payload))
		if err != nil {
			return err
		}
		payload = wrapped
	}
	entry := CacheEntry{
		Key:       key,
		Payload:   datatypes.JSON(payload),
		WrittenAt: time.Now(),
	}
	return p.DB.WithContext(ctx).Save(&entry).Error
}
