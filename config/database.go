package config

import (
	"context"
	"fmt"
	"time"

	"invoicegen-backend/store"
	"invoicegen-backend/store/memory"
	"invoicegen-backend/store/mongo"
	"invoicegen-backend/store/sqlstore"
)

// ConnectStore opens the backend selected by DB_DRIVER.
func ConnectStore(ctx context.Context, c *Config) (store.Store, error) {
	switch c.DBDriver {
	case "memory":
		return memory.New(), nil
	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongo.Connect(ctx, c.DBURL, c.MongoDatabase)
	case "postgres", "sqlite":
		s, err := sqlstore.Open(c.DBDriver, c.DBURL)
		if err != nil {
			return nil, err
		}
		sqlDB, err := s.DB().DB()
		if err != nil {
			return nil, err
		}
		if c.DBDriver == "postgres" {
			sqlDB.SetMaxIdleConns(25)
			sqlDB.SetMaxOpenConns(100)
			sqlDB.SetConnMaxLifetime(5 * time.Minute)
			sqlDB.SetConnMaxIdleTime(time.Minute)
		} else {
			sqlDB.SetMaxOpenConns(1)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}
