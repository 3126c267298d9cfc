package db

import (
	"context"
	"math"
	"time"

	"github.com/seedtabs/qrcoder/constant"
	"github.com/seedtabs/qrcoder/domain/label"
	appLogger "github.com/seedtabs/qrcoder/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteLedger implements label.Ledger on a local SQLite file
type SQLiteLedger struct {
	db  *gorm.DB
	log *appLogger.Logger
}

// IssuedLabelModel is the GORM model for one written label
type IssuedLabelModel struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"index;not null"`
	Code       int    `gorm:"index;not null"`
	Type       string `gorm:"not null"`
	Payload    string `gorm:"not null"`
	Path       string `gorm:"not null"`
	Version    int
	Overflowed bool
	CreatedAt  time.Time
}

// TableName pins the table name independent of the struct name
func (IssuedLabelModel) TableName() string {
	return "issued_labels"
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct {
	log *appLogger.Logger
}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		l.log.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	l.log.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteLedger opens (or creates) the ledger database at dbPath
func NewSQLiteLedger(dbPath string, log *appLogger.Logger) (*SQLiteLedger, error) {
	if log == nil {
		log = appLogger.NewNop()
	}

	log.Debug("Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{log: log},
	})
	if err != nil {
		log.Error("Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	if err := db.AutoMigrate(&IssuedLabelModel{}); err != nil {
		log.Error("Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	log.Info("Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteLedger{db: db, log: log}, nil
}

// Record stores one written label
func (r *SQLiteLedger) Record(ctx context.Context, artifact *label.Artifact) error {
	model := IssuedLabelModel{
		RunID:      artifact.RunID,
		Code:       artifact.Code,
		Type:       string(artifact.Type),
		Payload:    artifact.Payload,
		Path:       artifact.Path,
		Version:    artifact.Version,
		Overflowed: artifact.Overflowed,
		CreatedAt:  artifact.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.CtxError(ctx, "Failed to insert issued label", appLogger.LoggerInfo{
			ContextFunction: constant.CtxRecord,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataCode: artifact.Code,
				constant.DataPath: artifact.Path,
			},
		})
		return err
	}

	r.log.CtxDebug(ctx, "Issued label recorded", appLogger.LoggerInfo{
		ContextFunction: constant.CtxRecord,
		Data: map[string]interface{}{
			constant.DataCode: artifact.Code,
		},
	})

	return nil
}

// Issued returns, ascending and without duplicates, the codes in
// [start, start+count) that were recorded by any earlier run.
func (r *SQLiteLedger) Issued(ctx context.Context, start, count int) ([]int, error) {
	codes := []int{}
	if count <= 0 {
		return codes, nil
	}
	end := math.MaxInt
	if start <= math.MaxInt-count {
		end = start + count
	}

	err := r.db.WithContext(ctx).
		Model(&IssuedLabelModel{}).
		Where("code >= ? AND code < ?", start, end).
		Distinct().
		Order("code").
		Pluck("code", &codes).Error
	if err != nil {
		r.log.CtxError(ctx, "Database error while looking up issued codes", appLogger.LoggerInfo{
			ContextFunction: constant.CtxIssued,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataStart: start,
				constant.DataCount: count,
			},
		})
		return nil, err
	}

	return codes, nil
}

// Close closes the database connection
func (r *SQLiteLedger) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		r.log.Error("Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	r.log.Debug("Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
