package database

import (
	"database/sql"
	"fmt"
	"time"

	"hl-portal/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options holds MySQL connection settings.
type Options struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     logger.LogLevel
}

// DSN builds the go-sql-driver data source name.
func (o Options) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		o.User, o.Password, o.Host, o.Port, o.Name)
}

type GormDB struct {
	db *gorm.DB
}

func gormConfig(level logger.LogLevel) *gorm.Config {
	if level == 0 {
		level = logger.Warn
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		// Writes are wrapped in transactions explicitly where atomicity matters.
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}
}

func NewGormDB(opts Options) (*GormDB, error) {
	db, err := gorm.Open(mysql.Open(opts.DSN()), gormConfig(opts.LogLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromConn wraps an already opened *sql.DB, e.g. a sqlmock connection.
func NewGormDBFromConn(conn *sql.DB) (*GormDB, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), gormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}
	return &GormDB{db: db}, nil
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.Property{},
		&models.Amenity{},
		&models.Agent{},
		&models.User{},
		&models.Visit{},
		&models.Contact{},
		&models.Newsletter{},
		&models.Review{},
		&models.Blog{},
	)
}

// Stores bundles the repositories that share this connection pool.
type Stores struct {
	Properties *PropertyStore
	Amenities  *AmenityStore
	Agents     *AgentStore
	Users      *UserStore
	Leads      *LeadStore
	Content    *ContentStore
}

// Stores builds every repository over this pool.
func (gdb *GormDB) Stores() Stores {
	return Stores{
		Properties: NewPropertyStore(gdb.db),
		Amenities:  NewAmenityStore(gdb.db),
		Agents:     NewAgentStore(gdb.db),
		Users:      NewUserStore(gdb.db),
		Leads:      NewLeadStore(gdb.db),
		Content:    NewContentStore(gdb.db),
	}
}
