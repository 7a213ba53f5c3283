package xnames

import (
	"os"
	"path"

	"github.com/everFinance/xnames/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	sqliteName = "xnames.db"
)

// Wdb is the SQL read model: mint orders and the registry event log.
type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel), // prod use warn
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Silent),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.MintOrder{}, &schema.RegistryEvent{})
}

func (w *Wdb) InsertMintOrders(orders []schema.MintOrder) error {
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&orders).Error
}

func (w *Wdb) GetOrdersByOwner(owner string, cursorId int64, num int) ([]schema.MintOrder, error) {
	res := make([]schema.MintOrder, 0, num)
	db := w.Db.Model(&schema.MintOrder{}).Where("owner = ?", owner)
	if cursorId > 0 {
		db = db.Where("id < ?", cursorId)
	}
	err := db.Order("id DESC").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) InsertEvents(events []schema.RegistryEvent) error {
	if len(events) == 0 {
		return nil
	}
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&events).Error
}

func (w *Wdb) GetEventsByToken(tokenId string, cursorId int64, num int) ([]schema.RegistryEvent, error) {
	res := make([]schema.RegistryEvent, 0, num)
	db := w.Db.Model(&schema.RegistryEvent{}).Where("token_id = ?", tokenId)
	if cursorId > 0 {
		db = db.Where("id > ?", cursorId)
	}
	err := db.Order("id ASC").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) GetUnpublishedEvents(num int) ([]schema.RegistryEvent, error) {
	res := make([]schema.RegistryEvent, 0, num)
	err := w.Db.Model(&schema.RegistryEvent{}).Where("published = ?", false).Order("id ASC").Limit(num).Find(&res).Error
	return res, err
}

func (w *Wdb) MarkPublished(eventId string) error {
	return w.Db.Model(&schema.RegistryEvent{}).Where("event_id = ?", eventId).Update("published", true).Error
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
