package config

import (
	"os"
	"path"

	"github.com/everFinance/xnames/config/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "config.db"

type Wdb struct {
	Db *gorm.DB
}

func NewWdb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 10,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect config db success")
	return &Wdb{Db: db}
}

func NewSqliteWdb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Silent),
		CreateBatchSize: 10,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect config sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	if err := w.Db.AutoMigrate(&schema.Param{}, &schema.IpRateWhitelist{}); err != nil {
		return err
	}
	param := schema.DefaultParam
	return w.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&param).Error
}

func (w *Wdb) GetParam() (param schema.Param, err error) {
	err = w.Db.First(&param, 1).Error
	return
}

func (w *Wdb) SetParam(param schema.Param) error {
	param.ID = 1
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&param).Error
}

func (w *Wdb) GetAllAvailableIpRateWhitelist() ([]schema.IpRateWhitelist, error) {
	res := make([]schema.IpRateWhitelist, 0)
	err := w.Db.Where("available = ?", true).Find(&res).Error
	return res, err
}

func (w *Wdb) InsertIpRateWhitelist(item schema.IpRateWhitelist) error {
	return w.Db.Create(&item).Error
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
