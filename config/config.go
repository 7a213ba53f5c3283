package config

import (
	"sync"
	"time"

	"github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/config/schema"
	"github.com/go-co-op/gocron"
)

var log = common.NewLog("config")

type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	lock        sync.RWMutex
	param       schema.Param
	ipWhiteList map[string]struct{}
}

func New(mysqlDsn, sqliteDir string, useSqlite bool) *Config {
	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteWdb(sqliteDir)
	} else {
		wdb = NewWdb(mysqlDsn)
	}
	return newConfig(wdb)
}

func newConfig(wdb *Wdb) *Config {
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	c := &Config{
		wdb:         wdb,
		scheduler:   gocron.NewScheduler(time.UTC),
		param:       schema.DefaultParam,
		ipWhiteList: make(map[string]struct{}),
	}
	c.updateParam()
	c.updateIPWhiteList()
	return c
}

func (c *Config) Param() schema.Param {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.param
}

// IPWhiteList returns the origins and ips exempt from rate limiting.
// The returned map must not be modified.
func (c *Config) IPWhiteList() map[string]struct{} {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.ipWhiteList
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}
