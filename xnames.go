package xnames

import (
	"context"
	"sync"
	"time"

	"github.com/everFinance/xnames/common"
	"github.com/everFinance/xnames/config"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/panjf2000/ants/v2"
)

var log = common.NewLog("xnames")

const asyncPoolSize = 50

type Xnames struct {
	store     *Store
	engine    *gin.Engine
	locker    sync.RWMutex
	scheduler *gocron.Scheduler
	pool      *ants.Pool
	clock     func() time.Time

	config      *config.Config
	wdb         *Wdb
	kWriter     *KWriter
	marketplace *MarketplaceCli
}

func New(
	boltDirPath, mySqlDsn, sqliteDir string, useSqlite bool,
	useS3 bool, s3AccKey, s3SecretKey, s3BucketPrefix, s3Region, s3Endpoint string,
	useAliyun bool, aliyunEndpoint, aliyunAccKey, aliyunSecretKey, aliyunPrefix string,
	useMongoDB bool, mongoDBUri string,
	enableKafka bool, kafkaUri string,
	marketplaceUrl string,
) *Xnames {
	var (
		KVDb *Store
		err  error
	)
	switch {
	case useS3:
		KVDb, err = NewS3Store(s3AccKey, s3SecretKey, s3Region, s3BucketPrefix, s3Endpoint)
	case useAliyun:
		KVDb, err = NewAliyunStore(aliyunEndpoint, aliyunAccKey, aliyunSecretKey, aliyunPrefix)
	case useMongoDB:
		KVDb, err = NewMongoDBStore(context.Background(), mongoDBUri)
	default:
		KVDb, err = NewBoltStore(boltDirPath)
	}
	if err != nil {
		panic(err)
	}

	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	var kWriter *KWriter
	if enableKafka {
		kWriter, err = NewKWriter(EventTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	var marketplace *MarketplaceCli
	if marketplaceUrl != "" {
		marketplace = NewMarketplaceCli(marketplaceUrl)
	}

	return newXnames(KVDb, wdb, config.New(mySqlDsn, sqliteDir, useSqlite), kWriter, marketplace)
}

// newXnames wires the service; wdb, cfg, kWriter and marketplace may be nil.
func newXnames(store *Store, wdb *Wdb, cfg *config.Config, kWriter *KWriter, marketplace *MarketplaceCli) *Xnames {
	pool, err := ants.NewPool(asyncPoolSize)
	if err != nil {
		panic(err)
	}
	return &Xnames{
		store:       store,
		engine:      gin.Default(),
		scheduler:   gocron.NewScheduler(time.UTC),
		pool:        pool,
		clock:       time.Now,
		config:      cfg,
		wdb:         wdb,
		kWriter:     kWriter,
		marketplace: marketplace,
	}
}

// now is the request timestamp in unix seconds.
func (x *Xnames) now() uint64 {
	return uint64(x.clock().Unix())
}

func (x *Xnames) Run(port string) {
	if x.config != nil {
		x.config.Run()
	}
	go x.runAPI(port)
	go x.runJobs()
}

func (x *Xnames) Close() {
	x.scheduler.Stop()
	x.pool.Release()
	if x.kWriter != nil {
		x.kWriter.Close()
	}
	if x.wdb != nil {
		x.wdb.Close()
	}
	if x.config != nil {
		x.config.Close()
	}
	if err := x.store.Close(); err != nil {
		log.Error("x.store.Close()", "err", err)
	}
}
