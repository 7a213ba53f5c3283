package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/everFinance/xnames"
	"github.com/everFinance/xnames/common"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "xnames",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/xnames?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "", Usage: "sqlite dir, replaces mysql when set", EnvVars: []string{"SQLITE_DIR"}},

			&cli.BoolFlag{Name: "use_s3", Value: false, Usage: "run with s3 store", EnvVars: []string{"USE_S3"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "xnames", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "s3 endpoint", EnvVars: []string{"S3_ENDPOINT"}},

			&cli.BoolFlag{Name: "use_aliyun", Value: false, Usage: "run with aliyun oss store", EnvVars: []string{"USE_ALIYUN"}},
			&cli.StringFlag{Name: "aliyun_endpoint", Value: "", Usage: "aliyun oss endpoint", EnvVars: []string{"ALIYUN_ENDPOINT"}},
			&cli.StringFlag{Name: "aliyun_acc_key", Value: "", Usage: "aliyun access key", EnvVars: []string{"ALIYUN_ACC_KEY"}},
			&cli.StringFlag{Name: "aliyun_secret_key", Value: "", Usage: "aliyun secret key", EnvVars: []string{"ALIYUN_SECRET_KEY"}},
			&cli.StringFlag{Name: "aliyun_prefix", Value: "xnames", Usage: "aliyun bucket name prefix", EnvVars: []string{"ALIYUN_PREFIX"}},

			&cli.BoolFlag{Name: "use_mongodb", Value: false, Usage: "run with mongodb store", EnvVars: []string{"USE_MONGODB"}},
			&cli.StringFlag{Name: "mongodb_uri", Value: "mongodb://localhost:27017", EnvVars: []string{"MONGODB_URI"}},

			&cli.BoolFlag{Name: "kafka", Value: false, Usage: "publish registry events to kafka", EnvVars: []string{"KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "localhost:9092", EnvVars: []string{"KAFKA_URI"}},

			&cli.StringFlag{Name: "marketplace", Value: "", Usage: "marketplace url for royalty claims", EnvVars: []string{"MARKETPLACE"}},

			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "metric_port", Value: ":9000", EnvVars: []string{"METRIC_PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	sqliteDir := c.String("sqlite_dir")
	s := xnames.New(
		c.String("db_dir"), c.String("mysql"), sqliteDir, sqliteDir != "",
		c.Bool("use_s3"), c.String("s3_acc_key"), c.String("s3_secret_key"), c.String("s3_prefix"), c.String("s3_region"), c.String("s3_endpoint"),
		c.Bool("use_aliyun"), c.String("aliyun_endpoint"), c.String("aliyun_acc_key"), c.String("aliyun_secret_key"), c.String("aliyun_prefix"),
		c.Bool("use_mongodb"), c.String("mongodb_uri"),
		c.Bool("kafka"), c.String("kafka_uri"),
		c.String("marketplace"),
	)
	common.NewMetricServer(c.String("metric_port"))
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
