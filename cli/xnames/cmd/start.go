package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/everFinance/xnames"
	"github.com/everFinance/xnames/common"
	"github.com/spf13/cobra"
)

const pidFile string = ".xnames_pid.lock"

var daemon bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start xnames",
	Long:  `start xnames`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if daemon {
			if _, err := os.Stat(pidFile); err == nil {
				fmt.Println("Failed start, PID file exist.running...")
				return nil
			}

			path, err := os.Executable()
			if err != nil {
				return err
			}

			args := []string{"start"}
			if cfgFile != "" {
				args = append(args, "--cfg", cfgFile)
			}
			command := exec.Command(path, args...)

			// add log
			logFileName := fmt.Sprintf("xnames_%d.log", time.Now().Unix())
			logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
			if err != nil {
				return err
			}

			command.Stdout = logFile
			command.Stderr = logFile

			if err := command.Start(); err != nil {
				return err
			}
			err = os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", command.Process.Pid)), 0666)
			if err != nil {
				return err
			}

			daemon = false
			os.Exit(0)
		} else {
			runServer()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVarP(&daemon, "daemon", "d", false, "is daemon?")
}

func runServer() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	useSqlite := cfg.Sqlite != ""

	m := xnames.New(cfg.BoltDir, cfg.Mysql, cfg.Sqlite, useSqlite,
		cfg.S3KV.UseS3, cfg.S3KV.AccKey, cfg.S3KV.SecretKey, cfg.S3KV.Prefix, cfg.S3KV.Region, cfg.S3KV.Endpoint,
		cfg.AliyunKV.UseAliyun, cfg.AliyunKV.Endpoint, cfg.AliyunKV.AccKey, cfg.AliyunKV.SecretKey, cfg.AliyunKV.Prefix,
		cfg.MongoDBKV.UseMongoDB, cfg.MongoDBKV.Uri,
		cfg.Kafka.Start, cfg.Kafka.Uri,
		cfg.Marketplace)

	common.NewMetricServer(cfg.MetricPort)
	m.Run(cfg.Port)

	<-signals
	m.Close()
}
