package schema

type Config struct {
	Port       string `yaml:"port"`
	MetricPort string `yaml:"metricPort"`
	Mysql      string `yaml:"mysql"`
	Sqlite     string `yaml:"sqlite"` // sqlite dir, used instead of mysql when set

	DeployerKey string `yaml:"deployerKey"` // hex private key used by the client commands
	Marketplace string `yaml:"marketplace"` // marketplace base url
	Grace       uint64 `yaml:"grace"`
	Beneficiary string `yaml:"beneficiary"`
	Royalty     string `yaml:"royalty"`

	BoltDir   string    `yaml:"boltDir"`
	S3KV      S3KV      `yaml:"s3KV"`
	AliyunKV  AliyunKV  `yaml:"aliyunKV"`
	MongoDBKV MongoDBKV `yaml:"mongoDBKV"`

	Kafka Kafka `yaml:"kafka"`
}

type S3KV struct {
	UseS3     bool   `yaml:"useS3"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
}

type AliyunKV struct {
	UseAliyun bool   `yaml:"useAliyun"`
	Endpoint  string `yaml:"endpoint"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
}

type MongoDBKV struct {
	UseMongoDB bool   `yaml:"useMongoDB"`
	Uri        string `yaml:"uri"`
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}
