package rawdb

import (
	"bytes"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/everFinance/xnames/schema"
)

// refer https://help.aliyun.com/document_detail/32157.html?spm=a2c4g.11186623.0.0.1a4b32bcxaC4kR
const (
	ossErrorNoSuchKey = "NoSuchKey"
	AliyunType        = "aliyun"
)

type AliyunDB struct {
	bucketPrefix string
	client       *oss.Client
	journal      *journal
}

func NewAliyunDB(endpoint, accKey, accessKeySecret, bktPrefix string) (*AliyunDB, error) {
	client, err := oss.New(endpoint, accKey, accessKeySecret)
	if err != nil {
		return nil, err
	}

	err = createAliyunBucket(client, bktPrefix)
	if err != nil {
		return nil, err
	}

	db := &AliyunDB{
		bucketPrefix: bktPrefix,
		client:       client,
	}
	if db.journal, err = newJournal(db); err != nil {
		return nil, err
	}
	log.Info("run with aliyun oss success")
	return db, nil
}

func (a *AliyunDB) Type() string {
	return AliyunType
}

func (a *AliyunDB) Put(bucket, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	return a.WriteBatch([]schema.KVOp{{Bucket: bucket, Key: key, Value: value}})
}

func (a *AliyunDB) put(bucket, key string, value []byte) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return err
	}
	return bkt.PutObject(key, bytes.NewReader(value))
}

func (a *AliyunDB) Get(bucket, key string) ([]byte, error) {
	if err := a.journal.ready(); err != nil {
		return nil, err
	}
	return a.get(bucket, key)
}

func (a *AliyunDB) get(bucket, key string) (data []byte, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}

	body, err := bkt.GetObject(key)
	if err != nil {
		// handleOSSErr make file non-existent errors converted to schema.ErrNotExist
		return nil, handleOSSErr(err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(body)

	data, err = io.ReadAll(body)
	return
}

func (a *AliyunDB) GetAllKey(bucket string) (keys []string, err error) {
	if err = a.journal.ready(); err != nil {
		return
	}
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}

	keys = make([]string, 0)

	continueToken := ""
	var lsRes oss.ListObjectsResultV2

	for {
		lsRes, err = bkt.ListObjectsV2(oss.ContinuationToken(continueToken))
		if err != nil {
			break
		}
		for _, object := range lsRes.Objects {
			keys = append(keys, object.Key)
		}
		if !lsRes.IsTruncated {
			break
		}
		continueToken = lsRes.NextContinuationToken
	}
	return
}

func (a *AliyunDB) Delete(bucket, key string) error {
	return a.WriteBatch([]schema.KVOp{{Bucket: bucket, Key: key}})
}

func (a *AliyunDB) del(bucket, key string) (err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return
	}

	return bkt.DeleteObject(key)
}

// WriteBatch is all-or-nothing through the undo journal.
func (a *AliyunDB) WriteBatch(ops []schema.KVOp) error {
	return a.journal.writeBatch(ops)
}

func (a *AliyunDB) Exist(bucket, key string) bool {
	if a.journal.ready() != nil {
		return false
	}
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, bucket))
	if err != nil {
		return false
	}
	exist, _ := bkt.IsObjectExist(key)
	return exist
}

func (a *AliyunDB) Close() (err error) {
	return
}

func createAliyunBucket(svc *oss.Client, prefix string) error {
	ownBuckets, err := getBucketWithPrefix(svc, prefix)
	if err != nil {
		return err
	}

	for _, bucketName := range schema.AllBuckets {
		s3Bkt := getS3Bucket(prefix, bucketName) // oss bucket name only accept lower case
		if !ownBuckets[s3Bkt] {
			err := svc.CreateBucket(s3Bkt)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func getBucketWithPrefix(svc *oss.Client, prefix string) (map[string]bool, error) {
	res := make(map[string]bool)

	lsRes, err := svc.ListBuckets(oss.Prefix(prefix))
	if err != nil {
		return nil, err
	}

	for _, bucket := range lsRes.Buckets {
		res[bucket.Name] = true
	}

	return res, nil
}

func handleOSSErr(ossErr error) (err error) {
	switch e := ossErr.(type) {
	case oss.ServiceError:
		if e.Code == ossErrorNoSuchKey {
			return schema.ErrNotExist
		}
		return ossErr
	default:
		return ossErr
	}
}
