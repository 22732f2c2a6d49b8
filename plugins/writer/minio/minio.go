// Package minio 把分类结果写到 S3 兼容的对象存储。
//
// 对象键为 <KeyPrefix>/<ArtifactID>。对象存储没有原生追加：Append 模式读出已有对象，
// 拼接后整体重新上传（单写者前提下等价于追加）。
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"typefilter/pkg/contract"
)

// Options 为 MinIO Writer 的配置。
type Options struct {
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region,omitempty"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	// KeyPrefix: 对象键前缀（不含首尾斜杠亦可）；为空时直接使用 ArtifactID。
	KeyPrefix string `json:"key_prefix,omitempty"`
	UseSSL    bool   `json:"use_ssl,omitempty"`
	Append    bool   `json:"append,omitempty"`
}

const defaultRegion = "us-east-1"

// objectStore 为 Writer 所需的最小对象存储能力。
type objectStore interface {
	ensureBucket(ctx context.Context) error
	// get 读取对象全部内容；对象不存在时返回 (nil, nil)。
	get(ctx context.Context, key string) ([]byte, error)
	put(ctx context.Context, key string, data []byte) error
	location(key string) string
}

// Writer 实现 contract.Writer。
type Writer struct {
	store     objectStore
	keyPrefix string
	append    bool
}

var (
	_ contract.Writer  = (*Writer)(nil)
	_ contract.Locator = (*Writer)(nil)
)

// New 校验配置并创建客户端；不发起网络请求，bucket 在首次写入时按需创建。
func New(opts *Options) (*Writer, error) {
	if opts == nil {
		return nil, errors.New("writer/minio: options required")
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("writer/minio: endpoint is required")
	}
	access := strings.TrimSpace(opts.AccessKey)
	secret := strings.TrimSpace(opts.SecretKey)
	if access == "" || secret == "" {
		return nil, errors.New("writer/minio: access key and secret key are required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("writer/minio: bucket is required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("writer/minio: init client: %w", err)
	}
	return newWriter(&s3Store{client: client, bucket: bucket, region: region}, opts), nil
}

func newWriter(store objectStore, opts *Options) *Writer {
	return &Writer{
		store:     store,
		keyPrefix: strings.Trim(strings.TrimSpace(opts.KeyPrefix), "/"),
		append:    opts.Append,
	}
}

// Write 上传 r 的全部内容；Append 模式下拼接在已有对象之后。
func (w *Writer) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	key, err := w.objectKey(id)
	if err != nil {
		return err
	}
	if err := w.store.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	var buf bytes.Buffer
	if w.append {
		prev, err := w.store.get(ctx, key)
		if err != nil {
			return err
		}
		buf.Write(prev)
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	return w.store.put(ctx, key, buf.Bytes())
}

// Locate 返回对象的 bucket/key 形式位置。
func (w *Writer) Locate(id contract.ArtifactID) string {
	key, err := w.objectKey(id)
	if err != nil {
		return string(id)
	}
	return w.store.location(key)
}

// objectKey: 统一为正斜杠并清理；空名或落到目录的名称无效。
func (w *Writer) objectKey(id contract.ArtifactID) (string, error) {
	name := strings.ReplaceAll(string(id), "\\", "/")
	if name == "" || strings.HasSuffix(name, "/") {
		return "", contract.ErrPathInvalid
	}
	rel := strings.TrimLeft(path.Clean("/"+name), "/")
	if rel == "" {
		return "", contract.ErrPathInvalid
	}
	if w.keyPrefix == "" {
		return rel, nil
	}
	return w.keyPrefix + "/" + rel, nil
}

// s3Store 基于 minio-go 的 objectStore 实现。
type s3Store struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

func (s *s3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *s3Store) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (s *s3Store) put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

func (s *s3Store) location(key string) string { return s.bucket + "/" + key }
