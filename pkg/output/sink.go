package output

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/disintegration/imaging"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Sink stores a finished frame under a base name
type Sink interface {
	Write(ctx context.Context, name string, frame *renderer.Frame) error
}

// FileSink writes frames into a local directory
type FileSink struct {
	Dir       string
	Format    Format
	ThumbSize int // Longest side of an extra PNG thumbnail; 0 disables it
}

// NewFileSink creates a sink writing to dir in the given format
func NewFileSink(dir string, format Format, thumbSize int) *FileSink {
	return &FileSink{Dir: dir, Format: format, ThumbSize: thumbSize}
}

// Path returns the file the sink writes for name
func (fs *FileSink) Path(name string) string {
	return filepath.Join(fs.Dir, name+"."+fs.Format.Extension())
}

// ThumbnailPath returns the thumbnail file written for name
func (fs *FileSink) ThumbnailPath(name string) string {
	return filepath.Join(fs.Dir, name+"_thumb.png")
}

func (fs *FileSink) Write(ctx context.Context, name string, frame *renderer.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(fs.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fs.Path(name)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Encode(file, frame, fs.Format); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}

	if fs.ThumbSize > 0 {
		if err := imaging.Save(Thumbnail(frame, fs.ThumbSize), fs.ThumbnailPath(name)); err != nil {
			return fmt.Errorf("failed to write thumbnail: %w", err)
		}
	}
	return nil
}

// ObjectPutter is the part of the S3 API used by S3Sink
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Config holds connection settings for an S3-compatible store
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string // Key prefix, e.g. "renders"
}

// DefaultUploadTimeout bounds a single upload
const DefaultUploadTimeout = 30 * time.Second

// S3Sink uploads encoded frames to a bucket
type S3Sink struct {
	client  ObjectPutter
	bucket  string
	prefix  string
	format  Format
	timeout time.Duration
}

// NewS3Client opens a path-style S3 client for the given settings
func NewS3Client(cfg S3Config) (*s3.S3, error) {
	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}
	return s3.New(sess), nil
}

// NewS3Sink creates a sink uploading through client
func NewS3Sink(client ObjectPutter, bucket, prefix string, format Format) *S3Sink {
	return &S3Sink{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		format:  format,
		timeout: DefaultUploadTimeout,
	}
}

// WithTimeout sets the per-upload timeout
func (ss *S3Sink) WithTimeout(timeout time.Duration) *S3Sink {
	ss.timeout = timeout
	return ss
}

// Key returns the object key used for name
func (ss *S3Sink) Key(name string) string {
	return path.Join(ss.prefix, name+"."+ss.format.Extension())
}

func (ss *S3Sink) Write(ctx context.Context, name string, frame *renderer.Frame) error {
	var buf bytes.Buffer
	if err := Encode(&buf, frame, ss.format); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, ss.timeout)
	defer cancel()

	key := ss.Key(name)
	size := int64(buf.Len())
	_, err := ss.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ss.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ss.format.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Printf("Uploaded %s to S3 (%d bytes)", key, size)
	return nil
}

// MultiSink writes to each sink in order and stops at the first failure
type MultiSink []Sink

func (ms MultiSink) Write(ctx context.Context, name string, frame *renderer.Frame) error {
	for _, sink := range ms {
		if err := sink.Write(ctx, name, frame); err != nil {
			return err
		}
	}
	return nil
}
