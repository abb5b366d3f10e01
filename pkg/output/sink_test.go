package output

import (
	"context"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// fakeS3 records uploads instead of sending them
type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("upload without deadline")
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

// recordingSink counts writes and optionally fails
type recordingSink struct {
	writes int
	err    error
}

func (r *recordingSink) Write(ctx context.Context, name string, frame *renderer.Frame) error {
	r.writes++
	return r.err
}

func TestFileSink_WritesImageAndThumbnail(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	sink := NewFileSink(dir, FormatPPM, 4)

	if err := sink.Write(context.Background(), "test", createTestFrame(8, 6)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "test.ppm"))
	if err != nil {
		t.Fatalf("Output file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "P3\n8 6\n255\n") {
		t.Errorf("Unexpected file contents %q", string(data[:12]))
	}

	thumbFile, err := os.Open(sink.ThumbnailPath("test"))
	if err != nil {
		t.Fatalf("Thumbnail missing: %v", err)
	}
	defer thumbFile.Close()
	thumb, err := png.Decode(thumbFile)
	if err != nil {
		t.Fatalf("Thumbnail is not a PNG: %v", err)
	}
	if thumb.Bounds().Dx() != 4 || thumb.Bounds().Dy() != 3 {
		t.Errorf("Expected 4x3 thumbnail, got %v", thumb.Bounds())
	}
}

func TestFileSink_ReportsUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	sink := NewFileSink(filepath.Join(blocker, "out"), FormatPNG, 0)
	if err := sink.Write(context.Background(), "test", createTestFrame(2, 2)); err == nil {
		t.Error("Expected error when output directory cannot be created")
	}
}

func TestS3Sink_UploadsEncodedFrame(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3Sink(client, "bucket", "renders", FormatPNG)

	if err := sink.Write(context.Background(), "scene", createTestFrame(3, 3)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(client.inputs) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(client.inputs))
	}

	input := client.inputs[0]
	if aws.StringValue(input.Bucket) != "bucket" || aws.StringValue(input.Key) != "renders/scene.png" {
		t.Errorf("Unexpected destination %s/%s", aws.StringValue(input.Bucket), aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/png" {
		t.Errorf("Unexpected content type %s", aws.StringValue(input.ContentType))
	}
	if aws.Int64Value(input.ContentLength) != int64(len(client.bodies[0])) {
		t.Errorf("Content length %d does not match body %d", aws.Int64Value(input.ContentLength), len(client.bodies[0]))
	}
}

func TestS3Sink_WrapsClientErrors(t *testing.T) {
	uploadErr := errors.New("access denied")
	sink := NewS3Sink(&fakeS3{err: uploadErr}, "bucket", "", FormatPPM)

	err := sink.Write(context.Background(), "scene", createTestFrame(1, 1))
	if !errors.Is(err, uploadErr) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
	if !strings.Contains(err.Error(), "scene.ppm") {
		t.Errorf("Error should name the key, got %v", err)
	}
}

func TestMultiSink_StopsAtFirstError(t *testing.T) {
	first := &recordingSink{}
	failing := &recordingSink{err: errors.New("boom")}
	last := &recordingSink{}

	err := MultiSink{first, failing, last}.Write(context.Background(), "x", createTestFrame(1, 1))
	if err == nil {
		t.Fatal("Expected error from failing sink")
	}
	if first.writes != 1 || failing.writes != 1 || last.writes != 0 {
		t.Errorf("Unexpected write counts %d %d %d", first.writes, failing.writes, last.writes)
	}
}
