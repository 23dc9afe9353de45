package uploader

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFiles() []File {
	return []File{
		{Name: "cover.JPG", ContentType: "image/jpeg", Size: 5, Body: strings.NewReader("cover")},
		{Name: "stage.png", ContentType: "image/png", Size: 5, Body: strings.NewReader("stage")},
	}
}

func TestEventFolder(t *testing.T) {
	assert.Equal(t, "events/tenant-1", EventFolder("tenant-1"))
}

func TestHTTPUploader_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "events/tenant-1", r.FormValue("folder"))
		assert.Len(t, r.MultipartForm.File["images[]"], 2)
		_, _ = w.Write([]byte(`{"success":true,"uploaded":["https://cdn.test/a.jpg","https://cdn.test/b.png"]}`))
	}))
	defer srv.Close()

	urls, err := NewHTTPUploader(srv.URL).Upload(context.Background(), EventFolder("tenant-1"), testFiles())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/a.jpg", "https://cdn.test/b.png"}, urls)
}

func TestHTTPUploader_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusInternalServerError, ``, "HTTP error: 500"},
		{"endpoint message", http.StatusOK, `{"success":false,"message":"File too large"}`, "File too large"},
		{"default message", http.StatusOK, `{"success":false}`, "Upload failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPUploader(srv.URL).Upload(context.Background(), "events/t", testFiles())
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestHTTPUploader_NoFiles(t *testing.T) {
	_, err := NewHTTPUploader("http://unused").Upload(context.Background(), "events/t", nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

type fakePutter struct {
	keys []string
	err  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.ReadAll(in.Body)
	f.keys = append(f.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := &fakePutter{}
	u := &S3Uploader{client: putter, bucket: "images", publicURL: "https://cdn.test"}

	urls, err := u.Upload(context.Background(), EventFolder("tenant-1"), testFiles())
	require.NoError(t, err)
	require.Len(t, urls, 2)
	require.Len(t, putter.keys, 2)

	assert.True(t, strings.HasPrefix(putter.keys[0], "events/tenant-1/"))
	assert.True(t, strings.HasSuffix(putter.keys[0], ".jpg"))
	assert.True(t, strings.HasSuffix(putter.keys[1], ".png"))
	assert.Equal(t, "https://cdn.test/"+putter.keys[0], urls[0])
}

func TestS3Uploader_Error(t *testing.T) {
	u := &S3Uploader{client: &fakePutter{err: errors.New("access denied")}, bucket: "images", publicURL: "https://cdn.test"}

	_, err := u.Upload(context.Background(), "events/t", testFiles())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{})
	assert.Error(t, err)
}
