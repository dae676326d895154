package s3_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/config"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/domain"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/port"
	s3storage "github.com/abasis-ltd/gtfs.guru-sub001/internal/storage/s3"
)

const noSuchKey = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

// fakeS3 serves a single bucket over the path-style S3 REST layout.
func fakeS3(t *testing.T, objects map[string]string, uploaded map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/feeds/")
		switch r.Method {
		case http.MethodGet:
			body, ok := objects[key]
			if !ok {
				w.Header().Set("Content-Type", "application/xml")
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, noSuchKey)
				return
			}
			_, _ = io.WriteString(w, body)
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			uploaded[key] = string(b)
			w.Header().Set("ETag", `"abc"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, endpoint string, maxBytes int64) port.ObjectStorage {
	t.Helper()
	client, err := s3storage.NewS3Client(&config.S3Config{
		Region:    "us-east-1",
		Bucket:    "feeds",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "test",
	}, maxBytes)
	require.NoError(t, err)
	return client
}

func TestS3Client_Download(t *testing.T) {
	srv := fakeS3(t, map[string]string{"in/feed.zip": "PK-data"}, nil)
	client := newClient(t, srv.URL, 1024)

	data, err := client.Download(context.Background(), "feeds", "in/feed.zip")
	require.NoError(t, err)
	assert.Equal(t, "PK-data", string(data))

	_, err = client.Download(context.Background(), "feeds", "in/missing.zip")
	assert.ErrorIs(t, err, domain.ErrFeedNotFound)
}

func TestS3Client_DownloadTooLarge(t *testing.T) {
	srv := fakeS3(t, map[string]string{"big.zip": strings.Repeat("x", 64)}, nil)
	client := newClient(t, srv.URL, 16)

	_, err := client.Download(context.Background(), "feeds", "big.zip")
	assert.ErrorIs(t, err, domain.ErrArchiveTooLarge)
}

func TestS3Client_UploadAndPresign(t *testing.T) {
	uploaded := map[string]string{}
	srv := fakeS3(t, nil, uploaded)
	client := newClient(t, srv.URL, 0)

	out, err := client.Upload(context.Background(), port.UploadInput{
		Bucket:      "feeds",
		Key:         "reports/run.json",
		Body:        strings.NewReader(`{"summary":{}}`),
		ContentType: "application/json",
		Size:        14,
	})
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, out.ETag)
	assert.Contains(t, uploaded["reports/run.json"], `{"summary":{}}`)

	url, err := client.GetPresignedURL(context.Background(), "feeds", "reports/run.json", 60)
	require.NoError(t, err)
	assert.Contains(t, url, srv.URL+"/feeds/reports/run.json")
	assert.Contains(t, url, "X-Amz-Expires=60")
}
