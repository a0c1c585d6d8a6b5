package api

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allowAnyIP(net.IP) bool { return true }

func serveDownload(h downloadHandler, query url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/download-resume?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.downloadResume().ServeHTTP(rec, req)
	return rec
}

func TestDownloadResume(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake resume")
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pdf)
	}))
	defer upstream.Close()

	// the upstream listens on loopback, so these cases skip the address guard
	h := newDownloadHandler(nil, allowAnyIP)

	t.Run("proxies as attachment", func(t *testing.T) {
		rec := serveDownload(h, url.Values{"url": {upstream.URL + "/cv.pdf"}, "filename": {`../"Ada CV".pdf`}})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="Ada CV.pdf"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, pdf, rec.Body.Bytes())
	})

	t.Run("default filename", func(t *testing.T) {
		rec := serveDownload(h, url.Values{"url": {upstream.URL + "/cv.pdf"}})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "attachment; filename=Resume.pdf", rec.Header().Get("Content-Disposition"))
	})

	t.Run("upstream error", func(t *testing.T) {
		rec := serveDownload(h, url.Values{"url": {upstream.URL + "/missing.pdf"}})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch file", decodeEnvelope(t, rec).Error)
	})

	t.Run("oversized file", func(t *testing.T) {
		small := newDownloadHandler(nil, allowAnyIP)
		small.maxSize = 4

		rec := serveDownload(small, url.Values{"url": {upstream.URL + "/cv.pdf"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, rec.Body.String(), "fake resume")
	})
}

func TestDownloadResume_RejectsURLs(t *testing.T) {
	env := newTestEnv(t)

	for name, raw := range map[string]string{
		"missing": "",
		"file":    "file:///etc/passwd",
		"no host": "http://",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/download-resume?"+url.Values{"url": {raw}}.Encode(), nil, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDownloadResume_BlocksInternalAddresses(t *testing.T) {
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("AWS_SECRET=internal-only"))
	}))
	defer internal.Close()

	env := newTestEnv(t)

	for name, raw := range map[string]string{
		"loopback": internal.URL + "/latest/meta-data",
		"metadata": "http://169.254.169.254/latest/meta-data/",
		"private":  "http://10.0.0.8/cv.pdf",
		"ipv6":     "http://[::1]/cv.pdf",
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/download-resume?"+url.Values{"url": {raw}}.Encode(), nil, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "url", decodeEnvelope(t, rec).Field)
			assert.NotContains(t, rec.Body.String(), "internal-only")
		})
	}

	t.Run("hostname resolving to loopback", func(t *testing.T) {
		_, port, err := net.SplitHostPort(internal.Listener.Addr().String())
		require.NoError(t, err)

		raw := "http://localhost:" + port + "/latest/meta-data"
		rec := env.do(t, http.MethodGet, "/api/download-resume?"+url.Values{"url": {raw}}.Encode(), nil, "")

		assert.NotEqual(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "internal-only")
	})
}

func TestPublicIP(t *testing.T) {
	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.1", "172.16.0.1", "169.254.169.254", "100.64.0.1", "0.0.0.0", "::1", "fe80::1", "fd00::1"} {
		assert.False(t, publicIP(net.ParseIP(ip)), ip)
	}
	for _, ip := range []string{"93.184.216.34", "8.8.8.8", "2606:4700::1111"} {
		assert.True(t, publicIP(net.ParseIP(ip)), ip)
	}
}

func TestAttachmentName(t *testing.T) {
	assert.Equal(t, "cv.pdf", attachmentName("/tmp/cv.pdf"))
	assert.Equal(t, "cv.pdf", attachmentName(`C:\docs\cv.pdf`))
	assert.Equal(t, "Resume.pdf", attachmentName(`"`))
	assert.Equal(t, "a b.pdf", attachmentName("a b.pdf"))
}
