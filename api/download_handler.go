package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultDownloadName = "Resume.pdf"

var errBlockedHost = errors.New("destination address is not public")

type downloadHandler struct {
	responder  Responder
	logger     zerolog.Logger
	httpClient *http.Client
	allowIP    func(net.IP) bool
	maxSize    int64
}

func newDownloadHandler(httpClient *http.Client, allowIP func(net.IP) bool) downloadHandler {
	logger := log.With().Str("handlerName", "downloadHandler").Logger()
	if httpClient == nil {
		httpClient = guardedHTTPClient(allowIP)
	}

	return downloadHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		httpClient: httpClient,
		allowIP:    allowIP,
		maxSize:    storage.KindResume.MaxSize(),
	}
}

// publicIP rejects loopback, private, link-local (including the cloud
// metadata address), shared and unspecified destinations.
func publicIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return false
	}
	return !sharedAddressSpace.Contains(ip)
}

var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// guardedHTTPClient checks every resolved address, redirects included,
// before connecting. Environment proxies are ignored.
func guardedHTTPClient(allowIP func(net.IP) bool) *http.Client {
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(network, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			if ip := net.ParseIP(host); ip == nil || !allowIP(ip) {
				return errBlockedHost
			}
			return nil
		},
	}

	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			Proxy:               nil,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// attachmentName keeps the base name and drops characters that would break
// the Content-Disposition header.
func attachmentName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return defaultDownloadName
	}
	return name
}

// downloadResume fetches a remote PDF and returns it as an attachment so
// browsers save it instead of opening it.
// @Router /api/download-resume [get]
func (h downloadHandler) downloadResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")
		if rawURL == "" {
			h.responder.WriteValidationError(w, "url", "No URL provided")
			return
		}

		target, err := url.Parse(rawURL)
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Hostname() == "" {
			h.responder.WriteValidationError(w, "url", "Only http and https URLs can be downloaded")
			return
		}
		if ip := net.ParseIP(target.Hostname()); ip != nil && !h.allowIP(ip) {
			h.responder.WriteValidationError(w, "url", "URL host is not allowed")
			return
		}

		filename := defaultDownloadName
		if name := r.URL.Query().Get("filename"); name != "" {
			filename = attachmentName(name)
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to download file", err))
			return
		}

		resp, err := h.httpClient.Do(req)
		if errors.Is(err, errBlockedHost) {
			h.responder.WriteValidationError(w, "url", "URL host is not allowed")
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to fetch file", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to fetch file",
				fmt.Errorf("upstream %s returned %d", target.Host, resp.StatusCode)))
			return
		}

		if resp.ContentLength > h.maxSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxSize))
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
		if resp.ContentLength >= 0 {
			w.Header().Set("Content-Length", fmt.Sprint(resp.ContentLength))
		}
		w.WriteHeader(http.StatusOK)

		n, err := io.Copy(w, io.LimitReader(resp.Body, h.maxSize))
		if err != nil {
			h.logger.Warn().Err(err).Str("host", target.Host).Msg("Download interrupted")
		} else if n == h.maxSize {
			h.logger.Warn().Str("host", target.Host).Int64("limit", h.maxSize).Msg("Download truncated at size limit")
		}
	}
}
