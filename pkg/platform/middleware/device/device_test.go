package device

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DeviceSuite struct {
	suite.Suite
}

func TestDeviceSuite(t *testing.T) {
	suite.Run(t, new(DeviceSuite))
}

func (s *DeviceSuite) TestParseUserAgent() {
	s.Run("empty user agent", func() {
		s.Equal("Unknown Client", ParseUserAgent(""))
		s.Equal("Unknown Client", ParseUserAgent("   "))
	})

	s.Run("chrome on desktop includes browser and OS", func() {
		got := ParseUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		s.Contains(got, "Chrome")
		s.Contains(got, " on ")
		s.NotContains(got, "  ")
	})

	s.Run("firefox on linux", func() {
		got := ParseUserAgent("Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
		s.Contains(got, "Firefox")
		s.Contains(got, "Linux")
	})

	s.Run("result is trimmed", func() {
		got := ParseUserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
		s.Equal(strings.TrimSpace(got), got)
		s.NotEmpty(got)
	})
}

func (s *DeviceSuite) TestMiddlewareStoresClient() {
	var seen string
	h := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = Client(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	h.ServeHTTP(httptest.NewRecorder(), req)
	s.Contains(seen, "Firefox")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Del("User-Agent")
	h.ServeHTTP(httptest.NewRecorder(), req)
	s.Equal("Unknown Client", seen)
}

func (s *DeviceSuite) TestClientUnset() {
	s.Empty(Client(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
