package helpers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyEndToEndHeaders(t *testing.T) {
	t.Run("copies_end_to_end_headers", func(t *testing.T) {
		src := http.Header{}
		src.Set("Content-Type", "application/json")
		src.Set("Accept", "application/json")
		src.Add("X-Custom", "a")
		src.Add("X-Custom", "b")

		dst := http.Header{}
		CopyEndToEndHeaders(dst, src)

		assert.Equal(t, "application/json", dst.Get("Content-Type"))
		assert.Equal(t, "application/json", dst.Get("Accept"))
		assert.Equal(t, []string{"a", "b"}, dst.Values("X-Custom"))
	})

	t.Run("drops_hop_by_hop_headers", func(t *testing.T) {
		src := http.Header{}
		src.Set("Connection", "keep-alive")
		src.Set("Keep-Alive", "timeout=5")
		src.Set("Transfer-Encoding", "chunked")
		src.Set("Upgrade", "h2c")
		src.Set("Content-Type", "text/plain")

		dst := http.Header{}
		CopyEndToEndHeaders(dst, src)

		assert.Empty(t, dst.Get("Connection"))
		assert.Empty(t, dst.Get("Keep-Alive"))
		assert.Empty(t, dst.Get("Transfer-Encoding"))
		assert.Empty(t, dst.Get("Upgrade"))
		assert.Equal(t, "text/plain", dst.Get("Content-Type"))
	})

	t.Run("drops_headers_named_in_connection", func(t *testing.T) {
		src := http.Header{}
		src.Set("Connection", "X-Session-Token, X-Other")
		src.Set("X-Session-Token", "secret")
		src.Set("X-Other", "value")
		src.Set("X-Keep", "kept")

		dst := http.Header{}
		CopyEndToEndHeaders(dst, src)

		assert.Empty(t, dst.Get("X-Session-Token"))
		assert.Empty(t, dst.Get("X-Other"))
		assert.Equal(t, "kept", dst.Get("X-Keep"))
	})

	t.Run("nil_src_is_noop", func(t *testing.T) {
		dst := http.Header{}
		CopyEndToEndHeaders(dst, nil)
		assert.Empty(t, dst)
	})
}

func TestAppendForwardedFor(t *testing.T) {
	t.Run("strips_port_and_sets_header", func(t *testing.T) {
		h := http.Header{}
		AppendForwardedFor(h, "10.0.0.1:52311")
		assert.Equal(t, "10.0.0.1", h.Get(HeaderXForwardedFor))
	})

	t.Run("appends_to_existing_value", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderXForwardedFor, "192.168.0.1")
		AppendForwardedFor(h, "10.0.0.1:52311")
		assert.Equal(t, "192.168.0.1, 10.0.0.1", h.Get(HeaderXForwardedFor))
	})

	t.Run("bare_host_without_port", func(t *testing.T) {
		h := http.Header{}
		AppendForwardedFor(h, "10.0.0.1")
		assert.Equal(t, "10.0.0.1", h.Get(HeaderXForwardedFor))
	})

	t.Run("empty_addr_is_noop", func(t *testing.T) {
		h := http.Header{}
		AppendForwardedFor(h, "")
		assert.Empty(t, h.Get(HeaderXForwardedFor))
	})
}
