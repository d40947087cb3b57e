package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	assert.Nil(t, parseTag(nil))
	assert.Equal(t, []string{"currency:0x0", "result:ok"}, parseTag([]string{"currency", "0x0", "result", "ok"}))
	assert.Panics(t, func() { parseTag([]string{"dangling"}) })
}

func TestBumpWithoutAgent(t *testing.T) {
	m := New("auction")
	assert.NotPanics(t, func() {
		m.BumpSum("bid.accepted", 1, "currency", "native")
		m.BumpAvg("open", 3)
		m.BumpHistogram("bid.usd", 12.5)
		m.BumpTime("bid.time").End()
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
