package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_EncodeKeepsOrder(t *testing.T) {
	p := Params{}.Add("sortBy", "price").Add("category", "c1").AddInt("page", 2)

	assert.Equal(t, "sortBy=price&category=c1&page=2", p.Encode())
}

func TestParams_AddSkipsEmpty(t *testing.T) {
	p := Params{}.Add("a", "").Add("b", "0").AddInt("c", 0)

	assert.Equal(t, "b=0", p.Encode())
}

func TestParams_EncodeEscapes(t *testing.T) {
	p := Params{}.Add("q", "jaw crusher&co")

	assert.Equal(t, "q=jaw+crusher%26co", p.Encode())
}

func TestParams_Get(t *testing.T) {
	p := Params{}.Add("a", "1").Add("a", "2")

	v, ok := p.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
}

func TestFromValues(t *testing.T) {
	v := url.Values{"z": {"1"}, "a": {"", "2"}}

	assert.Equal(t, "a=2&z=1", FromValues(v).Encode())
	assert.Nil(t, FromValues(nil))
}
