package services

import (
	"storefront_server/cart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_NamespacesKeysPerSession(t *testing.T) {
	cs, mr := newTestCache(t, testConfig(""))

	a := cs.SessionStore("a")
	b := cs.SessionStore("b")

	require.NoError(t, a.Set(cart.CartKey, `{"items":[]}`))

	got, err := a.Get(cart.CartKey)
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, got)

	got, err = b.Get(cart.CartKey)
	require.NoError(t, err)
	assert.Empty(t, got, "absent keys read as empty")

	assert.True(t, mr.Exists("session:a:cart"))
	assert.False(t, mr.Exists("session:b:cart"))
}

func TestSessionStore_WritesCarryTheSessionTTL(t *testing.T) {
	cs, mr := newTestCache(t, testConfig(""))
	store := cs.SessionStore("s1")

	require.NoError(t, store.Set(cart.LastItemAddedAtKey, "1700000000000"))
	assert.Equal(t, time.Hour, mr.TTL("session:s1:cartLastItemAddedAt"))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Set(cart.CartKey, "{}"))

	// the sibling key is pushed forward with the cart
	assert.Equal(t, time.Hour, mr.TTL("session:s1:cart"))
	assert.Equal(t, time.Hour, mr.TTL("session:s1:cartLastItemAddedAt"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Get(cart.CartKey)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionStore_Remove(t *testing.T) {
	cs, mr := newTestCache(t, testConfig(""))
	store := cs.SessionStore("s1")

	require.NoError(t, store.Set(cart.CartKey, "{}"))
	require.NoError(t, store.Remove(cart.CartKey))
	require.NoError(t, store.Remove(cart.CartKey), "removing twice is fine")

	assert.False(t, mr.Exists("session:s1:cart"))
}

func TestSessionStore_BacksAnEngine(t *testing.T) {
	cs, _ := newTestCache(t, testConfig(""))
	product, err := decodeProduct([]byte(roseJSON))
	require.NoError(t, err)

	first := cart.NewEngine(cs.SessionStore("s1"))
	first.AddItem(*product, 2, nil)

	// a later request rebuilds the cart from Redis
	restored := cart.NewEngine(cs.SessionStore("s1")).Cart()
	require.Len(t, restored.Items, 1)
	assert.Equal(t, 2, restored.ItemCount)
	assert.InDelta(t, 25, restored.Total, 1e-9)

	_, ok := cart.NewEngine(cs.SessionStore("s1")).LastItemAddedAt()
	assert.True(t, ok)
}
