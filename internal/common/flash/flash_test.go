package flash

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saved = Message{
	Title:   "¡Guardado Correctamente!",
	Message: "Siniestro procesado",
	Variant: "success",
}

func TestMemoryStore_PopOnce(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	id, err := store.Put(ctx, saved)
	require.NoError(t, err)

	msg, err := store.Pop(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, saved, *msg)

	msg, err = store.Pop(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestRedisStore_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "", time.Minute)
	ctx := context.Background()

	id, err := store.Put(ctx, saved)
	require.NoError(t, err)
	assert.True(t, mr.Exists("flash:"+id))

	msg, err := store.Pop(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, saved.Message, msg.Message)
	assert.False(t, mr.Exists("flash:"+id))
}

func TestRedisStore_Expires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "flash:", time.Minute)
	ctx := context.Background()

	id, err := store.Put(ctx, saved)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	msg, err := store.Pop(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestRedisStore_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(db, "flash:", time.Minute)

	mock.Regexp().ExpectSet(`flash:.*`, `.*`, time.Minute).SetErr(errors.New("connection refused"))

	_, err := store.Put(context.Background(), saved)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestPopFromRequest(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	id, err := store.Put(ctx, saved)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	w := httptest.NewRecorder()

	msg, err := PopFromRequest(ctx, store, w, r)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "Siniestro procesado", msg.Message)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestPopFromRequest_NoCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	msg, err := PopFromRequest(context.Background(), NewMemoryStore(time.Minute), httptest.NewRecorder(), r)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}

func TestPopFromRequest_ForgedCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "../etc"})

	msg, err := PopFromRequest(context.Background(), NewMemoryStore(time.Minute), httptest.NewRecorder(), r)
	assert.NoError(t, err)
	assert.Nil(t, msg)
}
