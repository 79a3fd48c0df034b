package app

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodiq-go/internal/db"
)

// browserKeys returns subscription keys shaped like a browser's PushManager output.
func browserKeys(t *testing.T) PushKeys {
	t.Helper()
	k, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return PushKeys{
		P256dh: base64.RawURLEncoding.EncodeToString(k.PublicKey().Bytes()),
		Auth:   base64.RawURLEncoding.EncodeToString(auth),
	}
}

func TestSubscribePush_Validation(t *testing.T) {
	a := newTestApp(t)
	uid := registerNGO(t, a, "push@example.com")
	ctx := context.Background()

	err := a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: "not a url", Keys: browserKeys(t)})
	assert.ErrorIs(t, err, ErrValidation)

	err = a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: "https://push.example.com/x"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "p256dh")

	require.NoError(t, a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: "https://push.example.com/x", Keys: browserKeys(t)}))
	require.NoError(t, a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: "https://push.example.com/x", Keys: browserKeys(t)}))

	subs, err := a.Store().Q.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestPushNotifier_Disabled(t *testing.T) {
	a := newTestApp(t)
	assert.False(t, a.Push().Enabled())

	n, err := a.Push().NotifySurplus(context.Background(), db.SurplusBroadcast{ID: 1})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPushNotifier_SendsAndPrunesGone(t *testing.T) {
	var (
		mu   sync.Mutex
		hits = map[string]int{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := newTestApp(t)
	ctx := context.Background()
	uid := registerNGO(t, a, "push@example.com")
	require.NoError(t, a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: srv.URL + "/ok", Keys: browserKeys(t)}))
	require.NoError(t, a.SubscribePush(ctx, uid, PushSubscribeInput{Endpoint: srv.URL + "/gone", Keys: browserKeys(t)}))

	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	cfg := a.Config()
	cfg.VAPIDPublicKey = pub
	cfg.VAPIDPrivateKey = priv
	n := NewPushNotifier(cfg, a.Store().Q, a.Logger())
	require.True(t, n.Enabled())
	assert.Equal(t, pub, n.PublicKey())

	sent, err := n.NotifySurplus(ctx, db.SurplusBroadcast{ID: 7, ItemName: "Rice", Category: "lunch", Quantity: "2kg"})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	subs, err := a.Store().Q.ListPushSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, srv.URL+"/ok", subs[0].Endpoint)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits["/ok"])
	assert.Equal(t, 1, hits["/gone"])
}

// slowPushServer holds every delivery for delay or until the sender gives up.
func slowPushServer(t *testing.T, delay time.Duration) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func enablePush(t *testing.T, a *App) {
	t.Helper()
	priv, pub, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	cfg := a.Config()
	cfg.VAPIDPublicKey = pub
	cfg.VAPIDPrivateKey = priv
	a.push = NewPushNotifier(cfg, a.Store().Q, a.Logger())
}

func TestBroadcastSurplus_DoesNotWaitForPush(t *testing.T) {
	srv, hits := slowPushServer(t, time.Second)

	a := newTestApp(t)
	enablePush(t, a)
	a.pushTimeout = 300 * time.Millisecond

	uid := registerNGO(t, a, "push@example.com")
	for _, p := range []string{"/a", "/b", "/c"} {
		require.NoError(t, a.SubscribePush(context.Background(), uid, PushSubscribeInput{Endpoint: srv.URL + p, Keys: browserKeys(t)}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	id, err := a.BroadcastSurplus(ctx, BroadcastInput{ItemName: "Rice", Category: "lunch", Quantity: "2kg"})
	elapsed := time.Since(start)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.NoError(t, ctx.Err())
	assert.Less(t, elapsed, 200*time.Millisecond)

	// Close waits for the background fan-out, which gives up at its own deadline.
	require.NoError(t, a.Close())
	assert.Less(t, hits.Load(), int32(3))
}

func TestNotifySurplus_StopsWhenContextDone(t *testing.T) {
	srv, hits := slowPushServer(t, time.Second)

	a := newTestApp(t)
	enablePush(t, a)
	uid := registerNGO(t, a, "push@example.com")
	for _, p := range []string{"/a", "/b"} {
		require.NoError(t, a.SubscribePush(context.Background(), uid, PushSubscribeInput{Endpoint: srv.URL + p, Keys: browserKeys(t)}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sent, err := a.Push().NotifySurplus(ctx, db.SurplusBroadcast{ID: 1, ItemName: "Rice"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sent)
	assert.Zero(t, hits.Load())

	ctx, cancel = context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = a.Push().NotifySurplus(ctx, db.SurplusBroadcast{ID: 2, ItemName: "Dal"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())
}
