package sdk_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/engine"
	"github.com/celerix-dev/drowsewatch/internal/server"
	"github.com/celerix-dev/drowsewatch/pkg/schema"
	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var masterKey = []byte("thisis32byteslongsecretkey123456")

func TestGenericGetSet(t *testing.T) {
	ctx := context.Background()
	store := engine.NewMemStore(nil, nil)

	users := []schema.User{{ID: "8", FullName: "Mark Wilburg", Name: "markwilb52", Status: schema.StatusActive, Role: schema.RoleUser}}
	require.NoError(t, sdk.Set(ctx, store, sdk.UsersKey, users))

	got, err := sdk.Get[[]schema.User](ctx, store, sdk.UsersKey)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	_, err = sdk.Get[[]schema.User](ctx, store, sdk.ArchivedUsersKey)
	assert.ErrorIs(t, err, sdk.ErrKeyNotFound)
}

func TestGenericGet_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store := engine.NewMemStore(map[string][]byte{sdk.UsersKey: []byte(`{"id":`)}, nil)

	_, err := sdk.Get[[]schema.User](ctx, store, sdk.UsersKey)
	assert.ErrorIs(t, err, sdk.ErrCorruptValue)
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, sdk.ValidateKey("archivedUsers"))
	assert.NoError(t, sdk.ValidateKey("test_users-2"))
	assert.ErrorIs(t, sdk.ValidateKey(""), sdk.ErrInvalidKey)
	assert.ErrorIs(t, sdk.ValidateKey("a/b"), sdk.ErrInvalidKey)
}

func TestVault(t *testing.T) {
	ctx := context.Background()
	inner := engine.NewMemStore(nil, nil)

	v, err := sdk.Vault(inner, masterKey)
	require.NoError(t, err)

	require.NoError(t, v.Write(ctx, sdk.UsersKey, []byte(`[{"email":"mj877@gmail.com"}]`)))

	raw, err := inner.Read(ctx, sdk.UsersKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "mj877")

	plain, err := v.Read(ctx, sdk.UsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"email":"mj877@gmail.com"}]`, string(plain))

	keys, err := v.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sdk.UsersKey}, keys)
}

func TestVault_RejectsPlaintextAndWrongKey(t *testing.T) {
	ctx := context.Background()
	inner := engine.NewMemStore(map[string][]byte{sdk.UsersKey: []byte(`[]`)}, nil)

	v, err := sdk.Vault(inner, masterKey)
	require.NoError(t, err)
	_, err = v.Read(ctx, sdk.UsersKey)
	assert.ErrorIs(t, err, sdk.ErrCorruptValue)

	require.NoError(t, v.Write(ctx, sdk.ArchivedUsersKey, []byte(`[]`)))
	other, err := sdk.Vault(inner, []byte("another32byteslongsecretkey65432"))
	require.NoError(t, err)
	_, err = other.Read(ctx, sdk.ArchivedUsersKey)
	assert.ErrorIs(t, err, sdk.ErrCorruptValue)

	_, err = sdk.Vault(inner, []byte("short"))
	assert.Error(t, err)
}

func serve(t *testing.T, store sdk.RecordStore) string {
	t.Helper()
	router := server.NewRouter(store, zerolog.Nop())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go router.HandleConnection(conn)
		}
	}()
	return listener.Addr().String()
}

func TestClient_Integration(t *testing.T) {
	ctx := context.Background()
	backing := engine.NewMemStore(nil, nil)
	addr := serve(t, backing)

	client, err := sdk.Connect(addr, sdk.WithTLS(false))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Ping(ctx))

	_, err = client.Read(ctx, sdk.UsersKey)
	assert.ErrorIs(t, err, sdk.ErrKeyNotFound)

	users := []schema.User{{ID: "1", FullName: "Jeffrey Dahmer", JoinedDate: schema.NewDate(2025, time.March, 13)}}
	require.NoError(t, sdk.Set(ctx, client, sdk.UsersKey, users))

	got, err := sdk.Get[[]schema.User](ctx, client, sdk.UsersKey)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	// The daemon holds the same bytes the client wrote.
	local, err := sdk.Get[[]schema.User](ctx, backing, sdk.UsersKey)
	require.NoError(t, err)
	assert.Equal(t, users, local)

	keys, err := client.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{sdk.UsersKey}, keys)

	assert.ErrorIs(t, client.Write(ctx, "bad key", []byte(`[]`)), sdk.ErrInvalidKey)
	assert.Error(t, client.Write(ctx, sdk.UsersKey, []byte(`{oops`)))
}

func TestClient_VaultOverRemote(t *testing.T) {
	ctx := context.Background()
	addr := serve(t, engine.NewMemStore(nil, nil))

	client, err := sdk.Connect(addr, sdk.WithTLS(false))
	require.NoError(t, err)
	defer client.Close()

	v, err := sdk.Vault(client, masterKey)
	require.NoError(t, err)
	require.NoError(t, v.Write(ctx, sdk.ArchivedUsersKey, []byte(`[{"id":"4"}]`)))

	plain, err := v.Read(ctx, sdk.ArchivedUsersKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"4"}]`, string(plain))
}

func TestClient_HonoursContext(t *testing.T) {
	addr := serve(t, engine.NewMemStore(nil, nil))

	client, err := sdk.Connect(addr, sdk.WithTLS(false))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Read(ctx, sdk.UsersKey)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_ServerGone(t *testing.T) {
	router := server.NewRouter(engine.NewMemStore(nil, nil), zerolog.Nop())
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	go func() {
		conn, _ := listener.Accept()
		if conn != nil {
			router.HandleConnection(conn)
		}
	}()

	client, err := sdk.Connect(addr, sdk.WithTLS(false))
	require.NoError(t, err)
	defer client.Close()
	listener.Close()

	// Whatever the first call does, a dead server must surface as an error, not a panic.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = client.Write(ctx, sdk.UsersKey, []byte(`[]`))
}
