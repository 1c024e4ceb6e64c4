package server

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/engine"
	"github.com/celerix-dev/drowsewatch/pkg/sdk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRouter runs the router on a random port and returns its address.
func startRouter(t *testing.T, store sdk.RecordStore) string {
	t.Helper()
	router := NewRouter(store, zerolog.Nop())
	go router.Listen("0")

	var addr string
	for i := 0; i < 20; i++ {
		time.Sleep(25 * time.Millisecond)
		if a := router.Addr(); a != nil {
			addr = fmt.Sprintf("127.0.0.1:%d", a.(*net.TCPAddr).Port)
			break
		}
	}
	require.NotEmpty(t, addr, "server did not start in time")
	t.Cleanup(func() { router.Stop() })
	return addr
}

func TestRouter_TCP_Commands(t *testing.T) {
	addr := startRouter(t, engine.NewMemStore(nil, nil))

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	reader := bufio.NewReader(conn)

	send := func(cmd string) string {
		fmt.Fprintf(conn, "%s\n", cmd)
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		return line
	}

	assert.Equal(t, "PONG\n", send("PING"))
	assert.Equal(t, "ERR key not found\n", send("READ users"))
	assert.Equal(t, "OK\n", send(`WRITE users [{"id":"1","fullName":"Mark  Wilburg"}]`))
	assert.Equal(t, "OK [{\"id\":\"1\",\"fullName\":\"Mark  Wilburg\"}]\n", send("READ users"))
	assert.Equal(t, "OK [\"users\"]\n", send("KEYS"))
	assert.Equal(t, "ERR invalid json value\n", send("WRITE users {invalid}"))
	assert.Equal(t, "ERR invalid key\n", send("WRITE ../x []"))
	assert.Equal(t, "ERR unknown command\n", send("DROP users"))
}

func TestRouter_EmptyKeys(t *testing.T) {
	addr := startRouter(t, engine.NewMemStore(nil, nil))

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	fmt.Fprintf(conn, "KEYS\n")
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "OK []\n", line)
}

func TestRouter_ManyConnections(t *testing.T) {
	addr := startRouter(t, engine.NewMemStore(nil, nil))

	conns := make([]net.Conn, 0)
	for i := 0; i < 110; i++ {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conns = append(conns, conn)
		}
	}
	for _, c := range conns {
		c.Close()
	}

	// The listener keeps serving after the burst.
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	fmt.Fprintf(conn, "PING\n")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "PONG\n", line)
}

func TestRouter_CorruptStoredValue(t *testing.T) {
	store := engine.NewMemStore(map[string][]byte{sdk.UsersKey: []byte("{not json")}, nil)
	addr := startRouter(t, store)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	fmt.Fprintf(conn, "READ users\n")
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ERR corrupt stored value\n", line)
}
