package msgq

import (
    "context"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFIFO(t *testing.T) {
    q := New(0)
    for i := 0; i < 100; i++ {
        require.NoError(t, q.Push([]byte(fmt.Sprint(i))))
    }
    assert.Equal(t, 100, q.Len())
    for i := 0; i < 100; i++ {
        b, ok := q.TryPop()
        require.True(t, ok)
        assert.Equal(t, fmt.Sprint(i), string(b))
    }
    _, ok := q.TryPop()
    assert.False(t, ok)
}

func TestBoundedPush(t *testing.T) {
    q := New(2)
    require.NoError(t, q.Push([]byte("a")))
    require.NoError(t, q.Push([]byte("b")))
    assert.ErrorIs(t, q.Push([]byte("c")), ErrFull)

    done := make(chan error, 1)
    go func() { done <- q.PushWait(context.Background(), []byte("c")) }()
    select {
    case <-done:
        t.Fatalf("PushWait returned while queue full")
    case <-time.After(20 * time.Millisecond):
    }
    b, ok := q.TryPop()
    require.True(t, ok)
    assert.Equal(t, "a", string(b))
    require.NoError(t, <-done)
    assert.Equal(t, 2, q.Len())
}

func TestPopParksUntilPush(t *testing.T) {
    q := New(0)
    got := make(chan []byte, 1)
    go func() {
        b, err := q.Pop(context.Background())
        if err == nil { got <- b }
    }()
    time.Sleep(10 * time.Millisecond)
    require.NoError(t, q.Push([]byte("x")))
    select {
    case b := <-got:
        assert.Equal(t, "x", string(b))
    case <-time.After(time.Second):
        t.Fatalf("Pop did not wake on Push")
    }
}

func TestPopCancel(t *testing.T) {
    q := New(0)
    ctx, cancel := context.WithCancel(context.Background())
    errc := make(chan error, 1)
    go func() { _, err := q.Pop(ctx); errc <- err }()
    cancel()
    select {
    case err := <-errc:
        assert.ErrorIs(t, err, context.Canceled)
    case <-time.After(time.Second):
        t.Fatalf("Pop did not observe cancellation")
    }
}

func TestCloseDrainsThenFails(t *testing.T) {
    q := New(0)
    require.NoError(t, q.Push([]byte("last")))
    q.Close()
    q.Close()
    assert.ErrorIs(t, q.Push([]byte("x")), ErrClosed)

    b, err := q.Pop(context.Background())
    require.NoError(t, err)
    assert.Equal(t, "last", string(b))
    _, err = q.Pop(context.Background())
    assert.ErrorIs(t, err, ErrClosed)
}

func TestManyConsumersSeeEveryItem(t *testing.T) {
    q := New(0)
    const n = 2000
    var mu sync.Mutex
    seen := make(map[string]bool, n)
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    var wg sync.WaitGroup
    for c := 0; c < 4; c++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for {
                b, err := q.Pop(ctx)
                if err != nil { return }
                mu.Lock()
                seen[string(b)] = true
                full := len(seen) == n
                mu.Unlock()
                if full { q.Close() }
            }
        }()
    }
    for i := 0; i < n; i++ {
        require.NoError(t, q.Push([]byte(fmt.Sprint(i))))
    }
    wg.Wait()
    assert.Len(t, seen, n)
}
