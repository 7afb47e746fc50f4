package event

import (
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func record(out *[]string, tag string) Handler {
    return func([]byte) { *out = append(*out, tag) }
}

func TestParse(t *testing.T) {
    for _, ev := range All {
        got, err := Parse(ev.String())
        require.NoError(t, err)
        assert.Equal(t, ev, got)
    }
    _, err := Parse("error")
    assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestOnIssuesPerEventIDs(t *testing.T) {
    r := NewRegistry()
    id1, err := r.On(Read, func([]byte) {})
    require.NoError(t, err)
    id2, err := r.On(Read, func([]byte) {})
    require.NoError(t, err)
    idc, err := r.On(Connect, func([]byte) {})
    require.NoError(t, err)

    assert.Equal(t, ListenerID(1), id1)
    assert.Equal(t, ListenerID(2), id2)
    assert.Equal(t, ListenerID(1), idc)

    _, err = r.On(Event(99), func([]byte) {})
    assert.ErrorIs(t, err, ErrInvalidEvent)
    _, err = r.On(Read, nil)
    assert.ErrorIs(t, err, ErrNilHandler)
}

func TestEmitInRegistrationOrder(t *testing.T) {
    r := NewRegistry()
    var got []string
    for _, tag := range []string{"a", "b", "c"} {
        _, err := r.On(Read, record(&got, tag))
        require.NoError(t, err)
    }
    r.Emit(Read, nil)
    assert.Equal(t, []string{"a", "b", "c"}, got)

    // no listeners: no-op
    r.Emit(Write, []byte("x"))
}

func TestRemoveListenerKeepsOthers(t *testing.T) {
    r := NewRegistry()
    var got []string
    ida, _ := r.On(Read, record(&got, "a"))
    idb, _ := r.On(Read, record(&got, "b"))
    idc, _ := r.On(Read, record(&got, "c"))

    require.NoError(t, r.RemoveListener(Read, idb))
    assert.ErrorIs(t, r.RemoveListener(Read, idb), ErrInvalidListenerID)
    assert.ErrorIs(t, r.RemoveListener(Read, 42), ErrInvalidListenerID)
    assert.ErrorIs(t, r.RemoveListener(Connect, ida), ErrInvalidListenerID)
    assert.ErrorIs(t, r.RemoveListener(Event(0), ida), ErrInvalidEvent)

    r.Emit(Read, nil)
    assert.Equal(t, []string{"a", "c"}, got)

    // ids stay stable after an earlier removal
    require.NoError(t, r.RemoveListener(Read, idc))
    got = nil
    r.Emit(Read, nil)
    assert.Equal(t, []string{"a"}, got)
    assert.Equal(t, 1, r.Count(Read))
}

func TestRemoveAllListeners(t *testing.T) {
    r := NewRegistry()
    calls := 0
    for i := 0; i < 3; i++ {
        _, err := r.On(Read, func([]byte) { calls++ })
        require.NoError(t, err)
    }
    require.NoError(t, r.RemoveAllListeners(Read))
    r.Emit(Read, nil)
    assert.Zero(t, calls)
    assert.Zero(t, r.Count(Read))

    // id history is cleared with the listeners
    id, err := r.On(Read, func([]byte) {})
    require.NoError(t, err)
    assert.Equal(t, ListenerID(1), id)

    assert.ErrorIs(t, r.RemoveAllListeners(Event(-1)), ErrInvalidEvent)
}

func TestHandlerMayMutateRegistry(t *testing.T) {
    r := NewRegistry()
    var got []string
    var self ListenerID
    self, _ = r.On(Connect, func([]byte) {
        got = append(got, "once")
        _ = r.RemoveListener(Connect, self)
        _, _ = r.On(Connect, record(&got, "late"))
    })
    r.Emit(Connect, nil)
    assert.Equal(t, []string{"once"}, got)
    r.Emit(Connect, nil)
    assert.Equal(t, []string{"once", "late"}, got)
}

func TestConcurrentOnAndEmit(t *testing.T) {
    r := NewRegistry()
    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(2)
        go func() {
            defer wg.Done()
            for j := 0; j < 100; j++ {
                id, err := r.On(Data, func([]byte) {})
                if err == nil { _ = r.RemoveListener(Data, id) }
            }
        }()
        go func() {
            defer wg.Done()
            for j := 0; j < 100; j++ { r.Emit(Data, []byte{1}) }
        }()
    }
    wg.Wait()
    assert.Zero(t, r.Count(Data))
}
