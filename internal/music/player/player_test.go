package player_test

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/queue"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// scriptedSource is a stream whose end the test controls.
type scriptedSource struct {
	ref string
	end chan struct{}
	err error
}

func (s *scriptedSource) Read(p []byte) (int, error) {
	<-s.end
	return 0, io.EOF
}

func (s *scriptedSource) Close() error { return nil }

type fakeConn struct {
	mu          sync.Mutex
	refs        []string
	active      int
	maxActive   int
	disconnects int
}

func (c *fakeConn) Play(src io.Reader, stop <-chan struct{}, paused func() bool) error {
	s := src.(*scriptedSource)
	c.mu.Lock()
	c.refs = append(c.refs, s.ref)
	c.active++
	if c.active > c.maxActive {
		c.maxActive = c.active
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.active--
		c.mu.Unlock()
	}()
	select {
	case <-stop:
		return nil
	case <-s.end:
		return s.err
	}
}

func (c *fakeConn) Disconnect() error {
	c.mu.Lock()
	c.disconnects++
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) playedRefs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.refs))
	copy(out, c.refs)
	return out
}

func (c *fakeConn) disconnected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnects
}

// concurrentPlays reports the most streams ever pumped at once.
func (c *fakeConn) concurrentPlays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxActive
}

type fakeVoice struct {
	mu      sync.Mutex
	joinErr error
	conn    *fakeConn
	joined  []string
}

func (v *fakeVoice) Join(guildID, channelID string) (player.Conn, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.joinErr != nil {
		return nil, v.joinErr
	}
	if v.conn == nil {
		v.conn = &fakeConn{}
	}
	v.joined = append(v.joined, channelID)
	return v.conn, nil
}

func (v *fakeVoice) joins() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.joined))
	copy(out, v.joined)
	return out
}

type harness struct {
	t            *testing.T
	queue        *queue.Queue
	voice        *fakeVoice
	player       *player.Player
	mu           sync.Mutex
	sources      map[string]*scriptedSource
	openErr      map[string]error
	cleanupGates map[string]chan struct{}
	cleaned      []string
	notes        []string
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:            t,
		queue:        &queue.Queue{},
		voice:        &fakeVoice{},
		sources:      make(map[string]*scriptedSource),
		openErr:      make(map[string]error),
		cleanupGates: make(map[string]chan struct{}),
	}
	open := func(ref string) (io.ReadCloser, func(), error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if err, ok := h.openErr[ref]; ok {
			return nil, nil, err
		}
		src := &scriptedSource{ref: ref, end: make(chan struct{})}
		h.sources[ref] = src
		cleanup := func() {
			h.mu.Lock()
			gate := h.cleanupGates[ref]
			h.mu.Unlock()
			if gate != nil {
				<-gate
			}
			h.mu.Lock()
			h.cleaned = append(h.cleaned, ref)
			h.mu.Unlock()
		}
		return src, cleanup, nil
	}
	notify := func(channelID, message string) {
		h.mu.Lock()
		h.notes = append(h.notes, message)
		h.mu.Unlock()
	}
	h.player = player.New("guild-1", h.queue, h.voice, open, notify)
	t.Cleanup(h.player.Close)
	return h
}

func (h *harness) failOpen(ref string, err error) {
	h.mu.Lock()
	h.openErr[ref] = err
	h.mu.Unlock()
}

// holdCleanup parks the named stream's cleanup until releaseCleanup runs,
// like an ffmpeg teardown that takes its time.
func (h *harness) holdCleanup(ref string) {
	h.mu.Lock()
	h.cleanupGates[ref] = make(chan struct{})
	h.mu.Unlock()
}

func (h *harness) releaseCleanup(ref string) {
	h.mu.Lock()
	gate := h.cleanupGates[ref]
	h.mu.Unlock()
	require.NotNil(h.t, gate, "cleanup for %s was never held", ref)
	close(gate)
}

// endTrack finishes the named stream as if it played out.
func (h *harness) endTrack(ref string) {
	h.mu.Lock()
	src, ok := h.sources[ref]
	h.mu.Unlock()
	require.True(h.t, ok, "no opened source for %s", ref)
	close(src.end)
}

func (h *harness) notifications() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.notes))
	copy(out, h.notes)
	return out
}

func (h *harness) cleanedRefs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.cleaned))
	copy(out, h.cleaned)
	return out
}

func (h *harness) waitCleaned(ref string) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		for _, c := range h.cleanedRefs() {
			if c == ref {
				return true
			}
		}
		return false
	}, waitFor, tick)
}

func (h *harness) waitPlaying(ref string) {
	h.t.Helper()
	require.Eventually(h.t, func() bool {
		refs := h.voice.conn.playedRefs()
		return len(refs) > 0 && refs[len(refs)-1] == ref && h.player.State() == player.StatePlaying
	}, waitFor, tick)
}

func item(ref, title string) queue.Item {
	return queue.Item{StreamRef: ref, Title: title, ReplyTo: "chan-1"}
}

func TestEnqueueStartsPlayback(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Track A"))

	h.waitPlaying("ref-a")
	title, ok := h.player.NowPlaying()
	require.True(t, ok)
	require.Equal(t, "Track A", title)
	require.Equal(t, []string{"vc-1"}, h.voice.joins())
	require.Contains(t, h.notifications(), "🎧 Now playing: **Track A**")
}

func TestConnectStartsQueuedPlayback(t *testing.T) {
	h := newHarness(t)
	h.player.Enqueue(item("ref-a", "Track A"))

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, player.StateIdle, h.player.State())

	require.NoError(t, h.player.Connect("vc-1"))
	h.waitPlaying("ref-a")
}

func TestNaturalEndAdvances(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Track A"), item("ref-b", "Track B"))

	h.waitPlaying("ref-a")
	h.endTrack("ref-a")
	h.waitPlaying("ref-b")

	require.Equal(t, []string{"ref-a", "ref-b"}, h.voice.conn.playedRefs())
	require.Contains(t, h.cleanedRefs(), "ref-a")
}

func TestSkipAdvancesThroughQueue(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"), item("ref-b", "B"), item("ref-c", "C"))

	h.waitPlaying("ref-a")
	require.NoError(t, h.player.Skip())
	h.waitPlaying("ref-b")
	require.Equal(t, 1, h.queue.Len())

	require.NoError(t, h.player.Skip())
	h.waitPlaying("ref-c")
	require.Equal(t, []string{"ref-a", "ref-b", "ref-c"}, h.voice.conn.playedRefs())

	h.endTrack("ref-c")
	require.Eventually(t, func() bool { return h.player.State() == player.StateIdle }, waitFor, tick)
	require.Equal(t, 1, h.voice.conn.disconnected())
}

func TestDrainToIdleDisconnects(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Track A"))

	h.waitPlaying("ref-a")
	h.endTrack("ref-a")

	require.Eventually(t, func() bool { return h.player.State() == player.StateIdle }, waitFor, tick)
	require.Equal(t, 1, h.voice.conn.disconnected())
	_, ok := h.player.NowPlaying()
	require.False(t, ok)
}

func TestStreamErrorAdvances(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"), item("ref-b", "B"))

	h.waitPlaying("ref-a")
	h.mu.Lock()
	h.sources["ref-a"].err = errors.New("stream reset")
	h.mu.Unlock()
	h.endTrack("ref-a")

	h.waitPlaying("ref-b")
}

func TestOpenFailureSkipsToNext(t *testing.T) {
	h := newHarness(t)
	h.failOpen("ref-a", errors.New("403 forbidden"))
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Broken"), item("ref-b", "Good"))

	h.waitPlaying("ref-b")
	require.Equal(t, []string{"ref-b"}, h.voice.conn.playedRefs())
}

func TestOpenFailureDrainsToIdle(t *testing.T) {
	h := newHarness(t)
	h.failOpen("ref-a", errors.New("403 forbidden"))
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Broken"))

	require.Eventually(t, func() bool { return h.player.State() == player.StateIdle }, waitFor, tick)
	require.Equal(t, 1, h.voice.conn.disconnected())
	require.Empty(t, h.voice.conn.playedRefs())
}

func TestEnqueueWhilePlayingDoesNotInterrupt(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"))
	h.waitPlaying("ref-a")

	h.player.Enqueue(item("ref-b", "B"))
	time.Sleep(30 * time.Millisecond)

	require.Equal(t, []string{"ref-a"}, h.voice.conn.playedRefs())
	require.Equal(t, 1, h.queue.Len())

	h.endTrack("ref-a")
	h.waitPlaying("ref-b")
}

func TestStopClearsQueueAndDisconnects(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"), item("ref-b", "B"), item("ref-c", "C"))
	h.waitPlaying("ref-a")

	require.NoError(t, h.player.Stop())
	require.Equal(t, 0, h.queue.Len())
	require.Equal(t, player.StateIdle, h.player.State())
	require.Equal(t, 1, h.voice.conn.disconnected())

	// the cut stream's end report must not restart anything
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, player.StateIdle, h.player.State())
	require.Equal(t, []string{"ref-a"}, h.voice.conn.playedRefs())

	require.ErrorIs(t, h.player.Stop(), player.ErrNotConnected)
}

// The first track's teardown is still running when the user stops and
// starts a fresh session. Its late end report must not touch the new
// session: the replacement keeps playing, stays skippable, and the rest
// of the queue waits its turn.
func TestDelayedTrackEndAfterStopDoesNotInterrupt(t *testing.T) {
	h := newHarness(t)
	h.holdCleanup("ref-a")
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"))
	h.waitPlaying("ref-a")

	require.NoError(t, h.player.Stop())

	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-b", "B"), item("ref-c", "C"))
	h.waitPlaying("ref-b")

	h.releaseCleanup("ref-a")
	h.waitCleaned("ref-a")
	time.Sleep(30 * time.Millisecond)

	title, ok := h.player.NowPlaying()
	require.True(t, ok)
	require.Equal(t, "B", title)
	require.Equal(t, player.StatePlaying, h.player.State())
	require.Equal(t, []string{"ref-a", "ref-b"}, h.voice.conn.playedRefs())
	require.Equal(t, 1, h.queue.Len())
	require.Equal(t, 1, h.voice.conn.disconnected())

	require.NoError(t, h.player.Skip())
	h.waitPlaying("ref-c")
	require.Equal(t, 1, h.voice.conn.concurrentPlays())
}

// Joining with nothing queued must not bounce straight back out; the
// caller's enqueue may still be on its way.
func TestConnectWithEmptyQueueHoldsConnection(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, player.StateConnected, h.player.State())
	require.Equal(t, 0, h.voice.conn.disconnected())
	require.Equal(t, []string{"vc-1"}, h.voice.joins())

	h.player.Enqueue(item("ref-a", "Track A"))
	h.waitPlaying("ref-a")
	require.Equal(t, 1, h.voice.conn.concurrentPlays())
}

func TestStopWhenIdle(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.player.Stop(), player.ErrNotConnected)
}

func TestSkipWhenNothingPlaying(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.player.Skip(), player.ErrNothingPlaying)

	require.NoError(t, h.player.Connect("vc-1"))
	require.ErrorIs(t, h.player.Skip(), player.ErrNothingPlaying)
}

func TestPauseResume(t *testing.T) {
	h := newHarness(t)
	require.ErrorIs(t, h.player.Pause(), player.ErrNothingPlaying)
	require.ErrorIs(t, h.player.Resume(), player.ErrNotPaused)

	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "Track A"))
	h.waitPlaying("ref-a")

	require.NoError(t, h.player.Pause())
	require.Equal(t, player.StatePaused, h.player.State())
	title, ok := h.player.NowPlaying()
	require.True(t, ok)
	require.Equal(t, "Track A", title)

	require.ErrorIs(t, h.player.Pause(), player.ErrAlreadyPaused)

	require.NoError(t, h.player.Resume())
	require.Equal(t, player.StatePlaying, h.player.State())
	require.ErrorIs(t, h.player.Resume(), player.ErrNotPaused)
}

func TestSkipWhilePaused(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	h.player.Enqueue(item("ref-a", "A"), item("ref-b", "B"))
	h.waitPlaying("ref-a")

	require.NoError(t, h.player.Pause())
	require.NoError(t, h.player.Skip())

	h.waitPlaying("ref-b")
}

func TestConnectReusesSameChannel(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.player.Connect("vc-1"))
	require.NoError(t, h.player.Connect("vc-1"))
	require.Equal(t, []string{"vc-1"}, h.voice.joins())

	require.NoError(t, h.player.Connect("vc-2"))
	require.Equal(t, []string{"vc-1", "vc-2"}, h.voice.joins())
}

func TestConnectFailureStaysIdle(t *testing.T) {
	h := newHarness(t)
	h.voice.joinErr = errors.New("join timed out")
	require.Error(t, h.player.Connect("vc-1"))
	require.Equal(t, player.StateIdle, h.player.State())
}
