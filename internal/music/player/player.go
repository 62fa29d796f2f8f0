package player

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/felixmachan/dc-bot/internal/music/queue"
)

// State is a guild's position in the playback lifecycle.
type State int

const (
	// StateIdle means no voice connection is held.
	StateIdle State = iota
	// StateConnected means a voice connection is held with nothing streaming.
	StateConnected
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnected:
		return "connected"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

var (
	ErrNothingPlaying = errors.New("no track is currently playing")
	ErrAlreadyPaused  = errors.New("playback is already paused")
	ErrNotPaused      = errors.New("playback is not paused")
	ErrNotConnected   = errors.New("not in a voice channel")
)

// Conn is an established voice session for one guild.
type Conn interface {
	// Play pumps src to the voice channel until the source ends or stop
	// is closed. paused is polled; while it reports true no audio is
	// consumed.
	Play(src io.Reader, stop <-chan struct{}, paused func() bool) error
	Disconnect() error
}

// Voice establishes guild voice connections. Join waits are bounded by the
// implementation; a timeout comes back as an error.
type Voice interface {
	Join(guildID, channelID string) (Conn, error)
}

// Opener turns a queue item's stream reference into PCM audio.
type Opener func(streamRef string) (io.ReadCloser, func(), error)

// Notifier delivers a status line to the text channel a request came from.
type Notifier func(channelID, message string)

// Player owns one guild's playback: the voice connection, the now-playing
// marker and the consumption of the guild's queue. Every advance runs on
// the player's own loop goroutine, so two items can never be dequeued and
// raced onto the single audio stream.
type Player struct {
	guildID string
	queue   *queue.Queue
	voice   Voice
	open    Opener
	notify  Notifier

	mu         sync.Mutex
	state      State
	conn       Conn
	channelID  string
	nowPlaying string
	stopStream chan struct{} // closed to cut the active stream; nil when none
	session    uint64        // bumped on every bind and stop; a track-end acts only while its session is current

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates the player for a guild and starts its control loop.
func New(guildID string, q *queue.Queue, voice Voice, open Opener, notify Notifier) *Player {
	p := &Player{
		guildID: guildID,
		queue:   q,
		voice:   voice,
		open:    open,
		notify:  notify,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.loop()
	return p
}

// Close stops the control loop. The voice connection, if any, is left to
// Stop or session teardown.
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
}

// loop serializes every advance for this guild. Wake signals coalesce,
// they never overlap.
func (p *Player) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.advance()
		case <-p.quit:
			return
		}
	}
}

func (p *Player) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Connect joins the guild voice channel, reusing a live connection to the
// same channel. Reported failures leave the player idle.
func (p *Player) Connect(channelID string) error {
	p.mu.Lock()
	if p.conn != nil && p.channelID == channelID {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	conn, err := p.voice.Join(p.guildID, channelID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.conn = conn
	p.channelID = channelID
	if p.state == StateIdle {
		p.state = StateConnected
	}
	pending := p.queue.Len() > 0
	p.mu.Unlock()

	log.Printf("[Player] Joined voice channel | guild=%s channel=%s", p.guildID, channelID)
	if pending {
		p.signal() // anything queued before the join can start now
	}
	return nil
}

// Enqueue appends items to the guild queue and nudges the loop in case
// nothing is playing. Safe to call at any state.
func (p *Player) Enqueue(items ...queue.Item) {
	if len(items) == 0 {
		return
	}
	p.queue.Push(items...)
	log.Printf("[Player] Added %d track(s) to queue | guild=%s queueLen=%d", len(items), p.guildID, p.queue.Len())
	p.signal()
}

// advance is the single state-machine step: bind the next queued item to
// the voice connection, or idle out when the queue is empty. Runs only on
// the loop goroutine.
func (p *Player) advance() {
	for {
		p.mu.Lock()
		if p.state == StatePlaying || p.state == StatePaused {
			p.mu.Unlock()
			return // busy; the running track's end will wake us again
		}
		if p.state == StateIdle || p.conn == nil {
			p.mu.Unlock()
			return // no voice connection to bind to
		}
		// Pop under the player lock so a concurrent Stop either clears
		// this item first or sees it already dequeued, never half of each.
		sess := p.session
		item, ok := p.queue.Pop()
		if !ok {
			// drained; release the connection in the same critical
			// section so nothing can bind to it first
			conn := p.conn
			p.conn = nil
			p.channelID = ""
			p.state = StateIdle
			p.nowPlaying = ""
			p.mu.Unlock()
			if conn != nil {
				log.Printf("[Player] Queue empty, leaving voice channel | guild=%s", p.guildID)
				if err := conn.Disconnect(); err != nil {
					log.Printf("[Player] Disconnect failed: %v | guild=%s", err, p.guildID)
				}
			}
			return
		}
		p.mu.Unlock()

		src, cleanup, err := p.open(item.StreamRef)
		if err != nil {
			log.Printf("[Player] Dropping unplayable track %q: %v | guild=%s", item.Title, err, p.guildID)
			continue
		}

		p.mu.Lock()
		if p.session != sess || p.state != StateConnected || p.conn == nil {
			// a stop landed while the source was opening; it cleared the
			// queue this item came from, so the item dies with it
			p.mu.Unlock()
			src.Close()
			if cleanup != nil {
				cleanup()
			}
			return
		}
		conn := p.conn
		stop := make(chan struct{})
		p.session++
		sess = p.session
		p.state = StatePlaying
		p.nowPlaying = item.Title
		p.stopStream = stop
		p.mu.Unlock()

		log.Printf("[Player] Now playing %q | guild=%s queueLen=%d", item.Title, p.guildID, p.queue.Len())
		if p.notify != nil {
			p.notify(item.ReplyTo, "🎧 Now playing: **"+item.Title+"**")
		}

		go p.stream(conn, src, cleanup, stop, item.Title, sess)
		return
	}
}

// stream pumps one track and reports its end to the loop. Natural end,
// skip and stream error all land here; the loop treats them alike.
func (p *Player) stream(conn Conn, src io.ReadCloser, cleanup func(), stop <-chan struct{}, title string, sess uint64) {
	err := conn.Play(src, stop, p.isPaused)
	src.Close()
	if cleanup != nil {
		cleanup()
	}
	if err != nil {
		log.Printf("[Player] Playback of %q ended with error: %v | guild=%s", title, err, p.guildID)
	}

	// Only the current session reports a track end. A stop followed by a
	// replay can bind a new track while this goroutine is still closing
	// its source; that end belongs to the new session, not this one.
	p.mu.Lock()
	current := p.session == sess
	if current && (p.state == StatePlaying || p.state == StatePaused) {
		p.state = StateConnected
		p.nowPlaying = ""
		p.stopStream = nil
	}
	p.mu.Unlock()

	if current {
		p.signal()
	}
}

// Skip cuts the current track; the loop then advances as if it had ended.
func (p *Player) Skip() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying && p.state != StatePaused {
		return ErrNothingPlaying
	}
	if p.stopStream != nil {
		close(p.stopStream)
		p.stopStream = nil
	}
	return nil
}

// Stop halts playback, clears the queue and leaves the voice channel. A
// track-end that was already in flight belongs to a superseded session
// and does not restart anything.
func (p *Player) Stop() error {
	p.mu.Lock()
	if p.state == StateIdle {
		p.mu.Unlock()
		return ErrNotConnected
	}
	if p.stopStream != nil {
		close(p.stopStream)
		p.stopStream = nil
	}
	p.session++
	conn := p.conn
	p.conn = nil
	p.channelID = ""
	p.state = StateIdle
	p.nowPlaying = ""
	dropped := p.queue.Clear()
	p.mu.Unlock()

	if conn != nil {
		if err := conn.Disconnect(); err != nil {
			log.Printf("[Player] Disconnect failed: %v | guild=%s", err, p.guildID)
		}
	}
	log.Printf("[Player] Stopped | guild=%s droppedTracks=%d", p.guildID, dropped)
	return nil
}

// Pause suspends the running track without dequeuing it.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StatePlaying:
		p.state = StatePaused
		return nil
	case StatePaused:
		return ErrAlreadyPaused
	default:
		return ErrNothingPlaying
	}
}

// Resume continues a paused track.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePaused {
		return ErrNotPaused
	}
	p.state = StatePlaying
	return nil
}

// Queue returns the guild queue this player consumes.
func (p *Player) Queue() *queue.Queue {
	return p.queue
}

// NowPlaying returns the current track title; ok is false when idle.
func (p *Player) NowPlaying() (title string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePlaying && p.state != StatePaused {
		return "", false
	}
	return p.nowPlaying, true
}

// State returns the guild's current lifecycle state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePaused
}
