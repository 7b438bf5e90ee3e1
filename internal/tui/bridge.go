package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	easyapi "github.com/probablyarth/easyapi-go"
)

// stateBridge turns orchestrator state callbacks into bubbletea messages.
// Only the newest snapshot is kept; the program always renders the latest
// state, never a backlog.
type stateBridge[T any] struct {
	mu     sync.Mutex
	latest easyapi.State[T]
	notify chan struct{}
}

func newStateBridge[T any]() *stateBridge[T] {
	return &stateBridge[T]{notify: make(chan struct{}, 1)}
}

// push is registered with OnStateChange. It never blocks.
func (b *stateBridge[T]) push(s easyapi.State[T]) {
	b.mu.Lock()
	if s.Seq > b.latest.Seq {
		b.latest = s
	}
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// wait returns a command that delivers the next snapshot wrapped by wrap.
func (b *stateBridge[T]) wait(wrap func(easyapi.State[T]) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		<-b.notify
		b.mu.Lock()
		s := b.latest
		b.mu.Unlock()
		return wrap(s)
	}
}

// eventBridge forwards observer events, dropping them when the program
// falls behind.
type eventBridge struct {
	ch chan easyapi.EventData
}

func newEventBridge() *eventBridge {
	return &eventBridge{ch: make(chan easyapi.EventData, 32)}
}

func (b *eventBridge) On(e easyapi.EventData) {
	select {
	case b.ch <- e:
	default:
	}
}

func (b *eventBridge) wait() tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-b.ch)
	}
}
