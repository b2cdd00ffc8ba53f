package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/worker"
)

// tickInterval drives the worker-response drain at roughly 60Hz: fast
// enough to feel immediate, slow enough not to busy-loop the terminal.
const tickInterval = 16 * time.Millisecond

// tickMsg drives the non-blocking worker-response drain each frame.
type tickMsg time.Time

// Model is the bubbletea entrypoint: application State plus everything
// needed to talk to the background worker and render the terminal.
type Model struct {
	state    *State
	worker   *worker.Worker
	width    int
	height   int
	quitting bool
	lastErr  error

	// pendingMailbox is the `tui -m` starting mailbox, applied to the
	// cursor once the first ResponseMailboxes lands (the tree is empty
	// until then).
	pendingMailbox mailbox.Mailbox
}

// Options seeds the TUI's starting filter, matching the `tui -m -s` CLI
// flags. A nil InitialStates keeps the default (every state active); a
// zero InitialMailbox leaves the mailbox pane at its root.
type Options struct {
	InitialStates  store.StateSet
	InitialMailbox mailbox.Mailbox
}

// NewModel builds a Model around a running Worker. The caller is
// responsible for starting worker.Run in its own goroutine beforehand.
func NewModel(w *worker.Worker, opts Options) Model {
	state := NewState()
	if opts.InitialStates != nil {
		state.ActiveStates = opts.InitialStates
	}
	return Model{
		state:          state,
		worker:         w,
		pendingMailbox: opts.InitialMailbox,
	}
}

// Init kicks off the initial mailbox+message load and starts the response
// drain loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sendRequest(reloadRequest()), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// sendRequest returns a command that enqueues req on the worker's request
// channel. The send can block briefly if the worker is mid-dispatch, which
// is fine: bubbletea commands already run off the UI goroutine.
func (m Model) sendRequest(req worker.Request) tea.Cmd {
	w := m.worker
	return func() tea.Msg {
		w.Requests() <- req
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		followUps := m.drainResponses()
		cmds := make([]tea.Cmd, 0, len(followUps)+1)
		for _, req := range followUps {
			cmds = append(cmds, m.sendRequest(req))
		}
		if !m.quitting {
			cmds = append(cmds, tick())
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// drainResponses applies every response currently buffered on the
// worker's output channel without blocking, per the event loop's "drain
// all worker responses non-blockingly" step, and returns any follow-up
// requests a response implies (a Refresh re-enqueues a fresh InitialLoad)
// for the caller to dispatch as commands rather than blocking here.
func (m *Model) drainResponses() []worker.Request {
	var followUps []worker.Request
	for {
		select {
		case resp, ok := <-m.worker.Responses():
			if !ok {
				return followUps
			}
			if req, ok := m.applyResponse(resp); ok {
				followUps = append(followUps, req)
			}
		default:
			return followUps
		}
	}
}

func (m *Model) applyResponse(resp worker.Response) (worker.Request, bool) {
	switch resp.Kind {
	case worker.ResponseMessages:
		m.state.ReplaceMessages(resp.Messages)
	case worker.ResponseMailboxes:
		m.state.ReplaceMailboxes(resp.Mailboxes)
		if !m.pendingMailbox.IsZero() && m.state.JumpToMailbox(m.pendingMailbox) {
			m.pendingMailbox = mailbox.Mailbox{}
			m.state.FilterMessagesLocally()
		}
	case worker.ResponseRefresh:
		return reloadRequest(), true
	case worker.ResponseError:
		m.lastErr = resp.Err
	}
	return worker.Request{}, false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}
