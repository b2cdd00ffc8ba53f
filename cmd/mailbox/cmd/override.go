package cmd

import (
	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/store"
)

// applyOverride resolves cfg's [overrides] table against msg.Mailbox,
// forcing its initial state or dropping it entirely ("ignored"). A message
// with no matching override passes through unchanged. This is the same
// longest-prefix resolution `import` uses, applied here to `add` too, so a
// single mailbox rule governs every way a message can enter the inbox.
func applyOverride(overrides config.Overrides, msg store.NewMessage) (store.NewMessage, bool) {
	action, ok := overrides.Resolve(msg.Mailbox)
	if !ok {
		return msg, true
	}
	if action.Ignored {
		return store.NewMessage{}, false
	}
	state := action.State
	msg.State = &state
	return msg, true
}
