package app

import (
	"github.com/canac/mailbox/internal/store"
	"github.com/canac/mailbox/internal/tui/worker"
)

func reloadRequest() worker.Request {
	return worker.Request{Kind: worker.KindInitialLoad}
}

func loadMessagesRequest(filter store.Filter) worker.Request {
	return worker.Request{Kind: worker.KindLoadMessages, Filter: filter}
}

func changeStateRequest(scope store.Filter, newState store.State, refresh bool) worker.Request {
	return worker.Request{
		Kind:     worker.KindChangeMessageStates,
		Filter:   scope,
		NewState: newState,
		Refresh:  refresh,
	}
}

func deleteRequest(scope store.Filter, refresh bool) worker.Request {
	return worker.Request{Kind: worker.KindDeleteMessages, Filter: scope, Refresh: refresh}
}
