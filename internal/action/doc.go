/*
Package action executes declared HTTP endpoints through one lifecycle.

# Overview

An Action binds a path template, method, auth requirement and content
encoding to a typed response decoder. Executing it runs a fixed state
machine:

	Created -> Initialized -> Resolved -> Dispatched -> Succeeded | Failed -> Done

An action that requires auth but has no resolvable credential stops after
Initialized and reports OutcomeSkipped without touching the network.

# Usage

	getUser := action.New(action.Definition[User]{
		Name:         "GetUser",
		Path:         "/users/{id}",
		AuthRequired: true,
	})

	res := getUser.Where("id", 42).Execute(ctx)
	switch {
	case res.OK():
		fmt.Println(res.Value.Name)
	case res.Skipped():
		// not signed in
	default:
		log.Println(res.Err)
	}

Queued execution delivers the same result to subscribers and streams
progress on a separate channel:

	f := upload.Queue(ctx)
	f.Subscribe(action.Subscriber[Receipt]{OnSuccess: save})
	for ev := range f.Progress() {
		bar.Set(ev.Percentage)
	}

# Configuration

Every execution reads one settings snapshot from its Engine at start.
Configure swaps the snapshot; running executions keep the one they read.
*/
package action
