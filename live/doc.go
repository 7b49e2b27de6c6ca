// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live implements the in-process change-notification hub behind the
server-sent events results stream.

Subscribers get a buffered channel and a cancel handle:

	ch, cancel := hub.Subscribe()
	defer cancel()

Publish never blocks; events a slow subscriber cannot buffer are dropped.
Live delivery is an optimization over polling the results endpoint, not a
correctness requirement, so lossy delivery is acceptable.
*/
package live
