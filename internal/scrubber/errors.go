package scrubber

import "errors"

// ErrDirectoryUnreadable is returned when the selected folder cannot be
// enumerated at all. It aborts the whole batch with zero results;
// per-file failures never escalate to it.
var ErrDirectoryUnreadable = errors.New("directory unreadable")
