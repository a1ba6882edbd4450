// Package practice implements the per-mode state machines: reading and
// listening comprehension (one parameterized controller), speaking
// evaluation, and open-ended conversation. Controllers mutate the session
// they are handed; callers hold the session lock.
package practice

import "errors"

// ErrNoActiveExercise is returned when a submission arrives while no
// exercise is present — an idle mode or a stale call.
var ErrNoActiveExercise = errors.New("no active exercise")
