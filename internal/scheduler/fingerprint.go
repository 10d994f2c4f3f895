package scheduler

import (
	"strconv"

	"github.com/mitchellh/hashstructure/v2"
)

// placement is the hashed view of a scheduled task.
type placement struct {
	ID       string
	Start    int64
	End      int64
	Fallback bool
	Critical bool
}

// Fingerprint hashes the placements and critical marks of a schedule. Two runs
// over the same inputs produce the same fingerprint.
func Fingerprint(tasks []ScheduledTask, critical CriticalSet) (string, error) {
	ps := make([]placement, len(tasks))
	for i, t := range tasks {
		ps[i] = placement{
			ID:       t.ID,
			Start:    t.Start.UnixNano(),
			End:      t.End.UnixNano(),
			Fallback: t.Fallback,
			Critical: critical[t.ID],
		}
	}
	h, err := hashstructure.Hash(ps, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(h, 16), nil
}
