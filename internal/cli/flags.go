package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// dateValue is an optional YYYY-MM-DD flag. It stays nil until set.
type dateValue struct {
	t *time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if d.t == nil {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d *dateValue) Set(s string) error {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	d.t = &t
	return nil
}

func (d *dateValue) Type() string { return "date" }

// Time returns the parsed date or nil when the flag was not given.
func (d *dateValue) Time() *time.Time { return d.t }

func addTodayFlag(fs *pflag.FlagSet, d *dateValue) {
	fs.Var(d, "today", "Evaluate as of this date (YYYY-MM-DD) instead of the current date")
}

// parseAssignee reads "uid" or "uid:Display Name".
func parseAssignee(s string) (domain.Assignee, error) {
	uid, name, _ := strings.Cut(s, ":")
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return domain.Assignee{}, fmt.Errorf("invalid assignee %q (want uid or uid:name)", s)
	}
	return domain.Assignee{UID: uid, Name: strings.TrimSpace(name)}, nil
}

// parseSpare reads "material:qty" or "material:qty:uom".
func parseSpare(s string) (domain.RequiredSpare, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
		return domain.RequiredSpare{}, fmt.Errorf("invalid spare %q (want material:qty[:uom])", s)
	}
	qty, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || qty <= 0 {
		return domain.RequiredSpare{}, fmt.Errorf("invalid spare quantity in %q", s)
	}
	spare := domain.RequiredSpare{MaterialID: strings.TrimSpace(parts[0]), Quantity: qty}
	if len(parts) == 3 {
		spare.UOM = strings.TrimSpace(parts[2])
	}
	return spare, nil
}
