package delivery

import (
	"fmt"
	"os"
	"strings"
	"time"

	"farmwatch/internal/farm"
	logx "farmwatch/pkg/logx"
)

// AppendRunSummary writes one block per pipeline run to the summary log, a
// line per group in schedule order. When the file outgrows the cap it is
// rotated to a single .old generation.
func (s *Service) AppendRunSummary(groups []farm.NotificationGroup, now time.Time) {
	s.mu.Lock()
	path := s.cfg.SummaryPath
	maxBytes := s.cfg.SummaryMaxBytes
	s.mu.Unlock()
	if path == "" {
		return
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxBytes {
		if err := os.Rename(path, path+".old"); err != nil {
			s.log.Warn("summary rotate failed", logx.Err(err))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s (%d groups)\n", now.UTC().Format(time.RFC3339), len(groups))
	for _, g := range groups {
		fmt.Fprintf(&b, "%s\tqty=%d\tready=%s\t%s\n",
			g.GroupID, g.Quantity, g.EarliestReady.UTC().Format(time.RFC3339), g.DisplayName)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Warn("summary open failed", logx.Err(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(b.String()); err != nil {
		s.log.Warn("summary write failed", logx.Err(err))
	}
}
