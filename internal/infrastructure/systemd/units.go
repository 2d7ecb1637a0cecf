// Package systemd enumerates installed service units through systemctl.
package systemd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

// ListUnitFilesCommand lists every service unit file, disabled ones included.
const ListUnitFilesCommand = "systemctl list-unit-files --type=service --no-pager --no-legend"

// UnitLister implements ports.UnitLister on top of a command executor.
type UnitLister struct {
	exec ports.CommandExecutor
}

// NewUnitLister returns a lister that runs systemctl through exec.
func NewUnitLister(exec ports.CommandExecutor) *UnitLister {
	return &UnitLister{exec: exec}
}

// ListServiceUnits implements ports.UnitLister.
func (l *UnitLister) ListServiceUnits(ctx context.Context) ([]string, error) {
	res := l.exec.Execute(ctx, ListUnitFilesCommand)
	if !res.Succeeded() && strings.TrimSpace(res.Stdout) == "" {
		return nil, fmt.Errorf("list service units (exit %d): %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return ParseUnitFiles(res.Stdout), nil
}

// ParseUnitFiles extracts the sorted, de-duplicated service unit names from
// list-unit-files output ("ssh.service enabled enabled").
func ParseUnitFiles(output string) []string {
	seen := make(map[string]struct{})
	var units []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		unit := fields[0]
		if !strings.HasSuffix(unit, domain.UnitSuffix) {
			continue
		}
		if _, ok := seen[unit]; ok {
			continue
		}
		seen[unit] = struct{}{}
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

var _ ports.UnitLister = (*UnitLister)(nil)
