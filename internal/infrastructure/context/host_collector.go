// Package contextcollector describes the local host for reasoning prompts.
package contextcollector

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/host"

	"github.com/doeshing/alex-go/internal/domain"
	"github.com/doeshing/alex-go/internal/ports"
)

const (
	osReleasePath     = "/etc/os-release"
	kernelVersionPath = "/proc/sys/kernel/version"
)

// HostCollector implements ports.SystemInfoCollector. Host facts do not
// change during a run, so the first result is reused.
type HostCollector struct {
	log zerolog.Logger

	once sync.Once
	info domain.SystemInfo
}

// NewHostCollector returns a collector backed by gopsutil.
func NewHostCollector(log zerolog.Logger) *HostCollector {
	return &HostCollector{log: log}
}

// Collect implements ports.SystemInfoCollector.
func (c *HostCollector) Collect(ctx context.Context) domain.SystemInfo {
	c.once.Do(func() {
		c.info = c.collect(ctx)
	})
	return c.info
}

func (c *HostCollector) collect(ctx context.Context) domain.SystemInfo {
	info := domain.SystemInfo{
		OS:   capitalize(runtime.GOOS),
		Arch: runtime.GOARCH,
		User: currentUser(),
	}

	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("host info unavailable")
	}
	if hi != nil {
		if hi.OS != "" {
			info.OS = capitalize(hi.OS)
		}
		info.Release = hi.KernelVersion
		if hi.KernelArch != "" {
			info.Arch = hi.KernelArch
		}
		info.Hostname = hi.Hostname
		info.Distro = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
	}

	if pretty := prettyName(osReleasePath); pretty != "" {
		info.Distro = pretty
	}
	if data, err := os.ReadFile(kernelVersionPath); err == nil {
		info.Kernel = strings.TrimSpace(string(data))
	}
	if info.Hostname == "" {
		info.Hostname, _ = os.Hostname()
	}
	return info
}

// prettyName returns PRETTY_NAME from an os-release file with whitespace
// collapsed, or "".
func prettyName(path string) string {
	values, err := godotenv.Read(path)
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(values["PRETTY_NAME"]), " ")
}

func currentUser() string {
	for _, key := range []string{"USER", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "unknown"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

var _ ports.SystemInfoCollector = (*HostCollector)(nil)
