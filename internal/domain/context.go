package domain

import "strings"

// SystemInfo describes the host the commands will run on. It is prepended to
// every reasoning request.
type SystemInfo struct {
	OS       string
	Release  string
	Distro   string
	Kernel   string
	Arch     string
	Hostname string
	User     string
}

// Render formats the info block sent to the reasoning engine.
func (s SystemInfo) Render() string {
	var lines []string
	lines = append(lines, strings.TrimSpace("OS: "+s.OS+" "+s.Release))
	if s.Distro != "" {
		lines = append(lines, "Distro: "+s.Distro)
	}
	if s.Kernel != "" {
		lines = append(lines, "Kernel: "+s.Kernel)
	}
	lines = append(lines, "Arch: "+s.Arch)
	lines = append(lines, "Hostname: "+s.Hostname)
	lines = append(lines, "User: "+s.User)
	return strings.Join(lines, "\n")
}
