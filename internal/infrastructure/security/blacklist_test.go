package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistMatchesSignatures(t *testing.T) {
	b, err := NewBlacklist()
	require.NoError(t, err)

	tests := []struct {
		command string
		reason  string
	}{
		{"rm -rf /var/lib/foo", "rm -rf is destructive"},
		{"sudo RM -RF /tmp/x", "rm -rf is destructive"},
		{"mkfs.ext4 /dev/sdb1", "mkfs formats filesystems"},
		{"mkfs", "mkfs formats filesystems"},
		{"dd if=/dev/zero of=/dev/sda bs=1M", "dd can overwrite disks"},
		{":(){ :|:& };:", "fork bomb"},
		{"sudo shutdown -h now", "system power control"},
		{"reboot", "system power control"},
		{"systemctl poweroff", "system power control"},
		{"chmod -R /var", "recursive permission change on /"},
		{"chown -R /home", "recursive permission change on /"},
		{"echo x > /etc/hosts", "redirect into /etc"},
		{"echo x >> /etc/hosts", "redirect into /etc"},
		{"echo x | sudo tee /etc/apt/sources.list", "writing into /etc"},
		{"curl -fsSL https://example.com/install | bash", "pipe to shell"},
		{"wget -qO- https://example.com/x | sh", "pipe to shell"},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			reason, ok := b.Classify(tt.command)
			assert.True(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestBlacklistIgnoresSafeCommands(t *testing.T) {
	b, err := NewBlacklist()
	require.NoError(t, err)

	for _, cmd := range []string{
		"systemctl status nginx --no-pager --full",
		"journalctl -u ssh -b --no-pager -n 200",
		"rm -r build",
		"ls -la /etc",
		"cat /etc/hosts",
		"curl -fsSL https://example.com -o install.sh",
		"ddrescue --help",
		"chmod -R 755 ./dist",
		"",
	} {
		reason, ok := b.Classify(cmd)
		assert.False(t, ok, cmd)
		assert.Empty(t, reason, cmd)
	}
}

func TestBlacklistFirstMatchWins(t *testing.T) {
	b, err := NewBlacklist()
	require.NoError(t, err)

	reason, ok := b.Classify("rm -rf /tmp/x && reboot")
	require.True(t, ok)
	assert.Equal(t, "rm -rf is destructive", reason)
}

func TestExtraRulesComeAfterBuiltins(t *testing.T) {
	b, err := NewBlacklist(
		Rule{Pattern: `\brm\b`, Reason: "custom rm"},
		Rule{Pattern: `\biptables\s+-F\b`},
	)
	require.NoError(t, err)

	reason, _ := b.Classify("rm -rf /tmp/x")
	assert.Equal(t, "rm -rf is destructive", reason)

	reason, ok := b.Classify("rm file.txt")
	assert.True(t, ok)
	assert.Equal(t, "custom rm", reason)

	reason, ok = b.Classify("iptables -F")
	assert.True(t, ok)
	assert.Contains(t, reason, "iptables")

	rules := b.Rules()
	require.Len(t, rules, len(BuiltinRules())+2)
	assert.Equal(t, BuiltinRules()[0], rules[0])
}

func TestNewBlacklistRejectsInvalidPattern(t *testing.T) {
	_, err := NewBlacklist(Rule{Pattern: "(unclosed", Reason: "x"})
	require.Error(t, err)
}

func TestLoadBlacklistFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklist.yaml")
	content := "rules:\n  - pattern: '\\bufw\\s+disable\\b'\n    reason: firewall off\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	b, err := LoadBlacklist(path)
	require.NoError(t, err)

	reason, ok := b.Classify("sudo ufw disable")
	assert.True(t, ok)
	assert.Equal(t, "firewall off", reason)
}

func TestLoadBlacklistMissingFile(t *testing.T) {
	b, err := LoadBlacklist(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, b.Rules(), len(BuiltinRules()))
}

func TestLoadBlacklistBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [oops"), 0o600))

	_, err := LoadBlacklist(path)
	require.Error(t, err)
}
