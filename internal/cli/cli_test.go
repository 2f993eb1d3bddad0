package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/wupd/pkg/core"
	"github.com/arc-language/wupd/pkg/history"
	"github.com/arc-language/wupd/pkg/registry"
	"github.com/arc-language/wupd/pkg/winget"
)

type fakeUpgrader struct {
	cfg       *core.Config
	pkgs      []core.Package
	remaining []core.Package
	outcomes  map[string]winget.Outcome
	holds     []registry.Hold
	batches   []history.Batch

	listCalls   int
	upgraded    []string
	upgradeOpts *core.UpgradeOptions
	closed      bool
}

func (f *fakeUpgrader) ListUpgrades(ctx context.Context, opts *core.ListOptions) ([]core.Package, error) {
	f.listCalls++
	if f.upgraded != nil {
		return f.remaining, nil
	}
	if opts != nil && opts.IncludeHeld {
		return f.pkgs, nil
	}
	var out []core.Package
	for _, p := range f.pkgs {
		if !p.Held {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeUpgrader) Upgrade(ctx context.Context, ids []string, opts *core.UpgradeOptions) (winget.Results, error) {
	f.upgradeOpts = opts
	var results winget.Results
	for _, id := range ids {
		f.upgraded = append(f.upgraded, id)
		o, ok := f.outcomes[id]
		if !ok {
			o = winget.Outcome{Kind: winget.Success, ID: id, Detail: "updated successfully"}
		}
		results = append(results, o)
	}
	return results, nil
}

func (f *fakeUpgrader) Hold(id, reason string) error {
	f.holds = append(f.holds, registry.Hold{ID: id, Reason: reason})
	return nil
}

func (f *fakeUpgrader) Unhold(id string) error {
	for i, h := range f.holds {
		if strings.EqualFold(h.ID, id) {
			f.holds = append(f.holds[:i], f.holds[i+1:]...)
			return nil
		}
	}
	return registry.ErrNotHeld
}

func (f *fakeUpgrader) Holds() []registry.Hold { return f.holds }

func (f *fakeUpgrader) History(limit int) ([]history.Batch, error) {
	if limit > 0 && len(f.batches) > limit {
		return f.batches[:limit], nil
	}
	return f.batches, nil
}

func (f *fakeUpgrader) Executable() string { return "winget" }

func (f *fakeUpgrader) Close() error {
	f.closed = true
	return nil
}

func resetFlags() {
	cfgFile, wingetPath, source, debug = "", "", "", false
	listJSON, listHeld = false, false
	upgradeAll, upgradeForce, upgradeDryRun, upgradeNoRefresh, upgradeConcurrency = false, false, false, false, 0
	parseJSON = false
	classifyID, classifyExitCode, classifyStderr = "", 0, ""
	holdReason = ""
	historyLimit = 10
}

// execute runs the root command against fake and returns everything it printed
func execute(t *testing.T, fake *fakeUpgrader, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	prev := newUpgrader
	newUpgrader = func(cfg *core.Config) (core.Upgrader, error) {
		fake.cfg = cfg
		return fake, nil
	}
	t.Cleanup(func() { newUpgrader = prev })

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func pkg(name, id, version, available string) core.Package {
	return core.Package{PackageRecord: winget.PackageRecord{
		Name: name, ID: id, Version: version, Available: available, Source: "winget",
	}}
}

func TestListTable(t *testing.T) {
	held := pkg("Spotify", "Spotify.Spotify", "1.2.25", "1.2.26")
	held.Held = true
	fake := &fakeUpgrader{pkgs: []core.Package{
		pkg("Google Chrome", "Google.Chrome", "120.0", "121.0"),
		held,
	}}

	out, err := execute(t, fake, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Google Chrome")
	assert.Contains(t, out, "Google.Chrome")
	assert.NotContains(t, out, "Spotify")
	assert.Contains(t, out, "1 upgrade(s) available")
	assert.True(t, fake.closed)

	out, err = execute(t, fake, "", "list", "--held")
	require.NoError(t, err)
	assert.Contains(t, out, "winget (held)")
	assert.Contains(t, out, "2 upgrade(s) available")
}

func TestListJSON(t *testing.T) {
	fake := &fakeUpgrader{pkgs: []core.Package{pkg("Google Chrome", "Google.Chrome", "120.0", "121.0")}}

	out, err := execute(t, fake, "", "list", "--json")
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Google.Chrome", decoded[0]["id"])
	assert.Equal(t, "121.0", decoded[0]["available"])
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, &fakeUpgrader{}, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No upgrades available.")
}

func TestUpgradeArgumentValidation(t *testing.T) {
	_, err := execute(t, &fakeUpgrader{}, "", "upgrade")
	assert.EqualError(t, err, "specify package ids or --all")

	_, err = execute(t, &fakeUpgrader{}, "", "upgrade", "--all", "Google.Chrome")
	assert.EqualError(t, err, "--all cannot be combined with package ids")
}

func TestUpgradeAllDryRun(t *testing.T) {
	fake := &fakeUpgrader{pkgs: []core.Package{
		pkg("Google Chrome", "Google.Chrome", "120.0", "121.0"),
		pkg("Git", "Git.Git", "2.42.0", "2.43.0"),
	}}

	out, err := execute(t, fake, "", "upgrade", "--all", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would upgrade 2 package(s):")
	assert.Contains(t, out, "  Git.Git")
	assert.Nil(t, fake.upgraded)
}

func TestUpgradeReportsOutcomes(t *testing.T) {
	fake := &fakeUpgrader{outcomes: map[string]winget.Outcome{
		"Spotify.Spotify": {Kind: winget.NeedsClose, ID: "Spotify.Spotify", Detail: "needs to be closed before updating"},
		"Broken.App":      {Kind: winget.GenericFailure, ID: "Broken.App", Detail: "disk full"},
	}}

	out, err := execute(t, fake, "", "upgrade", "--concurrency", "3", "Google.Chrome", "Spotify.Spotify", "Broken.App")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken.App: disk full")

	assert.Equal(t, []string{"Google.Chrome", "Spotify.Spotify", "Broken.App"}, fake.upgraded)
	assert.Equal(t, 3, fake.cfg.Concurrency)
	assert.False(t, fake.upgradeOpts.Force)

	assert.Contains(t, out, "Upgrading 3 package(s) with winget...")
	assert.Contains(t, out, "Google.Chrome - updated successfully")
	assert.Contains(t, out, "Spotify.Spotify - needs to be closed before updating")
	assert.Contains(t, out, "Broken.App - disk full")
	assert.Contains(t, out, "1 updated, 0 up to date, 1 need closing, 1 failed")
	assert.Contains(t, out, "0 upgrade(s) remaining")
}

func TestUpgradeForceNoRefresh(t *testing.T) {
	fake := &fakeUpgrader{}

	out, err := execute(t, fake, "", "upgrade", "--force", "--no-refresh", "Spotify.Spotify")
	require.NoError(t, err)
	assert.True(t, fake.upgradeOpts.Force)
	assert.Zero(t, fake.listCalls)
	assert.NotContains(t, out, "remaining")
}

const capturedList = "Name            Id              Version Available Source\r\n" +
	"-------------------------------------------------------\r\n" +
	"Google Chrome   Google.Chrome   120.0   121.0     winget\r\n" +
	"1 upgrades available.\r\n"

func TestParseStdin(t *testing.T) {
	out, err := execute(t, &fakeUpgrader{}, capturedList, "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "Google Chrome")
	assert.Contains(t, out, "121.0")
}

func TestParseFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upgrade.txt")
	require.NoError(t, os.WriteFile(path, []byte(capturedList), 0644))

	out, err := execute(t, &fakeUpgrader{}, "", "parse", "--json", path)
	require.NoError(t, err)

	var records []winget.PackageRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Equal(t, []winget.PackageRecord{{
		Name: "Google Chrome", ID: "Google.Chrome", Version: "120.0", Available: "121.0", Source: "winget",
	}}, records)
}

func TestParseNothingToUpgrade(t *testing.T) {
	out, err := execute(t, &fakeUpgrader{}, "No installed package found matching input criteria.\n", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, "No upgrades found.")
}

func TestParseMalformed(t *testing.T) {
	_, err := execute(t, &fakeUpgrader{}, "Name  Id  Version  Source\n---------\n", "parse")
	assert.ErrorIs(t, err, winget.ErrMalformedHeader)
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	stdout := filepath.Join(dir, "stdout.txt")
	stderr := filepath.Join(dir, "stderr.txt")
	require.NoError(t, os.WriteFile(stdout, []byte("Installing...\r\n"), 0644))
	require.NoError(t, os.WriteFile(stderr, []byte("disk full\r\n"), 0644))

	out, err := execute(t, &fakeUpgrader{}, "", "classify", "--id", "Foo.Bar", "--exit-code", "1", "--stderr", stderr, stdout)
	require.NoError(t, err)
	assert.Contains(t, out, "Foo.Bar - disk full")

	out, err = execute(t, &fakeUpgrader{}, "Successfully installed\n", "classify", "--id", "Foo.Bar")
	require.NoError(t, err)
	assert.Contains(t, out, "Foo.Bar - updated successfully")
}

func TestHoldCommands(t *testing.T) {
	fake := &fakeUpgrader{}

	out, err := execute(t, fake, "", "hold", "add", "--reason", "plugins", "Spotify.Spotify")
	require.NoError(t, err)
	assert.Contains(t, out, "Held Spotify.Spotify")

	out, err = execute(t, fake, "", "hold", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Spotify.Spotify  (plugins)")

	out, err = execute(t, fake, "", "hold", "remove", "spotify.spotify")
	require.NoError(t, err)
	assert.Contains(t, out, "Released spotify.spotify")

	out, err = execute(t, fake, "", "hold", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No packages are held.")

	_, err = execute(t, fake, "", "hold", "rm", "Git.Git")
	assert.ErrorIs(t, err, registry.ErrNotHeld)
}

func TestHistory(t *testing.T) {
	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeUpgrader{batches: []history.Batch{{
		Started:  started,
		Finished: started.Add(2 * time.Minute),
		Outcomes: []winget.Outcome{
			{Kind: winget.Success, ID: "Google.Chrome", Detail: "updated successfully"},
			{Kind: winget.NotFound, ID: "Gone.App", Detail: "package not found"},
		},
	}}}

	out, err := execute(t, fake, "", "history", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "2 package(s) in 2m0s")
	assert.Contains(t, out, "Gone.App - package not found")

	out, err = execute(t, &fakeUpgrader{}, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No upgrade history.")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, &fakeUpgrader{}, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "wupd version "+version)
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	fake := &fakeUpgrader{}

	_, err := execute(t, fake, "", "--winget", `C:\bin\winget.exe`, "--source", "msstore", "list")
	require.NoError(t, err)
	require.NotNil(t, fake.cfg)
	assert.Equal(t, `C:\bin\winget.exe`, fake.cfg.WingetPath)
	assert.Equal(t, "msstore", fake.cfg.Source)
}
