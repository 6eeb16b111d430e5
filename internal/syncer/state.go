package syncer

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sandkit/sandkit/internal/utils"
)

const (
	// stateEnabled/stateDisabled are the two persisted list states. Disabled
	// means the user (or the obsolete-file cleanup) removed the file on
	// purpose and a later sync must not resurrect it.
	stateEnabled  = "1"
	stateDisabled = "0"

	// internalPrefix marks bookkeeping keys that are not user list names.
	internalPrefix = "_"

	originalsRecordedKey = internalPrefix + "originals_recorded"
	originalKeyPrefix    = internalPrefix + "orig."
)

// PolicyState is the key=value sidecar persisted next to the synced
// directory. One row per list name (name=1 active, name=0 deleted), plus
// underscore-prefixed migration bookkeeping rows.
type PolicyState struct {
	path    string
	entries map[string]string
}

// LoadPolicyState reads the state file at path. A missing file yields an
// empty state; a malformed line is skipped rather than failing the load.
func LoadPolicyState(path string) *PolicyState {
	state := &PolicyState{
		path:    path,
		entries: make(map[string]string),
	}

	f, err := os.Open(path)
	if err != nil {
		return state
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		state.entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return state
}

// Save rewrites the whole file, keys sorted for stable diffs.
func (p *PolicyState) Save() error {
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s\n", k, p.entries[k])
	}
	return utils.WriteFileAtomic(p.path, []byte(sb.String()), 0o644)
}

// ListEnabled reports whether a list file may be (re)downloaded. Absent
// entries default to enabled.
func (p *PolicyState) ListEnabled(name string) bool {
	return p.entries[name] != stateDisabled
}

func (p *PolicyState) MarkEnabled(name string)  { p.entries[name] = stateEnabled }
func (p *PolicyState) MarkDisabled(name string) { p.entries[name] = stateDisabled }

// OriginalsRecorded reports whether the one-time pre-rename snapshot has
// already been taken.
func (p *PolicyState) OriginalsRecorded() bool {
	return p.entries[originalsRecordedKey] == stateEnabled
}

// RecordOriginals snapshots the given legacy list names. Runs once; later
// calls are no-ops.
func (p *PolicyState) RecordOriginals(names []string) {
	if p.OriginalsRecorded() {
		return
	}
	for _, name := range names {
		p.entries[originalKeyPrefix+name] = stateEnabled
	}
	p.entries[originalsRecordedKey] = stateEnabled
}

// Originals returns the snapshot of legacy list names not yet retired.
func (p *PolicyState) Originals() []string {
	var names []string
	for k := range p.entries {
		if strings.HasPrefix(k, originalKeyPrefix) {
			names = append(names, strings.TrimPrefix(k, originalKeyPrefix))
		}
	}
	sort.Strings(names)
	return names
}

// RetireOriginal drops the bookkeeping row so the legacy file is retired
// exactly once.
func (p *PolicyState) RetireOriginal(name string) {
	delete(p.entries, originalKeyPrefix+name)
}
