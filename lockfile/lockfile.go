// Package lockfile implements .ntxlocale.lock, a lock file that tracks
// MD5 checksums of what each localized output was built from. This enables
// incremental builds: an output is rewritten only when its input payload,
// its language or the processor settings changed.
//
// The lock file is stored alongside .ntxlocale.yaml.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = ".ntxlocale.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the .ntxlocale.lock file structure.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"` // target -> output -> md5

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// New returns an empty lock file that saves to dir.
func New(dir string) *LockFile {
	return &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      filepath.Join(dir, LockFileName),
	}
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	lf := New(dir)

	data, err := os.ReadFile(lf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", lf.path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lf.path, err)
	}
	if lf.Version != Version {
		return nil, fmt.Errorf("%s: unsupported version %d", lf.path, lf.Version)
	}
	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// OutputKey builds the key an output is tracked under: its path relative to
// the project root, with forward slashes.
func OutputKey(root, outputPath string) string {
	if rel, err := filepath.Rel(root, outputPath); err == nil {
		outputPath = rel
	}
	return filepath.ToSlash(outputPath)
}

// OutputContent builds the content string hashed for one output. A change
// to the input bytes, the language or the settings changes the hash.
func OutputContent(input []byte, lang, settings string) string {
	return lang + "\x00" + settings + "\x00" + string(input)
}

// IsChanged reports whether an output must be rebuilt.
// Returns true if the output is new or its content has changed.
func (lf *LockFile) IsChanged(target, key, content string) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	keys, ok := lf.Checksums[target]
	if !ok {
		return true
	}
	oldHash, ok := keys[key]
	if !ok {
		return true
	}
	return oldHash != Hash(content)
}

// Update records the checksum of an output after a successful build.
func (lf *LockFile) Update(target, key, content string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.Checksums[target] == nil {
		lf.Checksums[target] = make(map[string]string)
	}
	lf.Checksums[target][key] = Hash(content)
}

// Clean removes entries of target that are no longer present in
// currentKeys, e.g. outputs of a language dropped from the config.
func (lf *LockFile) Clean(target string, currentKeys []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	existing := lf.Checksums[target]
	if existing == nil {
		return
	}

	valid := make(map[string]bool, len(currentKeys))
	for _, k := range currentKeys {
		valid[k] = true
	}

	for k := range existing {
		if !valid[k] {
			delete(existing, k)
		}
	}
	if len(existing) == 0 {
		delete(lf.Checksums, target)
	}
}

// Prune removes all targets not listed in current.
func (lf *LockFile) Prune(current []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	valid := make(map[string]bool, len(current))
	for _, t := range current {
		valid[t] = true
	}
	for t := range lf.Checksums {
		if !valid[t] {
			delete(lf.Checksums, t)
		}
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// stats returns the number of targets and total outputs. The caller holds mu.
func (lf *LockFile) stats() (targets, outputs int) {
	targets = len(lf.Checksums)
	for _, m := range lf.Checksums {
		outputs += len(m)
	}
	return
}

// targets returns the sorted target names. The caller holds mu.
func (lf *LockFile) targets() []string {
	targets := make([]string, 0, len(lf.Checksums))
	for t := range lf.Checksums {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// ---------------------------------------------------------------------------
// Human-readable summary
// ---------------------------------------------------------------------------

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if len(lf.Checksums) == 0 {
		return "empty"
	}

	names := lf.targets()
	parts := make([]string, len(names))
	for i, t := range names {
		parts[i] = fmt.Sprintf("%s: %d outputs", t, len(lf.Checksums[t]))
	}
	targets, outputs := lf.stats()
	return fmt.Sprintf("%d targets, %d outputs (%s)", targets, outputs, strings.Join(parts, ", "))
}
