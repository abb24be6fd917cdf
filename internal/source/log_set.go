package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// StdinName is the path recorded for logs read from standard input.
const StdinName = "<stdin>"

// LogSet manages a collection of loaded logs.
type LogSet struct {
	logs    []Log
	index   map[string]LogID // path -> id
	baseDir string           // базовая директория для относительных путей
}

// NewLogSet creates a new empty LogSet.
func NewLogSet() *LogSet {
	return &LogSet{
		logs:  make([]Log, 0),
		index: make(map[string]LogID),
	}
}

// NewLogSetWithBase создаёт LogSet с заданной базовой директорией.
func NewLogSetWithBase(baseDir string) *LogSet {
	s := NewLogSet()
	s.baseDir = baseDir
	return s
}

// BaseDir returns the directory relative paths are computed against,
// defaulting to the working directory.
func (s *LogSet) BaseDir() string {
	if s.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return s.baseDir
}

// Add stores already normalized content, computes its hash and returns a new LogID.
// It always creates a new LogID even if a log with the same path already exists.
func (s *LogSet) Add(path string, content []byte, flags LogFlags) LogID {
	hash := sha256.Sum256(content)
	normalizedPath := path
	if path != StdinName {
		normalizedPath = normalizePath(path)
	}

	n, err := safecast.Conv[uint32](len(s.logs))
	if err != nil {
		panic(fmt.Errorf("len logs overflow: %w", err))
	}
	id := LogID(n)
	s.logs = append(s.logs, Log{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Hash:    hash,
		Flags:   flags,
	})
	s.index[normalizedPath] = id
	return id
}

// Load reads a log from disk, decodes it and calls Add.
func (s *LogSet) Load(path string, enc Encoding) (LogID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags, err := Decode(raw, enc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return s.Add(path, content, flags), nil
}

// LoadReader reads a whole log from r (typically stdin) and adds it as virtual.
func (s *LogSet) LoadReader(name string, r io.Reader, enc Encoding) (LogID, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	content, flags, err := Decode(raw, enc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return s.Add(name, content, flags|LogVirtual), nil
}

// Get returns the log for the given ID.
func (s *LogSet) Get(id LogID) *Log {
	return &s.logs[id]
}

// GetByPath returns the latest log loaded under path.
func (s *LogSet) GetByPath(path string) (*Log, bool) {
	key := path
	if path != StdinName {
		key = normalizePath(path)
	}
	if id, ok := s.index[key]; ok {
		return &s.logs[id], true
	}
	return nil, false
}

func (s *LogSet) Len() int {
	return len(s.logs)
}

// FormatPath formats the log path according to mode:
// "absolute", "relative", "basename" or "auto".
func (l *Log) FormatPath(mode, baseDir string) string {
	if l.Flags.Has(LogVirtual) {
		return l.Path
	}
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(l.Path); err == nil {
			return abs
		}
		return l.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(l.Path, baseDir); err == nil {
			return rel
		}
		return l.Path

	case "basename":
		return BaseName(l.Path)

	case "auto":
		// Auto: если путь короткий или относительный - как есть, иначе basename
		if len(l.Path) < 40 || !filepath.IsAbs(l.Path) {
			return l.Path
		}
		return BaseName(l.Path)

	default:
		return l.Path
	}
}
