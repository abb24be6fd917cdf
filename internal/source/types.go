package source

type (
	// LogID uniquely identifies a log within a LogSet.
	LogID uint32
	// LogFlags encodes how a log's content was obtained and normalized.
	LogFlags uint8
)

const (
	// LogVirtual indicates the log was added from memory (test, stdin, etc.).
	LogVirtual LogFlags = 1 << iota // добавлен не с диска (тест, stdin)
	LogHadBOM
	LogNormalizedCRLF
	// LogTranscoded indicates the content was converted to UTF-8.
	LogTranscoded
)

// Has reports whether all bits of flag are set.
func (f LogFlags) Has(flag LogFlags) bool {
	return f&flag == flag
}

// Log captures metadata and normalized UTF-8 content of one captured tool output.
type Log struct {
	ID      LogID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   LogFlags
}

// Text returns the content as a string.
func (l *Log) Text() string {
	return string(l.Content)
}
