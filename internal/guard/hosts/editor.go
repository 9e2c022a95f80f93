package hosts

import (
	"bufio"
	"io"
	"os"
	"strings"

	"gwd/internal/guard/common/log"
	"gwd/internal/guard/domain"
)

// tmpSuffix distinguishes the sibling temp file the removal path writes
// before the atomic rename.
const tmpSuffix = ".gwd.tmp"

// Gate is the human-verification step consumed by Unblock. A word count of
// zero means "no challenge required" and must always pass.
type Gate interface {
	Run(domain string, wordCount int) error
}

// BlockResult reports what Block did, per domain variant.
type BlockResult struct {
	Domain   domain.NormalizedDomain
	Added    []domain.NormalizedDomain
	Existing []domain.NormalizedDomain
}

// UnblockResult reports what Unblock did.
type UnblockResult struct {
	Domain  domain.NormalizedDomain
	Removed int
}

// Editor performs block and unblock edits against the resolved hosts file.
// It never caches file contents across operations; every call re-reads the
// file before writing.
type Editor struct {
	loc    *Locator
	gate   Gate
	logger log.Logger
}

// NewEditor returns an Editor bound to the given path locator and unblock gate.
func NewEditor(loc *Locator, gate Gate, logger log.Logger) *Editor {
	return &Editor{loc: loc, gate: gate, logger: logger}
}

// Block adds block entries for the domain and its "www." variant. Entries
// already present are left alone, so blocking the same domain twice is a
// no-op. New entries are appended; existing lines are never rewritten.
func (e *Editor) Block(raw string) (*BlockResult, error) {
	path, err := e.loc.Resolve()
	if err != nil {
		return nil, err
	}
	nd, err := domain.Normalize(raw)
	if err != nil {
		return nil, err
	}
	m, err := NewMatcher(nd)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, accessError(path, err)
	}
	defer f.Close()

	// Append-mode cursors start at the end; rewind before scanning.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &domain.ReadError{Path: path, Cause: err.Error()}
	}

	var haveBare, haveWWW bool
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m.MatchesBare(line) {
			haveBare = true
		}
		if m.MatchesWWW(line) {
			haveWWW = true
		}
		if haveBare && haveWWW {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.ReadError{Path: path, Cause: err.Error()}
	}

	res := &BlockResult{Domain: nd}
	var queued []domain.BlockEntry
	for i, entry := range domain.EntryPair(nd) {
		exists := haveBare
		if i == 1 {
			exists = haveWWW
		}
		if exists {
			res.Existing = append(res.Existing, entry.Domain)
			e.logger.Debug(map[string]any{"domain": entry.Domain}, "block_entry_exists")
			continue
		}
		queued = append(queued, entry)
		res.Added = append(res.Added, entry.Domain)
	}

	if len(queued) == 0 {
		return res, nil
	}

	if err := ensureTrailingNewline(f, path); err != nil {
		return nil, err
	}
	for _, entry := range queued {
		if _, err := f.WriteString(entry.Render() + "\n"); err != nil {
			return nil, writeError(path, err)
		}
		e.logger.Info(map[string]any{"domain": entry.Domain, "path": path}, "block_entry_added")
	}
	return res, nil
}

// Unblock removes the block entries for the domain and its "www." variant.
// The gate runs before any file is opened; a failed challenge leaves the
// filesystem untouched. Removal streams every surviving line byte-for-byte
// into a sibling temp file which then atomically replaces the original. When
// no entries match, the original is left byte-for-byte unchanged.
func (e *Editor) Unblock(raw string, wordCount int) (*UnblockResult, error) {
	nd, err := domain.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := e.gate.Run(string(nd), wordCount); err != nil {
		return nil, err
	}
	path, err := e.loc.Resolve()
	if err != nil {
		return nil, err
	}
	m, err := NewMatcher(nd)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, accessError(path, err)
	}
	defer src.Close()

	tmpPath := path + tmpSuffix
	if _, err := os.Stat(tmpPath); err == nil {
		// Likely left behind by an interrupted run. Never reclaimed
		// automatically; truncating below is safe because the original
		// is only ever replaced, never modified in place.
		e.logger.Warn(map[string]any{"path": tmpPath}, "stale_temp_file_found")
	}
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, accessError(tmpPath, err)
	}
	defer tmp.Close()

	removed := 0
	reader := bufio.NewReader(src)
	writer := bufio.NewWriter(tmp)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			if m.MatchesEither(strings.TrimRight(line, "\r\n")) {
				removed++
				e.logger.Info(map[string]any{"line": strings.TrimRight(line, "\r\n"), "path": path}, "block_entry_removed")
			} else if _, err := writer.WriteString(line); err != nil {
				return nil, writeError(tmpPath, err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, &domain.ReadError{Path: path, Cause: readErr.Error()}
		}
	}

	if removed == 0 {
		tmp.Close()
		if err := os.Remove(tmpPath); err != nil {
			return nil, writeError(tmpPath, err)
		}
		return &UnblockResult{Domain: nd}, nil
	}

	if err := writer.Flush(); err != nil {
		return nil, writeError(tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, writeError(tmpPath, err)
	}
	src.Close()

	if err := os.Rename(tmpPath, path); err != nil {
		return nil, &domain.WriteError{
			Path:  path,
			Cause: "failed to replace hosts file with updated version: " + err.Error() + "; updated copy left at " + tmpPath,
		}
	}
	return &UnblockResult{Domain: nd, Removed: removed}, nil
}

// List returns the domains of every gwd-owned entry currently in the hosts
// file, in file order. Read-only.
func (e *Editor) List() ([]domain.NormalizedDomain, error) {
	path, err := e.loc.Resolve()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, accessError(path, err)
	}
	defer f.Close()

	var out []domain.NormalizedDomain
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name, ok := ParseOwnedLine(scanner.Text()); ok {
			out = append(out, domain.NormalizedDomain(name))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &domain.ReadError{Path: path, Cause: err.Error()}
	}
	return out, nil
}

// ensureTrailingNewline appends a line terminator when the file is non-empty
// and its final byte is not a newline, so new entries always start on their
// own line. A crash mid-append on a previous run is repaired here.
func ensureTrailingNewline(f *os.File, path string) error {
	st, err := f.Stat()
	if err != nil {
		return writeError(path, err)
	}
	if st.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.Seek(-1, io.SeekEnd); err != nil {
		return &domain.ReadError{Path: path, Cause: err.Error()}
	}
	if _, err := f.Read(last); err != nil {
		return &domain.ReadError{Path: path, Cause: err.Error()}
	}
	if last[0] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return writeError(path, err)
		}
	}
	return nil
}

// accessError maps an open/read failure to the error taxonomy: permission
// failures become domain.PermissionError, everything else a path-scoped read
// error with the cause text captured here.
func accessError(path string, err error) error {
	if os.IsPermission(err) {
		return &domain.PermissionError{Path: path}
	}
	return &domain.ReadError{Path: path, Cause: err.Error()}
}

// writeError maps a write failure the same way accessError maps reads.
func writeError(path string, err error) error {
	if os.IsPermission(err) {
		return &domain.PermissionError{Path: path}
	}
	return &domain.WriteError{Path: path, Cause: err.Error()}
}
