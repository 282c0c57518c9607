package models

import (
	"fmt"
	"strings"
)

// FileStatus is a bitset of per-file states reported by git plumbing.
// Several flags can be set at once, e.g. a freshly staged file carries
// StatusNew|StatusInIndex.
type FileStatus uint8

// Status flags. The values match the order git diff-tree reports them in;
// StatusInIndex is never produced by token parsing and is or-ed in separately
// when the file is known to be present in the index.
const (
	StatusModified FileStatus = 1 << iota
	StatusDeleted
	StatusNew
	StatusRenamed
	StatusCopied
	StatusUnknown
	StatusInIndex
	StatusConflict
)

// Bucket is the display grouping a file is shown under.
type Bucket int

// Buckets, in display order.
const (
	BucketUntracked Bucket = iota
	BucketUnstaged
	BucketStaged
)

// String returns the bucket name used in headers and machine output.
func (b Bucket) String() string {
	switch b {
	case BucketUntracked:
		return "untracked"
	case BucketStaged:
		return "staged"
	default:
		return "unstaged"
	}
}

// ColorClass selects which theme color a file entry is rendered with.
type ColorClass int

// Color classes, from highest to lowest priority.
const (
	ColorConflict ColorClass = iota
	ColorDeleted
	ColorUntracked
	ColorAdded
	ColorText
)

// ParseStatusToken maps a raw status token from git diff-tree/diff-index
// output ("M", "A", "D", "R100", "C75", "U", ...) to a status flag.
// Unrecognized tokens degrade to StatusUnknown so an unexpected token from a
// newer git never blocks a refresh.
func ParseStatusToken(token string) FileStatus {
	if token == "" {
		return StatusUnknown
	}
	switch token[0] {
	case 'M':
		return StatusModified
	case 'A':
		return StatusNew
	case 'D':
		return StatusDeleted
	case 'R':
		if isScoreSuffix(token[1:]) {
			return StatusRenamed
		}
	case 'C':
		if isScoreSuffix(token[1:]) {
			return StatusCopied
		}
	case 'U':
		return StatusConflict
	}
	return StatusUnknown
}

// isScoreSuffix reports whether s is a similarity score as appended by
// git diff-tree -C (digits only, possibly empty).
func isScoreSuffix(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Bucket classifies the flags into exactly one display bucket. Conflicted
// files always land in the unstaged bucket, the conflict marker is carried
// separately.
func (s FileStatus) Bucket() Bucket {
	isUnknown := s&StatusUnknown != 0
	isInIndex := s&StatusInIndex != 0
	isConflict := s&StatusConflict != 0

	switch {
	case isUnknown && !isInIndex:
		return BucketUntracked
	case isInIndex && !isUnknown && !isConflict:
		return BucketStaged
	default:
		return BucketUnstaged
	}
}

// ColorClass picks the render color for the flags. First match wins; the
// ordering is a deliberate tie-break, a conflicted+deleted file shows as
// conflicted rather than deleted.
func (s FileStatus) ColorClass() ColorClass {
	isUnknown := s&StatusUnknown != 0
	isInIndex := s&StatusInIndex != 0

	switch {
	case s&StatusConflict != 0:
		return ColorConflict
	case s&StatusDeleted != 0:
		return ColorDeleted
	case isUnknown && !isInIndex:
		return ColorUntracked
	case s&StatusNew != 0 || isUnknown || isInIndex:
		return ColorAdded
	default:
		return ColorText
	}
}

// FileStatusSet is the per-file status of one revision: an ordered list of
// paths with a parallel flag slice, plus rename/copy descriptors for the
// entries that have StatusRenamed or StatusCopied set. Order is the order
// reported by git and is preserved for display.
//
// A set is built once per status query and never mutated after it has been
// handed to a consumer; a refresh replaces the whole set.
type FileStatusSet struct {
	files     []string
	status    []FileStatus
	extStatus map[int]string

	// onlyModified stays true while every entry is exactly StatusModified,
	// the common case consumers can fast-path.
	onlyModified bool
}

// NewFileStatusSet returns an empty set.
func NewFileStatusSet() *FileStatusSet {
	return &FileStatusSet{onlyModified: true}
}

// Count returns the number of entries.
func (f *FileStatusSet) Count() int {
	return len(f.files)
}

// GetFile returns the path at index. Panics if index is out of range; index
// accessors are programmer-error assertions, not recoverable failures.
func (f *FileStatusSet) GetFile(index int) string {
	f.checkIndex(index)
	return f.files[index]
}

// Status returns the raw flag bits for the entry at index.
func (f *FileStatusSet) Status(index int) FileStatus {
	f.checkIndex(index)
	return f.status[index]
}

// StatusCmp reports whether flag is set for the entry at index.
func (f *FileStatusSet) StatusCmp(index int, flag FileStatus) bool {
	f.checkIndex(index)
	return f.status[index]&flag != 0
}

// ExtendedStatus returns the rename/copy descriptor recorded for index, or
// the empty string when none was recorded.
func (f *FileStatusSet) ExtendedStatus(index int) string {
	f.checkIndex(index)
	return f.extStatus[index]
}

// Append parses a raw status token and adds a new entry for path. This is
// the only ingestion path from git textual output.
func (f *FileStatusSet) Append(path, token string) {
	flag := ParseStatusToken(token)
	f.files = append(f.files, path)
	f.status = append(f.status, flag)
	if flag != StatusModified {
		f.onlyModified = false
	}
}

// SetStatus overwrites the flags of the entry at index.
func (f *FileStatusSet) SetStatus(index int, flag FileStatus) {
	f.checkIndex(index)
	f.status[index] = flag
	if flag != StatusModified {
		f.onlyModified = false
	}
}

// AppendStatus or-s flag into the entry at index, keeping the bits already
// set. Used to mark StatusInIndex on diff-derived entries.
func (f *FileStatusSet) AppendStatus(index int, flag FileStatus) {
	f.checkIndex(index)
	f.status[index] |= flag
	if flag != StatusModified {
		f.onlyModified = false
	}
}

// SetStatusAll applies flag to every entry.
func (f *FileStatusSet) SetStatusAll(flag FileStatus) {
	for i := range f.status {
		f.status[i] = flag
	}
	if flag != StatusModified {
		f.onlyModified = false
	}
}

// SetExtendedStatus records the rename/copy descriptor for the entry at
// index. The index is explicit so descriptors cannot silently misalign with
// entries; callers should also have set StatusRenamed or StatusCopied.
func (f *FileStatusSet) SetExtendedStatus(index int, descriptor string) {
	f.checkIndex(index)
	if f.extStatus == nil {
		f.extStatus = make(map[int]string)
	}
	f.extStatus[index] = descriptor
	f.onlyModified = false
}

// OnlyModified reports whether every entry so far is exactly StatusModified.
// Once any other flag has been applied it stays false for the lifetime of
// the set.
func (f *FileStatusSet) OnlyModified() bool {
	return f.onlyModified
}

// IndexOf returns the position of path, or -1 when absent.
func (f *FileStatusSet) IndexOf(path string) int {
	for i, file := range f.files {
		if file == path {
			return i
		}
	}
	return -1
}

func (f *FileStatusSet) checkIndex(index int) {
	if index < 0 || index >= len(f.files) {
		panic(fmt.Sprintf("filestatus: index %d out of range [0,%d)", index, len(f.files)))
	}
}

// String summarizes the set for debug logging.
func (f *FileStatusSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d files", len(f.files))
	if f.onlyModified {
		b.WriteString(" (only modified)")
	}
	return b.String()
}
