// Package models defines the data objects shared across lazystage packages.
package models

// CommitResult is the outcome of a commit operation. It replaces process-wide
// "last error" state: the failed message travels with the result so the UI can
// restore it into the editor.
type CommitResult struct {
	Success bool
	Sha     string // Short SHA of the created commit when Success
	Msg     string // The message that was attempted, kept on failure
	Err     error
}

// StatusCounts summarizes a FileStatusSet per bucket.
type StatusCounts struct {
	Untracked int
	Unstaged  int
	Staged    int
	Conflicts int
}

// CountBuckets tallies the entries of a set per display bucket.
func CountBuckets(set *FileStatusSet) StatusCounts {
	var counts StatusCounts
	if set == nil {
		return counts
	}
	for i := 0; i < set.Count(); i++ {
		st := set.Status(i)
		switch st.Bucket() {
		case BucketUntracked:
			counts.Untracked++
		case BucketStaged:
			counts.Staged++
		default:
			counts.Unstaged++
		}
		if st&StatusConflict != 0 {
			counts.Conflicts++
		}
	}
	return counts
}
