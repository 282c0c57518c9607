package app

import (
	"github.com/chmouel/lazystage/internal/models"
)

type statusLoadedMsg struct {
	set *models.FileStatusSet
}

type branchInfoMsg struct {
	branch string
	ahead  int
	behind int
}

type watchStartedMsg struct {
	started bool
}

type watchEventMsg struct{}

type commitDoneMsg struct {
	result models.CommitResult
}

type diffLoadedMsg struct {
	path    string
	content string
}
