package aggregate

import (
	"catchminer/internal/predicate"
	"catchminer/internal/syntax"
)

// CodeStats are the size and logging statistics of a file, or the sum over
// a corpus.
type CodeStats struct {
	LOC               int `json:"loc" yaml:"loc"`
	LoggedLOC         int `json:"loggedLoc" yaml:"loggedLoc"`
	Calls             int `json:"calls" yaml:"calls"`
	LoggingCalls      int `json:"loggingCalls" yaml:"loggingCalls"`
	Classes           int `json:"classes" yaml:"classes"`
	LoggedClasses     int `json:"loggedClasses" yaml:"loggedClasses"`
	Methods           int `json:"methods" yaml:"methods"`
	LoggedMethods     int `json:"loggedMethods" yaml:"loggedMethods"`
	LoggedFiles       int `json:"loggedFiles" yaml:"loggedFiles"`
	CatchBlocks       int `json:"catchBlocks" yaml:"catchBlocks"`
	LoggedCatchBlocks int `json:"loggedCatchBlocks" yaml:"loggedCatchBlocks"`
	GuardedCalls      int `json:"guardedCalls" yaml:"guardedCalls"`
}

// Add sums o into s.
func (s *CodeStats) Add(o CodeStats) {
	s.LOC += o.LOC
	s.LoggedLOC += o.LoggedLOC
	s.Calls += o.Calls
	s.LoggingCalls += o.LoggingCalls
	s.Classes += o.Classes
	s.LoggedClasses += o.LoggedClasses
	s.Methods += o.Methods
	s.LoggedMethods += o.LoggedMethods
	s.LoggedFiles += o.LoggedFiles
	s.CatchBlocks += o.CatchBlocks
	s.LoggedCatchBlocks += o.LoggedCatchBlocks
	s.GuardedCalls += o.GuardedCalls
}

// FileStats measures f. A class, method or catch clause counts as logged
// when it contains a logging call; GuardedCalls is left for the caller.
func FileStats(f *syntax.File, lib *predicate.Library) CodeStats {
	s := CodeStats{LOC: f.Lines()}
	if f.Root == nil {
		return s
	}

	loggedClasses := make(map[*syntax.Node]bool)
	loggedMethods := make(map[*syntax.Node]bool)
	loggedCatches := make(map[*syntax.Node]bool)

	syntax.Inspect(f.Root, func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.KindClass:
			s.Classes++
		case syntax.KindMethod, syntax.KindConstructor:
			s.Methods++
		case syntax.KindCatch:
			s.CatchBlocks++
		case syntax.KindInvocation:
			s.Calls++
			if !lib.IsLoggingCall(n) {
				break
			}
			s.LoggingCalls++
			s.LoggedLOC += n.LOC()
			if c := n.Ancestor(syntax.KindClass); c != nil {
				loggedClasses[c] = true
			}
			if m := n.Ancestor(syntax.KindMethod, syntax.KindConstructor); m != nil {
				loggedMethods[m] = true
			}
			if c := n.Ancestor(syntax.KindCatch); c != nil {
				loggedCatches[c] = true
			}
		}
		return true
	})

	s.LoggedClasses = len(loggedClasses)
	s.LoggedMethods = len(loggedMethods)
	s.LoggedCatchBlocks = len(loggedCatches)
	if s.LoggingCalls > 0 {
		s.LoggedFiles = 1
	}
	return s
}
