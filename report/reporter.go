package report

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
)

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user during program execution.  The reporter respects the set
// log level and is synchronized: its methods can be safely called from multiple
// goroutines.
type Reporter struct {
	// The mutex used to synchonize different error method calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been detected.
	isErr bool
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all messages to the user (default).
)

// LogLevelNames maps the textual log level names accepted on the command line
// and in profiles to their log level.
var LogLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarn,
	"verbose": LogLevelVerbose,
}

// rep is the global reporter instance.
var rep *Reporter

// repOnce guards the lazy default initialization of rep.
var repOnce sync.Once

// InitReporter initializes the global error reporter to the given log level. If
// the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	repOnce.Do(func() {
		rep = &Reporter{
			m:        &sync.Mutex{},
			logLevel: logLevel,
			isErr:    false,
		}
	})
}

// getReporter returns the global reporter, initializing it at the verbose log
// level if nobody has done so yet.
func getReporter() *Reporter {
	InitReporter(LogLevelVerbose)
	return rep
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	displayICE(fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause all
// compilation to stop immediately: unreadable input, invalid profiles, etc.
func ReportFatal(message string, args ...interface{}) {
	r := getReporter()
	if r.logLevel > LogLevelSilent {
		r.m.Lock()
		defer r.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportCompileError reports a compilation error: ie. erroneous input code. The
// absPath is the absolute path to the erroneous source file. The reprPath is
// the path displayed to the user.  The span may be nil in which case no
// position information will be printed.
func ReportCompileError(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		displayCompileMessage("error", absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a compilation warning.  The arguments are of the
// same form as those to ReportCompileError.
func ReportCompileWarning(absPath, reprPath string, span *TextSpan, message string, args ...interface{}) {
	r := getReporter()
	if r.logLevel > LogLevelError {
		r.m.Lock()
		defer r.m.Unlock()

		displayCompileMessage("warning", absPath, reprPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportError reports an arbitrary error produced while processing the file at
// the given paths.  Errors carrying a span are displayed as compile errors.
func ReportError(absPath, reprPath string, err error) {
	var lce *LocalCompileError
	if errors.As(err, &lce) {
		ReportCompileError(absPath, reprPath, lce.Span, "%s", lce.Message)
	} else {
		ReportStdError(reprPath, err)
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func ReportStdError(reprPath string, err error) {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	r.isErr = true

	if r.logLevel > LogLevelSilent {
		displayStdError(reprPath, err)
	}
}

// ReportInfo displays an informational message tagged with the given tag.
func ReportInfo(tag, message string, args ...interface{}) {
	r := getReporter()
	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		displayInfo(tag, fmt.Sprintf(message, args...))
	}
}

// -----------------------------------------------------------------------------

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	r := getReporter()
	r.m.Lock()
	defer r.m.Unlock()

	return r.isErr
}

// CatchErrors catches any errors thrown by a `panic` during a stage of
// compilation. In effect, this handler determines when any errors
// "unrecoverable" within a given subsection of the compiler should stop
// bubbling.
// NB: This function must ALWAYS be deferred.
func CatchErrors(absPath, reprPath string) {
	if x := recover(); x != nil {
		if cerr, ok := x.(*LocalCompileError); ok {
			ReportCompileError(
				absPath,
				reprPath,
				cerr.Span,
				"%s",
				cerr.Message,
			)
		} else if serr, ok := x.(error); ok {
			ReportStdError(reprPath, serr)
		} else {
			ReportFatal("%s", x)
		}
	}
}

// Recover converts a recovered panic value into an error: local compile errors
// and standard errors are returned as is; runtime faults and anything else are
// re-panicked.
// This is the error-returning counterpart of CatchErrors and must also be
// called from a deferred function.
func Recover(x interface{}, dest *error) {
	if x == nil {
		return
	}

	switch v := x.(type) {
	case *LocalCompileError:
		*dest = v
	case runtime.Error:
		panic(x)
	case error:
		*dest = v
	default:
		panic(x)
	}
}
