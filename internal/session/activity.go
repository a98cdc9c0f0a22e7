// SPDX-License-Identifier: MPL-2.0

package session

// ActivityKind names the operation category recorded against session
// telemetry events. It is a label only and never drives control flow.
type ActivityKind int

const (
	ActivityFetch ActivityKind = iota
	ActivityInstall
	ActivityUninstall
	ActivityCurrent
	ActivityDeactivate
	ActivityActivate
	ActivityDefault
	ActivityPin
	ActivityNode
	ActivityNpm
	ActivityNpx
	ActivityYarn
	ActivityAnchor
	ActivityTool
	ActivityHelp
	ActivityVersion
	ActivityBinary
	ActivityShim
)

// String returns the telemetry label for the activity kind.
func (k ActivityKind) String() string {
	switch k {
	case ActivityFetch:
		return "fetch"
	case ActivityInstall:
		return "install"
	case ActivityUninstall:
		return "uninstall"
	case ActivityCurrent:
		return "current"
	case ActivityDeactivate:
		return "deactivate"
	case ActivityActivate:
		return "activate"
	case ActivityDefault:
		return "default"
	case ActivityPin:
		return "pin"
	case ActivityNode:
		return "node"
	case ActivityNpm:
		return "npm"
	case ActivityNpx:
		return "npx"
	case ActivityYarn:
		return "yarn"
	case ActivityAnchor:
		return "anchor"
	case ActivityTool:
		return "tool"
	case ActivityHelp:
		return "help"
	case ActivityVersion:
		return "version"
	case ActivityBinary:
		return "binary"
	case ActivityShim:
		return "shim"
	default:
		return "unknown"
	}
}

// ExitCode classifies the process exit status of an anchor invocation.
type ExitCode int

const (
	ExitSuccess            ExitCode = 0
	ExitUnknownError       ExitCode = 1
	ExitInvalidArguments   ExitCode = 3
	ExitNoVersionMatch     ExitCode = 4
	ExitNetworkError       ExitCode = 5
	ExitConfigurationError ExitCode = 6
	ExitExecutionFailure   ExitCode = 126
	ExitNotFound           ExitCode = 127
)
