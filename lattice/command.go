/*
	This file holds types and functions supporting command-line activity.
*/

package lattice

import "strings"

// Keys for setting various arguments within the command line via "key=value" strings.
const (
	KeyConfigFile = "config"
	KeyRegion     = "region"
	KeyName       = "name"
	KeyFormat     = "format"
)

var setKeys = map[string]bool{
	KeyConfigFile: true,
	KeyRegion:     true,
	KeyName:       true,
	KeyFormat:     true,
}

// Command supports command-line interaction.  The first item in the string slice
// is the command, e.g., "count" or "import".  The other arguments are command
// arguments or optional settings of the form "<key>=<value>".
type Command []string

// String returns a space-separated command line
func (cmd Command) String() string {
	return strings.Join([]string(cmd), " ")
}

// Name returns the first argument which is assumed to be the name of the command.
func (cmd Command) Name() string {
	if len(cmd) == 0 {
		return ""
	}
	return cmd[0]
}

// Argument returns the nth non-setting argument where the command name is 0.
// If there is no such argument, the empty string is returned.
func (cmd Command) Argument(pos int) string {
	if pos == 0 {
		return cmd.Name()
	}
	var n int
	for _, arg := range cmd[1:] {
		if isSetting(arg) {
			continue
		}
		n++
		if n == pos {
			return arg
		}
	}
	return ""
}

// Parameter scans a command for any "key=value" argument and returns
// the value of the passed 'key'.
func (cmd Command) Parameter(key string) (value string, found bool) {
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			elems := strings.SplitN(arg, "=", 2)
			if len(elems) == 2 && elems[0] == key {
				value = elems[1]
				found = true
				return
			}
		}
	}
	return
}

// Settings returns a Config of all "key=value" arguments.
func (cmd Command) Settings() Config {
	config := NewConfig()
	if len(cmd) > 1 {
		for _, arg := range cmd[1:] {
			elems := strings.SplitN(arg, "=", 2)
			if len(elems) == 2 {
				config.Set(elems[0], elems[1])
			}
		}
	}
	return config
}

// CommandArgs sets a variadic argument set of string pointers to command
// arguments, ignoring setting arguments of the form "<key>=<value>".
// If there aren't enough arguments to set a target, the target is set to the
// empty string.  It returns an 'overflow' slice that has all arguments
// beyond those needed for targets.
func (cmd Command) CommandArgs(targets ...*string) (overflow []string) {
	overflow = make([]string, 0, len(cmd))
	for _, target := range targets {
		*target = ""
	}
	if len(cmd) > 1 {
		curTarget := 0
		for _, arg := range cmd[1:] {
			if isSetting(arg) {
				continue
			}
			if curTarget >= len(targets) {
				overflow = append(overflow, arg)
			} else {
				*(targets[curTarget]) = arg
			}
			curTarget++
		}
	}
	return
}

func isSetting(arg string) bool {
	elems := strings.SplitN(arg, "=", 2)
	if len(elems) != 2 {
		return false
	}
	return setKeys[elems[0]]
}
