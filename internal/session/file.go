package session

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/ptt-dev/ptt/internal/osutil"
)

// SessionFile is the name of the JSON session state file
const SessionFile = "session.json"

// GetSessionPath returns the path to the session state file in the
// application directory.
func GetSessionPath() (string, error) {
	return osutil.AppFile(SessionFile)
}

// Save writes the state to path.
// Uses atomic write pattern (write to temp file, then rename) for safety.
func Save(path string, state State) error {
	data, err := sonic.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, path)
}

// Load reads the state from path.
// Returns an idle State if the file doesn't exist.
// Returns an error if the file exists but cannot be read or parsed.
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}

	var state State
	if err := sonic.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Clear removes the state file.
// Returns nil if the file doesn't exist (idempotent operation).
func Clear(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
