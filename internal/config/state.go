package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State holds session state persisted between runs.
type State struct {
	Files map[string]FileState `json:"files"`
}

// FileState remembers where the user left off in a file.
type FileState struct {
	CursorLine int `json:"cursor_line"`
	CursorCh   int `json:"cursor_ch"`
}

// LoadState reads session state from ~/.config/livemark/state.json.
func LoadState() (*State, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}

	state := &State{
		Files: make(map[string]FileState),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SaveState writes session state to ~/.config/livemark/state.json.
func SaveState(state *State) error {
	dir, err := EnsureDataDir()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "state.json")
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// FileState returns the remembered state for a file path.
func (s *State) FileState(path string) FileState {
	if s == nil || s.Files == nil {
		return FileState{}
	}
	return s.Files[path]
}

// SetFileState records the state for a file path.
func (s *State) SetFileState(path string, fs FileState) {
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	s.Files[path] = fs
}

func statePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}
