// Package device talks to the ZKTeco fingerprint terminals through the
// vendored Python scripts. Each call shells out once, reads a single JSON
// document from stdout and never touches the device protocol directly.
package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrProvisioningFailed = errors.New("device provisioning failed")

// Client runs the device scripts. pythonBin is usually just "python";
// scriptDir is where the .py files live.
type Client struct {
	pythonBin string
	scriptDir string
}

func NewClient(pythonBin, scriptDir string) *Client {
	return &Client{pythonBin: pythonBin, scriptDir: scriptDir}
}

// PunchLog mirrors one entry of the read script's "data" array.
type PunchLog struct {
	UserID      string `json:"UserID"`
	Time        string `json:"Time"`
	CheckStatus string `json:"CheckStatus"`
}

type addUserResult struct {
	Success         bool   `json:"success"`
	GeneratedUserID string `json:"generated_user_id"`
	Error           string `json:"error"`
}

type readLogsResult struct {
	Success bool       `json:"success"`
	Data    []PunchLog `json:"data"`
	Error   string     `json:"error"`
}

// AddUser provisions a user on the terminal and returns the device-side user
// id the script generated.
func (c *Client) AddUser(ctx context.Context, deviceIP, username string) (string, error) {
	out, err := c.run(ctx, "AddNewUserToDevice.py", deviceIP, username)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}

	var res addUserResult
	if err := json.Unmarshal(out, &res); err != nil {
		return "", fmt.Errorf("%w: bad script output: %v", ErrProvisioningFailed, err)
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = "unknown error from device"
		}
		return "", fmt.Errorf("%w: %s", ErrProvisioningFailed, msg)
	}
	return res.GeneratedUserID, nil
}

// ReadLogs fetches the punch log buffer from one terminal.
func (c *Client) ReadLogs(ctx context.Context, deviceIP string) ([]PunchLog, error) {
	out, err := c.run(ctx, "read_zk.py", deviceIP)
	if err != nil {
		return nil, err
	}

	var res readLogsResult
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, fmt.Errorf("bad script output: %w", err)
	}
	if res.Error != "" {
		return nil, fmt.Errorf("device %s: %s", deviceIP, res.Error)
	}
	return res.Data, nil
}

func (c *Client) run(ctx context.Context, script string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{filepath.Join(c.scriptDir, script)}, args...)
	cmd := exec.CommandContext(ctx, c.pythonBin, cmdArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v", script, err)
	}
	// The scripts report problems on stderr even when they exit zero.
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return nil, fmt.Errorf("%s: %s", script, msg)
	}
	return []byte(stdout.String()), nil
}
