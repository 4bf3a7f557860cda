package shell

import (
	"strings"
)

// MockExecutor implements Executor for testing
type MockExecutor struct {
	// Commands records all executed commands for verification
	Commands []string
	// PTYCommands records the commands that went through RunPTY
	PTYCommands []string
	// Requests and PTYRequests keep the received requests, to inspect mode and input
	Requests    []ProcessRequest
	PTYRequests []PTYRequest
	// Responses maps command patterns to (code, output, error)
	Responses map[string]MockResponse
	// DefaultError is returned when no matching response is found
	DefaultError error
}

// MockResponse holds the mocked response for a command
type MockResponse struct {
	Code   int
	Output string
	Err    error
}

// NewMockExecutor creates a new MockExecutor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  []string{},
		Responses: make(map[string]MockResponse),
	}
}

// RunProcess records the request and returns the mocked response
func (m *MockExecutor) RunProcess(req ProcessRequest) (int, string, error) {
	cmdStr := req.Display()
	m.Commands = append(m.Commands, cmdStr)
	m.Requests = append(m.Requests, req)
	return m.respond(cmdStr)
}

// RunPTY records the request and returns the mocked response
func (m *MockExecutor) RunPTY(req PTYRequest) (int, string, error) {
	cmdStr := Quote(req.Argv)
	m.Commands = append(m.Commands, cmdStr)
	m.PTYCommands = append(m.PTYCommands, cmdStr)
	m.PTYRequests = append(m.PTYRequests, req)
	return m.respond(cmdStr)
}

func (m *MockExecutor) respond(cmdStr string) (int, string, error) {
	for pattern, response := range m.Responses {
		if strings.Contains(cmdStr, pattern) {
			return response.Code, response.Output, response.Err
		}
	}
	return 0, "", m.DefaultError
}

// SetResponse sets a response for commands matching the pattern
func (m *MockExecutor) SetResponse(pattern string, code int, output string, err error) {
	m.Responses[pattern] = MockResponse{
		Code:   code,
		Output: output,
		Err:    err,
	}
}

// SetError sets a response with only an error
func (m *MockExecutor) SetError(pattern string, err error) {
	m.SetResponse(pattern, 0, "", err)
}

// SetOutput sets a successful response with output
func (m *MockExecutor) SetOutput(pattern string, output string) {
	m.SetResponse(pattern, 0, output, nil)
}

// CommandCount returns the number of times a command matching the pattern was executed
func (m *MockExecutor) CommandCount(pattern string) int {
	count := 0
	for _, cmd := range m.Commands {
		if strings.Contains(cmd, pattern) {
			count++
		}
	}
	return count
}
