package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"transcribe-all/internal/app/api"
)

// MockTranscriber is a configurable api.Transcriber for batch tests.
// Responses and errors can be set per file; every call is recorded in order.
// Once an Expect* method is used, calls are also routed through testify's mock
// so AssertExpectations works.
type MockTranscriber struct {
	mock.Mock
	mu sync.RWMutex

	DefaultResponse string
	DefaultError    error

	ResponseMap map[string]string
	ErrorMap    map[string]error
	CallHistory []TranscriptionCall

	// OnCall runs before the response is chosen, with the call's 1-based index.
	OnCall func(call int, inputFilePath string)

	expectations bool
}

// TranscriptionCall represents a single recorded Transcript call.
type TranscriptionCall struct {
	InputFilePath string
	Timestamp     time.Time
	Response      string
	Error         error
}

func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		ResponseMap: make(map[string]string),
		ErrorMap:    make(map[string]error),
	}
}

// Transcript implements the api.Transcriber interface. Without a configured
// response it returns "transcript of <file name>".
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	m.mu.Lock()
	call := TranscriptionCall{InputFilePath: inputFilePath, Timestamp: time.Now()}
	onCall := m.OnCall
	index := len(m.CallHistory) + 1
	m.mu.Unlock()

	if onCall != nil {
		onCall(index, inputFilePath)
	}

	m.mu.Lock()
	if err := ctx.Err(); err != nil {
		call.Error = err
	} else if err, ok := m.ErrorMap[inputFilePath]; ok {
		call.Error = err
	} else if m.DefaultError != nil {
		call.Error = m.DefaultError
	} else if response, ok := m.ResponseMap[inputFilePath]; ok {
		call.Response = response
	} else if m.DefaultResponse != "" {
		call.Response = m.DefaultResponse
	} else {
		call.Response = fmt.Sprintf("transcript of %s", filepath.Base(inputFilePath))
	}
	m.CallHistory = append(m.CallHistory, call)
	expectations := m.expectations
	m.mu.Unlock()

	if expectations {
		args := m.Called(inputFilePath)
		return args.String(0), args.Error(1)
	}
	return call.Response, call.Error
}

// SetResponseForFile sets the text returned for a given file path.
func (m *MockTranscriber) SetResponseForFile(filePath string, response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[filePath] = response
	return m
}

// SetErrorForFile makes Transcript fail for a given file path.
func (m *MockTranscriber) SetErrorForFile(filePath string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[filePath] = err
	return m
}

func (m *MockTranscriber) WithDefaultResponse(response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResponse = response
	return m
}

func (m *MockTranscriber) WithDefaultError(err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// GetCallCount returns the total number of calls made.
func (m *MockTranscriber) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.CallHistory)
}

// GetCallHistory returns a copy of the call history.
func (m *MockTranscriber) GetCallHistory() []TranscriptionCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	history := make([]TranscriptionCall, len(m.CallHistory))
	copy(history, m.CallHistory)
	return history
}

// CalledPaths returns the input paths in call order.
func (m *MockTranscriber) CalledPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.CallHistory))
	for _, call := range m.CallHistory {
		paths = append(paths, call.InputFilePath)
	}
	return paths
}

// WasCalledWith checks if the transcriber was called with a specific file path.
func (m *MockTranscriber) WasCalledWith(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, call := range m.CallHistory {
		if call.InputFilePath == filePath {
			return true
		}
	}
	return false
}

// ExpectTranscriptCall sets up a testify expectation for a specific path.
func (m *MockTranscriber) ExpectTranscriptCall(filePath string, response string, err error) *mock.Call {
	m.mu.Lock()
	m.expectations = true
	m.mu.Unlock()
	return m.On("Transcript", filePath).Return(response, err)
}

var _ api.Transcriber = (*MockTranscriber)(nil)
