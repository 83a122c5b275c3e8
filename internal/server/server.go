package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/veridoc/docscan/internal/imaging"
	"github.com/veridoc/docscan/internal/ocr"
	"github.com/veridoc/docscan/internal/scan"
)

// Request is an incoming line-delimited JSON request.
type Request struct {
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is an outgoing result or error for one request.
type Response struct {
	ID     interface{} `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  *Error      `json:"error,omitempty"`
}

// Error carries a machine-readable code and a human-readable message.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Error codes, JSON-RPC flavored.
const (
	codeParseError     = -32700
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeExecution      = -32000
)

// Server dispatches pipeline operations for frames addressed by file path.
type Server struct {
	frames  *imaging.FrameCache
	scanner *scan.Scanner
	reader  *ocr.FieldReader
	log     *logrus.Logger
}

// New creates a Server around an existing scanner and field reader.
func New(scanner *scan.Scanner, reader *ocr.FieldReader, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		frames:  imaging.NewFrameCache(),
		scanner: scanner,
		reader:  reader,
		log:     log,
	}
}

// Run reads newline-delimited requests from in and writes responses to out
// until in is exhausted. Malformed lines are logged and skipped; they never
// terminate the service.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Frames are addressed by path, not inlined, so lines stay small; 1 MiB
	// headroom covers any reasonable params payload.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request line")
			continue
		}

		resp := s.handleRequest(&req)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("request stream error: %w", err)
	}
	return nil
}

// handleRequest routes one request to its method handler.
func (s *Server) handleRequest(req *Request) *Response {
	switch req.Method {
	case "ping":
		return &Response{ID: req.ID, Result: map[string]interface{}{}}
	case "document_detect":
		return s.handleDetect(req)
	case "document_verify":
		return s.handleVerify(req)
	case "document_read_fields":
		return s.handleReadFields(req)
	default:
		return &Response{
			ID: req.ID,
			Error: &Error{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("method not found: %s", req.Method),
			},
		}
	}
}

// errorResponse builds an error response for req with the given code.
func errorResponse(id interface{}, code int, message string, detail string) *Response {
	return &Response{
		ID:    id,
		Error: &Error{Code: code, Message: message, Data: detail},
	}
}
