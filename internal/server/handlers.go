package server

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/veridoc/docscan/internal/ocr"
	"github.com/veridoc/docscan/internal/scan"
)

// frameParams is the common parameter shape: a frame addressed by path.
type frameParams struct {
	Path string `json:"path"`
}

// BoundsPayload is the wire form of a located region.
type BoundsPayload struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// DetectPayload is the wire form of a detection result.
type DetectPayload struct {
	Success    bool           `json:"success"`
	Bounds     *BoundsPayload `json:"bounds,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Message    string         `json:"message"`
}

// VerifyPayload is the wire form of a detect-plus-verify result.
type VerifyPayload struct {
	Detection    DetectPayload `json:"detection"`
	Authentic    bool          `json:"authentic"`
	Confidence   float64       `json:"confidence"`
	Features     []string      `json:"detected_features,omitempty"`
	Message      string        `json:"message,omitempty"`
	ProcessingMs float64       `json:"processing_ms"`
}

// FieldsPayload is the wire form of a recognition result.
type FieldsPayload struct {
	Detection DetectPayload `json:"detection"`
	FullText  string        `json:"full_text,omitempty"`
	Fields    []ocr.Field   `json:"fields,omitempty"`
}

func (s *Server) handleDetect(req *Request) *Response {
	det, _, errResp := s.detectFromParams(req)
	if errResp != nil {
		return errResp
	}
	return &Response{ID: req.ID, Result: detectPayload(det)}
}

func (s *Server) handleVerify(req *Request) *Response {
	det, _, errResp := s.detectFromParams(req)
	if errResp != nil {
		return errResp
	}

	payload := VerifyPayload{Detection: detectPayload(det)}
	if !det.Success {
		payload.Message = det.Message
		return &Response{ID: req.ID, Result: payload}
	}

	report, err := s.scanner.Verify(det.Cropped)
	if err != nil {
		return errorResponse(req.ID, codeExecution, "verification failed", err.Error())
	}

	payload.Authentic = report.Authentic
	payload.Confidence = report.Confidence
	payload.Features = report.DetectedFeatures
	payload.Message = report.Message
	payload.ProcessingMs = float64(report.ProcessingTime.Microseconds()) / 1000.0
	return &Response{ID: req.ID, Result: payload}
}

func (s *Server) handleReadFields(req *Request) *Response {
	if s.reader == nil {
		return errorResponse(req.ID, codeExecution, "text recognition unavailable", "no field reader configured")
	}

	det, _, errResp := s.detectFromParams(req)
	if errResp != nil {
		return errResp
	}

	payload := FieldsPayload{Detection: detectPayload(det)}
	if !det.Success {
		return &Response{ID: req.ID, Result: payload}
	}

	fields, err := s.reader.ReadFields(det.Cropped)
	if err != nil {
		return errorResponse(req.ID, codeExecution, "recognition failed", err.Error())
	}
	payload.FullText = fields.FullText
	payload.Fields = fields.Fields
	return &Response{ID: req.ID, Result: payload}
}

// detectFromParams loads the frame named in the request params and runs
// detection on it. The third return value is non-nil on failure and is the
// response to send.
func (s *Server) detectFromParams(req *Request) (*scan.DetectionResult, image.Image, *Response) {
	var params frameParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, nil, errorResponse(req.ID, codeInvalidParams, "invalid params", err.Error())
	}
	if params.Path == "" {
		return nil, nil, errorResponse(req.ID, codeInvalidParams, "invalid params", "path is required")
	}

	frame, err := s.frames.Load(params.Path)
	if err != nil {
		return nil, nil, errorResponse(req.ID, codeExecution, fmt.Sprintf("failed to load frame %s", params.Path), err.Error())
	}

	det, err := s.scanner.Detect(frame)
	if err != nil {
		return nil, nil, errorResponse(req.ID, codeExecution, "detection failed", err.Error())
	}
	return det, frame, nil
}

// detectPayload converts a pipeline result to its wire form.
func detectPayload(det *scan.DetectionResult) DetectPayload {
	p := DetectPayload{
		Success:    det.Success,
		Confidence: det.Confidence,
		Message:    det.Message,
	}
	if det.Success {
		p.Bounds = &BoundsPayload{
			X1: det.Bounds.Min.X,
			Y1: det.Bounds.Min.Y,
			X2: det.Bounds.Max.X,
			Y2: det.Bounds.Max.Y,
		}
	}
	return p
}
