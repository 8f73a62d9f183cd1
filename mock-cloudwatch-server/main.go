package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	targetCreateLogStream = "Logs_20140328.CreateLogStream"
	targetPutLogEvents    = "Logs_20140328.PutLogEvents"
	amzJSON               = "application/x-amz-json-1.1"
)

type LogEvent struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type CreateLogStreamRequest struct {
	LogGroupName  string `json:"logGroupName"`
	LogStreamName string `json:"logStreamName"`
}

type PutLogEventsRequest struct {
	LogGroupName  string     `json:"logGroupName"`
	LogStreamName string     `json:"logStreamName"`
	LogEvents     []LogEvent `json:"logEvents"`
}

type PutLogEventsResponse struct {
	NextSequenceToken string `json:"nextSequenceToken"`
}

type ErrorResponse struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

type streamKey struct {
	group, stream string
}

type logStream struct {
	created time.Time
	events  []LogEvent
	token   int
	// histograms counts accepted events per histogram name.
	histograms map[string]int
}

// logStore keeps the streams created through the mock in memory.
type logStore struct {
	mu      sync.Mutex
	streams map[streamKey]*logStream
}

func newLogStore() *logStore {
	return &logStore{streams: make(map[streamKey]*logStream)}
}

// apiError is returned by the operations and rendered as an AWS JSON
// error.
type apiError struct {
	code    string
	message string
	status  int
}

func (e *apiError) Error() string { return e.code + ": " + e.message }

func badRequest(code, format string, args ...any) *apiError {
	return &apiError{code: code, message: fmt.Sprintf(format, args...), status: http.StatusBadRequest}
}

func (s *logStore) createLogStream(req CreateLogStreamRequest) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := streamKey{req.LogGroupName, req.LogStreamName}
	if _, exists := s.streams[key]; exists {
		return nil, badRequest("ResourceAlreadyExistsException", "Log stream %s already exists", req.LogStreamName)
	}
	s.streams[key] = &logStream{created: time.Now(), histograms: make(map[string]int)}
	log.Printf("[ info] Created log stream %s/%s", req.LogGroupName, req.LogStreamName)
	return struct{}{}, nil
}

// putLogEvents stores the batch only when every message is a valid
// histogram event stamped with its own timestamp.
func (s *logStore) putLogEvents(req PutLogEventsRequest) (any, error) {
	hists := make([]HistogramEvent, len(req.LogEvents))
	size := 0
	for i, event := range req.LogEvents {
		if err := json.Unmarshal([]byte(event.Message), &hists[i]); err != nil {
			return nil, badRequest("InvalidParameterException", "event %d: %v", i, err)
		}
		if hists[i].Timestamp != event.Timestamp {
			return nil, badRequest("InvalidParameterException",
				"histogram %s timestamp %d does not match event timestamp %d", hists[i].Name, hists[i].Timestamp, event.Timestamp)
		}
		if err := validateEvent(hists[i]); err != nil {
			return nil, badRequest("InvalidParameterException", "%v", err)
		}
		size += len(event.Message)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream, exists := s.streams[streamKey{req.LogGroupName, req.LogStreamName}]
	if !exists {
		return nil, badRequest("ResourceNotFoundException", "Log stream %s/%s does not exist", req.LogGroupName, req.LogStreamName)
	}
	stream.events = append(stream.events, req.LogEvents...)
	for _, h := range hists {
		stream.histograms[h.Name]++
	}
	stream.token++

	log.Printf("[ info] Stored %d histogram events (%d Bytes), stream totals %v", len(req.LogEvents), size, stream.histograms)
	return PutLogEventsResponse{NextSequenceToken: fmt.Sprintf("token-%d", stream.token)}, nil
}

func (s *logStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := checkHeaders(r); err != nil {
		writeError(w, err)
		return
	}

	var resp any
	var err error
	switch target := r.Header.Get("X-Amz-Target"); target {
	case targetCreateLogStream:
		var req CreateLogStreamRequest
		if err = decode(r, &req); err == nil {
			resp, err = s.createLogStream(req)
		}
	case targetPutLogEvents:
		var req PutLogEventsRequest
		if err = decode(r, &req); err == nil {
			resp, err = s.putLogEvents(req)
		}
	default:
		log.Printf("404 Not Found: %s %s (Target: %s)", r.Method, r.URL.Path, target)
		err = &apiError{code: "UnknownOperationException", message: "Unknown operation", status: http.StatusNotFound}
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", amzJSON)
	json.NewEncoder(w).Encode(resp)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("InvalidParameterException", "%v", err)
	}
	return nil
}

// checkHeaders rejects requests the AWS SDK would never send: unsigned,
// without a target or with another protocol.
func checkHeaders(r *http.Request) error {
	auth := parseAuthHeader(r.Header.Values("Authorization"))
	if auth == nil {
		return badRequest("MissingHeaderException", "Missing Authorization header")
	}
	if auth["Signature"] == "" {
		return badRequest("MissingHeaderException", "Missing Signature header")
	}
	if r.Header.Get("X-Amz-Target") == "" {
		return badRequest("MissingHeaderException", "Missing X-Amz-Target header")
	}
	if r.Header.Get("Content-Type") != amzJSON {
		return badRequest("InvalidHeaderException", "Invalid Content-Type")
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*apiError)
	if !ok {
		apiErr = &apiError{code: "InternalFailure", message: err.Error(), status: http.StatusInternalServerError}
	}
	w.Header().Set("Content-Type", amzJSON)
	w.Header().Set("X-Amzn-Errortype", apiErr.code)
	w.WriteHeader(apiErr.status)
	json.NewEncoder(w).Encode(ErrorResponse{Type: apiErr.code, Message: apiErr.message})
}

// parseAuthHeader splits a SigV4 Authorization header into its key=value
// parts.
func parseAuthHeader(values []string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	auth := make(map[string]string)
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' }) {
			key, value, _ := strings.Cut(part, "=")
			auth[key] = strings.Trim(value, "\"")
		}
	}
	return auth
}

type timestampWriter struct{}

func (timestampWriter) Write(b []byte) (int, error) {
	return fmt.Print("[" + time.Now().UTC().Format("2006/01/02 15:04:05") + "] " + string(b))
}

func main() {
	log.SetFlags(0)
	log.SetOutput(timestampWriter{})
	port := ":" + os.Getenv("PORT")

	log.Printf("Starting mock CloudWatch Logs server for histogram events on port %s", port)
	log.Fatal(http.ListenAndServe(port, newLogStore()))
}
