package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateEvent(t *testing.T) {
	for _, tc := range []struct {
		name  string
		event string
		ok    bool
	}{
		{"numeric", `{"name":"a","axes":[[0,1]],"bins":[0,1,0]}`, true},
		{"schema", `{"name":"a","axes":[[0,1],[0,5,10]],"bins":[["w","w2"],[[0,0],[1,1],[0,0],[0,0],[0,0],[0,0],[0,0],[0,0],[0,0],[0,0],[0,0],[0,0]]]}`, true},
		{"short", `{"name":"a","axes":[[0,1]],"bins":[0,1]}`, false},
		{"unsorted", `{"name":"a","axes":[[1,0]],"bins":[0,1,0]}`, false},
		{"fields", `{"name":"a","axes":[[0,1]],"bins":[["w"],[[0],[1,1],[0]]]}`, false},
		{"unnamed", `{"axes":[[0,1]],"bins":[0,1,0]}`, false},
	} {
		var ev HistogramEvent
		if err := json.Unmarshal([]byte(tc.event), &ev); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		err := validateEvent(ev)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func post(t *testing.T, store *logStore, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Authorization", "AWS4-HMAC-SHA256 Credential=test/20240101/us-east-1/logs/aws4_request, SignedHeaders=host, Signature=abc")
	req.Header.Set("X-Amz-Target", target)
	req.Header.Set("Content-Type", amzJSON)
	rec := httptest.NewRecorder()
	store.ServeHTTP(rec, req)
	return rec
}

func TestPutLogEvents(t *testing.T) {
	store := newLogStore()
	stream := CreateLogStreamRequest{LogGroupName: "g", LogStreamName: "s"}

	if rec := post(t, store, targetCreateLogStream, stream); rec.Code != http.StatusOK {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	rec := post(t, store, targetCreateLogStream, stream)
	if rec.Code != http.StatusBadRequest || rec.Header().Get("X-Amzn-Errortype") != "ResourceAlreadyExistsException" {
		t.Fatalf("duplicate create: %d %s", rec.Code, rec.Body)
	}

	put := PutLogEventsRequest{
		LogGroupName:  "g",
		LogStreamName: "s",
		LogEvents: []LogEvent{
			{Message: `{"name":"a","timestamp":5,"axes":[[0,1]],"bins":[0,1,0]}`, Timestamp: 5},
		},
	}
	if rec := post(t, store, targetPutLogEvents, put); rec.Code != http.StatusOK {
		t.Fatalf("put: %d %s", rec.Code, rec.Body)
	}
	s := store.streams[streamKey{"g", "s"}]
	if len(s.events) != 1 || s.histograms["a"] != 1 {
		t.Fatalf("stored %d events, %v", len(s.events), s.histograms)
	}

	put.LogEvents[0].Timestamp = 6
	if rec := post(t, store, targetPutLogEvents, put); rec.Code != http.StatusBadRequest {
		t.Fatalf("mismatched timestamp accepted: %d", rec.Code)
	}
	if len(s.events) != 1 {
		t.Fatalf("stored %d events after rejection", len(s.events))
	}

	put.LogStreamName = "missing"
	put.LogEvents[0].Timestamp = 5
	if rec := post(t, store, targetPutLogEvents, put); rec.Code != http.StatusBadRequest {
		t.Fatalf("put to missing stream: %d", rec.Code)
	}
}

func TestRejectsUnsignedRequests(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-Amz-Target", targetCreateLogStream)
	req.Header.Set("Content-Type", amzJSON)
	rec := httptest.NewRecorder()
	newLogStore().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsigned request: %d", rec.Code)
	}
}
