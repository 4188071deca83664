package litquiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestClientRejectsBadCredentialWithoutRequest(t *testing.T) {
	srv, hits := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	})
	client := NewClient(srv.URL, ProviderGemini.CredentialPrefix(), srv.Client())

	_, err := client.GenerateQuiz(context.Background(), QuizRequest{ChapterID: "ff_p1", Credential: "sk-wrong"})
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	_, err = client.GenerateQuiz(context.Background(), QuizRequest{ChapterID: "ff_p1"})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if atomic.LoadInt32(hits) != 0 {
		t.Fatalf("expected no requests, got %d", *hits)
	}
}

func TestClientGenerateQuiz(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate-quiz" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req GenerateQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode failed: %v", err)
		}
		if req.ChapterID != "ff_p1" || req.Key() != testCredential {
			t.Errorf("unexpected body %+v", req)
		}
		json.NewEncoder(w).Encode(GenerateQuizResponse{Success: true, Quiz: sampleQuiz(3)})
	})
	client := NewClient(srv.URL+"/", "AIza", srv.Client())

	quiz, err := client.GenerateQuiz(context.Background(), QuizRequest{ChapterID: "ff_p1", Credential: testCredential})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(quiz.Questions))
	}
}

func TestClientGenerationFailure(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateQuizResponse{Error: GenerationFailedMessage})
	})
	client := NewClient(srv.URL, "AIza", srv.Client())

	quiz, err := client.GenerateQuiz(context.Background(), QuizRequest{ChapterID: "ff_p1", Credential: testCredential})
	if quiz != nil || !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %+v, %v", quiz, err)
	}
}

func TestClientChapters(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"collections": AllChapters()})
	})
	collections, err := NewClient(srv.URL, "AIza", nil).Chapters(context.Background())
	if err != nil {
		t.Fatalf("chapters failed: %v", err)
	}
	if len(collections) != 2 || collections[1].Key != "footprints" {
		t.Fatalf("unexpected collections %+v", collections)
	}
}

func TestGenerateQuizRequestKey(t *testing.T) {
	var req GenerateQuizRequest
	if err := json.Unmarshal([]byte(`{"chapter_id": "ff_p1", "api_key": "AIzaLegacy"}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.Key() != "AIzaLegacy" {
		t.Fatalf("expected legacy api_key to be used, got %q", req.Key())
	}
	req.Credential = "AIzaNew"
	if req.Key() != "AIzaNew" {
		t.Fatalf("expected credential to win, got %q", req.Key())
	}
}

func TestClientRejectsMalformedQuiz(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		quiz := sampleQuiz(1)
		quiz.Questions[0].Options = []string{"a", "b", "c", "d", "e", "f"}
		quiz.Questions[0].Correct = 9
		json.NewEncoder(w).Encode(GenerateQuizResponse{Success: true, Quiz: quiz})
	})
	client := NewClient(srv.URL, "AIza", srv.Client())

	quiz, err := client.GenerateQuiz(context.Background(), QuizRequest{ChapterID: "ff_p1", Credential: testCredential})
	if quiz != nil || !errors.Is(err, ErrMalformedQuestion) {
		t.Fatalf("expected ErrMalformedQuestion, got %+v, %v", quiz, err)
	}
}
