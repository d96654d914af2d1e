package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sadokz/lamaitrise/internal/model"
)

func TestTextHandler_ListByPage(t *testing.T) {
	service := &mockTextService{
		listByPageFunc: func(_ context.Context, page string) ([]*model.SiteText, error) {
			if page != "home" {
				t.Errorf("page = %q, want home", page)
			}
			return []*model.SiteText{
				{Page: "home", Section: "hero", Key: "title", Content: "La Maîtrise"},
				{Page: "home", Section: "hero", Key: "subtitle", Content: "Bureau d'études"},
			}, nil
		},
	}
	h := NewTextHandler(service, &mockMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/api/texts?page=home", nil)
	rec := httptest.NewRecorder()
	h.ListByPage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body struct {
		Texts []textResponse `json:"texts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Texts) != 2 {
		t.Fatalf("len(texts) = %d, want 2", len(body.Texts))
	}
	if body.Texts[0].Content != "La Maîtrise" {
		t.Errorf("content = %q, want La Maîtrise", body.Texts[0].Content)
	}
}

func TestTextHandler_ListByPageRequiresPage(t *testing.T) {
	h := NewTextHandler(&mockTextService{}, &mockMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/api/texts", nil)
	rec := httptest.NewRecorder()
	h.ListByPage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestTextHandler_SaveRecordsChangedFlag(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changed bool
	}{
		{"changed save", "Nouveau titre", true},
		{"no-op save", "Ancien titre", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockTextService{
				saveFunc: func(_ context.Context, key model.TextKey, draft string) (string, bool, error) {
					if key != (model.TextKey{Page: "home", Section: "hero", Key: "title"}) {
						t.Errorf("unexpected key: %+v", key)
					}
					return draft, tt.changed, nil
				},
			}
			recorder := &mockMetrics{}
			h := NewTextHandler(service, recorder)

			req := httptest.NewRequest(http.MethodPut, "/api/admin/texts",
				strings.NewReader(`{"page":"home","section":"hero","key":"title","content":"`+tt.content+`"}`))
			rec := httptest.NewRecorder()
			h.Save(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			var body saveTextResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Changed != tt.changed {
				t.Errorf("changed = %v, want %v", body.Changed, tt.changed)
			}
			if len(recorder.textSaves) != 1 || recorder.textSaves[0] != tt.changed {
				t.Errorf("recorded saves = %v, want [%v]", recorder.textSaves, tt.changed)
			}
		})
	}
}

func TestTextHandler_SaveRejectsMalformedBody(t *testing.T) {
	h := NewTextHandler(&mockTextService{}, &mockMetrics{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/texts", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Save(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
