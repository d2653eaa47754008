package api_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/garnizeh/feedback/api"
	"github.com/garnizeh/feedback/internal/models"
)

func TestSchemas(t *testing.T) {
	schemas, err := api.LoadSchemas(os.DirFS("."))
	if err != nil {
		t.Fatalf("LoadSchemas: %v", err)
	}
	for _, name := range []string{"login", "feedback_create", "feedback_update"} {
		if _, ok := schemas.Get(name); !ok {
			t.Fatalf("schema %s not loaded", name)
		}
	}

	tests := []struct {
		name    string
		schema  string
		body    string
		wantErr bool
	}{
		{name: "LoginOK", schema: "login", body: `{"username":"a","password":"b"}`},
		{name: "LoginMissingPassword", schema: "login", body: `{"username":"a"}`, wantErr: true},
		{name: "LoginNotObject", schema: "login", body: `[]`, wantErr: true},
		{name: "LoginInvalidJSON", schema: "login", body: `{`, wantErr: true},
		{name: "CreateOK", schema: "feedback_create", body: `{"employee_id":3,"strengths":"s","areas_to_improve":"a","sentiment":"positive"}`},
		{name: "CreateZeroEmployee", schema: "feedback_create", body: `{"employee_id":0,"strengths":"s","areas_to_improve":"a","sentiment":"positive"}`, wantErr: true},
		{name: "CreateBadSentiment", schema: "feedback_create", body: `{"employee_id":3,"strengths":"s","areas_to_improve":"a","sentiment":"ok"}`, wantErr: true},
		{name: "UpdateEmpty", schema: "feedback_update", body: `{}`},
		{name: "UpdateSentimentOnly", schema: "feedback_update", body: `{"sentiment":"neutral"}`},
		{name: "UpdateWrongType", schema: "feedback_update", body: `{"strengths":5}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.Check(context.Background(), tt.schema, []byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if err := schemas.Check(context.Background(), "unknown", []byte(`{}`)); err == nil || errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected internal error for unknown schema, got %v", err)
	}
}
