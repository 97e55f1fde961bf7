package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/record-and-post/internal/model"
)

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if diff := cmp.Diff(model.DefaultSettings(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := model.Settings{
		Provider:           model.ProviderLocal,
		Model:              "gemini-3-pro-preview",
		LocalModelID:       "gemma-2b-it-q4f16_1",
		UserName:           "Sam",
		OnboardingComplete: true,
	}
	if err := s.PutSettings(ctx, want); err != nil {
		t.Fatalf("put settings: %v", err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsPartialRecordKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.setKV(ctx, SettingsKey, []byte(`{"userName":"Sam"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if got.UserName != "Sam" || got.Model != model.DefaultCloudModel || got.Provider != model.ProviderCloud {
		t.Errorf("unexpected settings: %+v", got)
	}
}

func TestModelsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.GetModels(ctx)
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil snapshot, got %+v", got)
	}

	want := []model.LocalModel{
		{ID: "m1", Name: "M1", Status: model.ModelReady, Progress: 100},
		{ID: "m2", Name: "M2", Status: model.ModelAvailable},
	}
	if err := s.PutModels(ctx, want); err != nil {
		t.Fatalf("put models: %v", err)
	}
	got, err = s.GetModels(ctx)
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("models mismatch (-want +got):\n%s", diff)
	}
}
