package model

import "fmt"

// Provider selects where generation requests are served.
type Provider string

const (
	ProviderCloud Provider = "cloud"
	ProviderLocal Provider = "local"
)

// DefaultCloudModel is the model used when settings have never been saved.
const DefaultCloudModel = "gemini-2.5-flash"

// CloudModels are the hosted models offered for selection.
var CloudModels = []string{
	"gemini-2.5-flash",
	"gemini-3-pro-preview",
}

// Settings holds the user's application preferences.
type Settings struct {
	Provider           Provider `json:"provider"`
	Model              string   `json:"model"`
	LocalModelID       string   `json:"localModelId"`
	UserName           string   `json:"userName"`
	OnboardingComplete bool     `json:"hasCompletedOnboarding"`
}

// DefaultSettings returns the settings used on first access.
func DefaultSettings() Settings {
	return Settings{
		Provider: ProviderCloud,
		Model:    DefaultCloudModel,
	}
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderCloud, ProviderLocal:
		return Provider(s), nil
	}
	return "", fmt.Errorf("invalid provider %q (use cloud or local)", s)
}

// ModelStatus is the lifecycle state of a catalog model.
type ModelStatus string

const (
	ModelAvailable   ModelStatus = "available"
	ModelDownloading ModelStatus = "downloading"
	ModelReady       ModelStatus = "ready"
)

// LocalModel is one entry of the on-device model catalog.
type LocalModel struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Family      string      `json:"family"`
	Size        string      `json:"size"`
	Description string      `json:"description"`
	Status      ModelStatus `json:"status"`
	Progress    float64     `json:"progress"`
}
